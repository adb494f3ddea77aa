package temporal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanner_PatternFamilies(t *testing.T) {
	s := NewScanner()

	tests := []struct {
		name   string
		text   string
		span   string
		family Family
	}{
		{"explicit slash date", "12/05/2025 ko leave chahiye", "12/05/2025", FamilyExplicitDate},
		{"explicit dash date", "leave on 03-12-25 please", "03-12-25", FamilyExplicitDate},
		{"day month", "15 dec ko chutti chahiye", "15 dec", FamilyDayMonth},
		{"day month with year", "15 dec, 2025 ko leave", "15 dec, 2025", FamilyDayMonth},
		{"month day order", "leave on December 24", "December 24", FamilyDayMonth},
		{"misspelled month", "chutti on 5 janvary", "5 janvary", FamilyDayMonth},
		{"day month range", "12 dec se 15 dec leave chahiye", "12 dec se 15 dec", FamilyRange},
		{"english range", "leave from 24 November to 27 November", "24 November to 27 November", FamilyRange},
		{"relative day", "kal chutti chahiye", "kal", FamilyRelativeDay},
		{"fuzzy tomorrow", "tommorow I need leave", "tommorow", FamilyRelativeDay},
		{"parso", "parso ka gatepass", "parso", FamilyRelativeDay},
		{"weekday english", "friday ko leave chahiye", "friday", FamilyWeekday},
		{"weekday hindi", "somvar ko chutti", "somvar", FamilyWeekday},
		{"numeric range", "20 se 25 leave chahiye", "20 se 25", FamilyNumericRange},
		{"dash numeric range", "5-10 leave lena hai", "5-10", FamilyNumericRange},
		{"duration hindi", "3 din ki chutti", "3 din", FamilyDuration},
		{"duration english", "need next 2 days off", "next 2 days", FamilyDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := s.Scan(tt.text)
			assert.Equal(t, tt.span, ev.Span)
			assert.Equal(t, tt.family, ev.Family)
		})
	}
}

func TestScanner_NoDateReturnsEmpty(t *testing.T) {
	s := NewScanner()

	for _, text := range []string{
		"leave chahiye",
		"mera leave balance kitna hai",
		"hello",
		"",
	} {
		ev := s.Scan(text)
		assert.Empty(t, ev.Span, "text=%q", text)
	}
}

func TestScanner_LongestMatchWins(t *testing.T) {
	s := NewScanner()

	// Both "friday" (weekday) and "kal se friday tak" (range) match; the
	// longer range string must win.
	ev := s.Scan("kal se friday tak leave chahiye")
	assert.Equal(t, "kal se friday tak", ev.Span)
	assert.Equal(t, FamilyRange, ev.Family)
}

func TestScanner_SpanIsVerbatimSubstring(t *testing.T) {
	s := NewScanner()

	texts := []string{
		"Kal Se FRIDAY tak leave chahiye",
		"24 November To 27 november off",
		"15 DEC, 2025 ko chutti",
		"TOMMOROW leave",
	}
	for _, text := range texts {
		ev := s.Scan(text)
		assert.True(t, strings.Contains(text, ev.Span),
			"span %q must be a verbatim substring of %q", ev.Span, text)
	}
}

func TestScanner_ClockTimesAreNotDates(t *testing.T) {
	s := NewScanner()

	// "1 se 2 baje" is a clock range, not a date range.
	ev := s.Scan("gatepass chahiye 1 se 2 baje")
	assert.Empty(t, ev.Span)

	// A real date alongside a clock time still scans.
	ev = s.Scan("kal 2 baje se gatepass chahiye")
	assert.Equal(t, "kal", ev.Span)
}
