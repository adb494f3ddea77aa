// Package temporal extracts and resolves date/time evidence from employee
// messages. The Scanner finds the verbatim span that carries the date; the
// Normalizer turns that span into concrete calendar dates. The split is
// deliberate: only the scanner may decide WHAT the user said about time,
// and only the normalizer may decide WHEN that is.
package temporal

import (
	"fmt"
	"regexp"
)

// Family identifies which pattern family produced an evidence span.
type Family string

const (
	FamilyExplicitDate Family = "explicit_date"
	FamilyRange        Family = "range"
	FamilyNumericRange Family = "numeric_range"
	FamilyDayMonth     Family = "day_month"
	FamilyRelativeDay  Family = "relative_day"
	FamilyWeekday      Family = "weekday"
	FamilyDuration     Family = "duration"
)

// Evidence is the scanner output: the longest date-bearing substring of the
// message. Span is always a verbatim slice of the original text - never
// rewritten, corrected, or re-ordered. An empty span is valid (no date
// mentioned).
type Evidence struct {
	Span   string
	Family Family
}

// Scanner matches an ordered catalogue of date/time pattern families.
type Scanner struct {
	patterns []patternEntry
	// timeTail rejects numeric spans that are actually clock times
	// ("1 se 2 baje" is a time range, not a date range).
	timeTail *regexp.Regexp
}

type patternEntry struct {
	family Family
	re     *regexp.Regexp
}

// NewScanner compiles the pattern catalogue. Catalogue order is the
// tie-break order when two matches have equal length; the primary rule is
// always longest-match-wins.
func NewScanner() *Scanner {
	months := monthAlternation()
	weekdays := weekdayAlternation()
	relDays := relDayAlternation()

	dayNum := `\d{1,2}(?:st|nd|rd|th)?`
	dayMonth := fmt.Sprintf(`%s\s*(?:of\s+)?(?:%s)(?:[,\s]+\d{4})?`, dayNum, months)
	monthDay := fmt.Sprintf(`(?:%s)\s*%s`, months, dayNum)
	sep := `(?:se\s+lekar|se|to|tak|till|[-\x{2013}])`

	// A range operand: day+month (either order), a relative day, a weekday,
	// or a bare day number.
	unit := fmt.Sprintf(`(?:%s|%s|%s|%s|\d{1,2})`, dayMonth, monthDay, relDays, weekdays)

	compile := func(expr string) *regexp.Regexp {
		return regexp.MustCompile(`(?i)` + expr)
	}

	return &Scanner{
		patterns: []patternEntry{
			{FamilyExplicitDate, compile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)},
			{FamilyRange, compile(fmt.Sprintf(`\b%s\s*%s\s*%s(?:\s+tak)?\b`, unit, sep, unit))},
			{FamilyDayMonth, compile(`\b` + dayMonth + `\b`)},
			{FamilyDayMonth, compile(`\b` + monthDay + `\b`)},
			{FamilyRelativeDay, compile(`\b(?:` + relDays + `)\b`)},
			{FamilyWeekday, compile(`\b(?:` + weekdays + `)\b`)},
			{FamilyDuration, compile(`\b(?:next|agle|agla)\s+\d{1,2}\s*(?:din|dino|days?)\b`)},
			{FamilyDuration, compile(`\b\d{1,2}\s*(?:din|dino|days?)\b`)},
		},
		timeTail: compile(`^\s*(?:baje|bje|am|pm|o'?clock)\b`),
	}
}

// Scan returns the single longest matching substring of text across all
// pattern families, or empty Evidence when nothing matches. The returned
// span is sliced from text itself, so the verbatim invariant holds by
// construction.
func (s *Scanner) Scan(text string) Evidence {
	best := Evidence{}
	bestLen := 0

	for _, p := range s.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			span := text[loc[0]:loc[1]]
			if s.isClockTime(p.family, text, loc[1]) {
				continue
			}
			if len(span) > bestLen {
				best = Evidence{Span: span, Family: p.family}
				bestLen = len(span)
			}
		}
	}

	if best.Family == FamilyRange && numericOnlyRange.MatchString(best.Span) {
		best.Family = FamilyNumericRange
	}
	return best
}

// numericOnlyRange recognizes day-number-only ranges ("20 se 25", "5-10"),
// which get the stay-within-month clamp during normalization.
var numericOnlyRange = regexp.MustCompile(`(?i)^\d{1,2}\s*(?:se\s+lekar|se|to|tak|till|[-\x{2013}])\s*\d{1,2}(?:\s+tak)?$`)

// isClockTime reports whether a numeric match is immediately followed by a
// clock marker, which means it denotes a time of day rather than a date.
func (s *Scanner) isClockTime(f Family, text string, end int) bool {
	if f != FamilyRange && f != FamilyExplicitDate {
		return false
	}
	return s.timeTail.MatchString(text[end:])
}
