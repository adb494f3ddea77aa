package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hrsaathi/internal/logging"
	"hrsaathi/internal/types"
)

// Bias controls how direction-ambiguous Hindi words resolve. "kal" is
// tomorrow when applying leave but yesterday when correcting a missed punch
// (a punch correction is necessarily retrospective).
type Bias int

const (
	BiasForward Bias = iota
	BiasBackward
)

// Normalizer converts an evidence span into a concrete date range.
// It never fails: unparsable input degrades to today/today rather than
// failing the turn.
type Normalizer struct {
	log *zap.Logger
}

func NewNormalizer() *Normalizer {
	return &Normalizer{log: logging.For(logging.CategoryTemporal)}
}

var (
	trailingTak  = regexp.MustCompile(`(?i)\s+(?:tak|till)\s*$`)
	rangeSplit   = regexp.MustCompile(`(?i)^(.+?)\s*(?:\bse\s+lekar\b|\bse\b|\bto\b|\btak\b|\btill\b|[-\x{2013}])\s*(.+)$`)
	explicitDate = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
	dayMonthPat  = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)?\s*(?:of\s+)?([a-z]+)(?:[,\s]+(\d{4}))?$`)
	monthDayPat  = regexp.MustCompile(`(?i)^([a-z]+)\s*(\d{1,2})(?:st|nd|rd|th)?$`)
	bareNumber   = regexp.MustCompile(`^\d{1,2}$`)
	durationPat  = regexp.MustCompile(`(?i)^(?:next|agle|agla)?\s*(\d{1,2})\s*(?:din|dino|days?)$`)
)

// Resolve turns a scanner span (possibly empty) plus a reference instant
// into a concrete range. The output is always concrete and always satisfies
// End >= Start.
func (n *Normalizer) Resolve(span string, now time.Time, bias Bias) types.DateRange {
	today := types.Date(now)
	s := strings.ToLower(strings.TrimSpace(span))
	s = trailingTak.ReplaceAllString(s, "")

	r := n.resolve(s, today, bias)

	// The invariant is enforced by construction above; this is the last
	// line of defense required by the error-handling contract.
	if r.End.Before(r.Start) {
		n.log.Error("date range invariant violated, clamping",
			zap.String("span", span),
			zap.Time("start", r.Start),
			zap.Time("end", r.End))
		r.End = r.Start
	}

	n.log.Debug("resolved span",
		zap.String("span", span),
		zap.Time("start", r.Start),
		zap.Time("end", r.End))
	return r
}

func (n *Normalizer) resolve(s string, today time.Time, bias Bias) types.DateRange {
	if s == "" {
		return types.DateRange{Start: today, End: today}
	}

	// Rules 1-3: the whole span is a single day expression.
	if d, ok := resolveSingle(s, today, bias); ok {
		return types.DateRange{Start: d, End: d}
	}

	// Rule 4: explicit range - both operands resolved independently.
	if m := rangeSplit.FindStringSubmatch(s); m != nil {
		left, right := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		start, okL := resolveSingle(left, today, bias)
		end, okR := resolveSingle(right, today, bias)
		if okL && okR {
			if bareNumber.MatchString(left) && bareNumber.MatchString(right) {
				// Numeric day-only ranges stay inside the current month:
				// a backwards "25 se 20" clamps instead of wrapping.
				if end.Before(start) {
					end = start
				}
			}
			for end.Before(start) {
				end = end.AddDate(0, 0, 7)
			}
			return types.DateRange{Start: start, End: end}
		}
	}

	// Rule 5: duration phrases.
	if m := durationPat.FindStringSubmatch(s); m != nil {
		days, _ := strconv.Atoi(m[1])
		if days < 1 {
			days = 1
		}
		return types.DateRange{Start: today, End: today.AddDate(0, 0, days-1)}
	}

	// Rule 6: nothing matched - default to today.
	return types.DateRange{Start: today, End: today}
}

// resolveSingle resolves one day expression: relative-day word, weekday,
// day+month (either order, misspellings tolerated), explicit numeric date,
// or a bare day number in the current month.
func resolveSingle(tok string, today time.Time, bias Bias) (time.Time, bool) {
	tok = strings.TrimSpace(tok)

	if off, ok := relDayOffset(tok, bias); ok {
		return today.AddDate(0, 0, off), true
	}

	if wd, ok := weekdayFromToken(tok); ok {
		return nextWeekday(today, wd), true
	}

	if m := explicitDate.FindStringSubmatch(tok); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location()), true
		}
		return time.Time{}, false
	}

	if m := dayMonthPat.FindStringSubmatch(tok); m != nil {
		if month, ok := monthFromToken(m[2]); ok {
			day, _ := strconv.Atoi(m[1])
			year := today.Year()
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
			}
			// No year rollover: a past day/month resolves within the
			// current year.
			if day >= 1 && day <= 31 {
				return time.Date(year, month, day, 0, 0, 0, 0, today.Location()), true
			}
		}
		return time.Time{}, false
	}

	if m := monthDayPat.FindStringSubmatch(tok); m != nil {
		if month, ok := monthFromToken(m[1]); ok {
			day, _ := strconv.Atoi(m[2])
			if day >= 1 && day <= 31 {
				return time.Date(today.Year(), month, day, 0, 0, 0, 0, today.Location()), true
			}
		}
		return time.Time{}, false
	}

	if bareNumber.MatchString(tok) {
		day, _ := strconv.Atoi(tok)
		if day >= 1 && day <= 31 {
			return time.Date(today.Year(), today.Month(), day, 0, 0, 0, 0, today.Location()), true
		}
	}

	return time.Time{}, false
}

// nextWeekday returns the next occurrence of wd strictly after today.
// A same-day match is pushed a full week forward - "monday" said on a
// Monday means the coming Monday, never today or the past.
func nextWeekday(today time.Time, wd time.Weekday) time.Time {
	d := today.AddDate(0, 0, 1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
