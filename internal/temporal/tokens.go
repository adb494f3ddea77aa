package temporal

import (
	"sort"
	"strings"
	"time"
)

// =============================================================================
// TOKEN TABLES - Hinglish/English vocabulary for dates
// =============================================================================
// These tables are the single source of truth for both the scanner (regex
// alternations) and the normalizer (token lookup). Misspellings observed in
// real employee messages are part of the table, not patched case by case.

// monthTokens maps month spellings (including common misspellings and
// Hinglish transliterations) to calendar months.
var monthTokens = map[string]time.Month{
	"jan": time.January, "january": time.January, "janvary": time.January,
	"janaury": time.January, "janury": time.January,

	"feb": time.February, "february": time.February, "febuary": time.February,
	"feburary": time.February, "febrary": time.February, "farvari": time.February,

	"mar": time.March, "march": time.March, "marrch": time.March, "marh": time.March,

	"apr": time.April, "april": time.April, "aprail": time.April, "apryl": time.April,

	"may": time.May, "mai": time.May,

	"jun": time.June, "june": time.June, "junn": time.June,

	"jul": time.July, "july": time.July, "julai": time.July, "jully": time.July,

	"aug": time.August, "august": time.August, "agust": time.August, "augest": time.August,

	"sep": time.September, "sept": time.September, "september": time.September,
	"setember": time.September, "septembar": time.September,

	"oct": time.October, "october": time.October, "octuber": time.October,
	"octobar": time.October, "aktubar": time.October,

	"nov": time.November, "november": time.November, "novembar": time.November,
	"novmber": time.November,

	"dec": time.December, "december": time.December, "desember": time.December,
	"decembar": time.December, "disambar": time.December, "disamber": time.December,
}

// weekdayTokens maps weekday spellings in English and Hindi transliteration.
var weekdayTokens = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"somvar": time.Monday, "somwar": time.Monday, "somvaar": time.Monday,

	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"mangalvar": time.Tuesday, "mangalwar": time.Tuesday,

	"wednesday": time.Wednesday, "wed": time.Wednesday, "wednsday": time.Wednesday,
	"budhvar": time.Wednesday, "budhwar": time.Wednesday, "budvar": time.Wednesday,

	"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
	"guruvar": time.Thursday, "guruwar": time.Thursday, "veervar": time.Thursday,
	"brihaspativar": time.Thursday,

	"friday": time.Friday, "fri": time.Friday, "fridy": time.Friday,
	"shukravar": time.Friday, "shukrawar": time.Friday, "sukravar": time.Friday,

	"saturday": time.Saturday, "sat": time.Saturday, "saturdy": time.Saturday,
	"shanivar": time.Saturday, "shaniwar": time.Saturday, "sanivar": time.Saturday,

	"sunday": time.Sunday, "sun": time.Sunday,
	"ravivar": time.Sunday, "raviwar": time.Sunday, "itvar": time.Sunday, "itwar": time.Sunday,
}

// Relative-day vocabulary. "kal" and "parso" are direction-ambiguous in
// Hindi; the normalizer resolves them with a Bias. English words are not
// ambiguous and ignore the bias.
var (
	todayWords     = []string{"aaj", "aj", "today", "todey", "2day"}
	kalWords       = []string{"kal", "kall", "kl", "kaal"}
	tomorrowWords  = []string{"tomorrow", "tommorow", "tomorow", "tomorro", "tmrw", "tmr"}
	parsoWords     = []string{"parso", "parson", "parsoon", "porso"}
	yesterdayWords = []string{"yesterday", "yest", "ystrday"}
)

// monthFromToken resolves a month spelling, falling back to the 3-letter
// prefix so truncations like "novembr" still land.
func monthFromToken(tok string) (time.Month, bool) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if m, ok := monthTokens[tok]; ok {
		return m, true
	}
	if len(tok) >= 3 {
		if m, ok := monthTokens[tok[:3]]; ok {
			return m, true
		}
	}
	return 0, false
}

func weekdayFromToken(tok string) (time.Weekday, bool) {
	wd, ok := weekdayTokens[strings.ToLower(strings.TrimSpace(tok))]
	return wd, ok
}

// relDayOffset resolves a relative-day word to a day offset from today.
// Bias flips only the Hindi ambiguous words.
func relDayOffset(tok string, bias Bias) (int, bool) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	switch {
	case contains(todayWords, tok):
		return 0, true
	case contains(tomorrowWords, tok):
		return 1, true
	case contains(yesterdayWords, tok):
		return -1, true
	case contains(kalWords, tok):
		if bias == BiasBackward {
			return -1, true
		}
		return 1, true
	case contains(parsoWords, tok):
		if bias == BiasBackward {
			return -2, true
		}
		return 2, true
	}
	return 0, false
}

// IsRelativeDay reports whether a span is a single relative-day word. The
// pipeline uses this to decide when a missed-punch turn needs backward
// re-resolution.
func IsRelativeDay(span string) bool {
	_, ok := relDayOffset(span, BiasForward)
	return ok
}

func contains(words []string, tok string) bool {
	for _, w := range words {
		if w == tok {
			return true
		}
	}
	return false
}

// alternation joins tokens into a regex alternation, longest first so that
// "december" is preferred over its "dec" prefix.
func alternation(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return strings.Join(sorted, "|")
}

func monthAlternation() string {
	toks := make([]string, 0, len(monthTokens))
	for t := range monthTokens {
		toks = append(toks, t)
	}
	return alternation(toks)
}

func weekdayAlternation() string {
	toks := make([]string, 0, len(weekdayTokens))
	for t := range weekdayTokens {
		toks = append(toks, t)
	}
	return alternation(toks)
}

func relDayAlternation() string {
	var toks []string
	toks = append(toks, todayWords...)
	toks = append(toks, kalWords...)
	toks = append(toks, tomorrowWords...)
	toks = append(toks, parsoWords...)
	toks = append(toks, yesterdayWords...)
	return alternation(toks)
}
