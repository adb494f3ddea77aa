package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"hrsaathi/internal/types"
)

// Clock-time extraction for gate-pass and missed-punch actions. These look
// at the whole message, not the date evidence span: "kal 2 baje gatepass"
// carries the date in one place and the time in another.

var (
	timeRangePat  = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*(?:se|to|-)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm|baje|bje)\b`)
	singleTimePat = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm|baje|bje)\b`)
)

// ResolveTimes extracts clock times from the message. For a range like
// "1 se 2 baje" the first time is the out time (leaving) and the second the
// in time (returning). A single time is placed in both slots; the merger
// narrows it with the punch kind. Returns ok=false when no time appears.
func (n *Normalizer) ResolveTimes(text string) (types.ResolvedTime, bool) {
	if m := timeRangePat.FindStringSubmatch(text); m != nil {
		marker := m[6]
		out := to24(m[1], m[2], pick(m[3], marker))
		in := to24(m[4], m[5], marker)
		return types.ResolvedTime{OutTime: out, InTime: in}, true
	}
	if m := singleTimePat.FindStringSubmatch(text); m != nil {
		t := to24(m[1], m[2], m[3])
		return types.ResolvedTime{OutTime: t, InTime: t}, true
	}
	return types.ResolvedTime{}, false
}

func pick(own, shared string) string {
	if own != "" {
		return own
	}
	return shared
}

// to24 renders HH:MM in 24-hour form. Bare hours 1-7 ("1 baje", "1 se 2")
// resolve to the afternoon: office actions happen in the working day, so
// "1 baje" is 13:00, not 01:00.
func to24(hourStr, minStr, marker string) string {
	hour, _ := strconv.Atoi(hourStr)
	min := 0
	if minStr != "" {
		min, _ = strconv.Atoi(minStr)
	}

	switch strings.ToLower(marker) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	default:
		if hour >= 1 && hour <= 7 {
			hour += 12
		}
	}
	if hour > 23 {
		hour = 23
	}
	if min > 59 {
		min = 59
	}
	return fmt.Sprintf("%02d:%02d", hour, min)
}
