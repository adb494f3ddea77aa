// Package perception turns a raw employee message into an IntentDecision.
// Two layers cooperate: a deterministic keyword layer that always runs and
// is authoritative for the task, and an optional LLM extraction layer that
// may enrich leave type, reason, and language but is never allowed to own
// temporal facts or invent a half day.
package perception

import (
	"strings"
	"unicode"

	"hrsaathi/internal/types"
)

// =============================================================================
// KEYWORD VOCABULARY
// =============================================================================
// Fixed multilingual lists checked by substring containment on the
// lower-cased message. Priority: missed-punch > gate-pass > leave, so a
// message mentioning both "leave" and "missed punch" is a punch correction.

var missedPunchWords = []string{
	"missed punch", "miss punch", "mis punch", "mispunch", "miss-punch",
	"punch miss", "punch nahi", "punch nahin", "punch nhi",
	"punch bhool", "punch bhul", "punch correction", "punch chhut",
	"attendance correction", "thumb nahi", "biometric nahi",
}

var gatePassWords = []string{
	"gatepass", "gate pass", "gate-pass", "gatpass", "gate paas",
	"out pass", "outpass", "short leave", "bahar jana", "bahar jaana",
	"market jana", "bank jana",
}

var leaveWords = []string{
	"leave", "chutti", "chhutti", "chuti", "chutty", "choti chahiye",
	"avkash", "holiday chahiye", "off chahiye", "off lena",
	"absent rahunga", "rest lena", "ghar jana", "ghar jaana",
}

var balanceWords = []string{
	"balance", "kitni leave", "kitni chutti", "kitna leave",
	"remaining leave", "leave bachi", "leave bacha",
}

var pendingWords = []string{
	"pending", "status", "approve hua", "approved hua", "approval",
	"swikrit",
}

// Half-day detection is a strict allow-list. Any half-day claim that does
// not literally use one of these phrases is downgraded to full - the LLM
// layer cannot promote a leave to half day on its own.
var halfDayPhrases = []string{
	"half day", "half-day", "halfday", "aadha din", "adha din",
	"half leave", "half chutti", "half chhutti", "dopahar ke baad",
	"dopahar ke bad", "first half", "second half",
}

// Hinglish function words for language detection.
var hinglishWords = []string{
	"hai", "chahiye", "nahi", "nhi", "mujhe", "mera", "meri", "karna",
	"lena", "jana", "jaana", "bhai", "kripya", "krna", "hona", "raha",
	"rahi", "kyunki", "liye",
}

// =============================================================================
// KEYWORD CLASSIFIER
// =============================================================================

// KeywordClassifier is the deterministic, authoritative intent layer.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify maps a message to a task using the fixed vocabulary alone.
// It never consults a model and has no side effects.
func (c *KeywordClassifier) Classify(text string) types.IntentDecision {
	lower := strings.ToLower(text)

	task := c.taskOf(lower)

	leaveType := types.LeaveUnset
	if task == types.TaskApplyLeave {
		leaveType = types.LeaveFull
		if IsHalfDay(lower) {
			leaveType = types.LeaveHalf
		}
	}

	return types.IntentDecision{
		Task:      task,
		LeaveType: leaveType,
		Language:  DetectLanguage(text),
		Source:    types.SourceRule,
	}
}

func (c *KeywordClassifier) taskOf(lower string) types.Task {
	pending := containsAny(lower, pendingWords)

	// Status queries first: "leave pending hai kya" is a query, not an
	// application, even though it contains a leave keyword.
	if pending {
		switch {
		case containsAny(lower, missedPunchWords):
			return types.TaskPendingMissedPunch
		case containsAny(lower, gatePassWords):
			return types.TaskPendingGatePass
		case containsAny(lower, leaveWords):
			return types.TaskPendingLeave
		}
	}
	if containsAny(lower, balanceWords) {
		return types.TaskLeaveBalance
	}

	// Apply intents in priority order.
	switch {
	case containsAny(lower, missedPunchWords):
		return types.TaskApplyMissedPunch
	case containsAny(lower, gatePassWords):
		return types.TaskApplyGatePass
	case containsAny(lower, leaveWords), IsHalfDay(lower):
		// A bare half-day phrase ("half day chahiye") is a leave request
		// even without a leave keyword.
		return types.TaskApplyLeave
	}
	return types.TaskGeneral
}

// IsHalfDay reports whether the message contains an allow-listed half-day
// phrase. Expects lower-cased input.
func IsHalfDay(lower string) bool {
	return containsAny(lower, halfDayPhrases)
}

// DetectLanguage is the fallback language heuristic: Devanagari script or
// Hinglish function words mean Hindi, else English.
func DetectLanguage(text string) types.Language {
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return types.LangHindi
		}
	}
	lower := strings.ToLower(text)
	for _, w := range hinglishWords {
		if containsWord(lower, w) {
			return types.LangHindi
		}
	}
	return types.LangEnglish
}

// DetectPunchKind decides which side of a gate-pass or punch record the
// user is talking about. Explicit checkout phrasing forces out-only,
// check-in phrasing forces in-only, both force both, neither defaults to
// both so the record is never time-less.
func DetectPunchKind(text string) types.PunchKind {
	lower := strings.ToLower(text)
	out := containsAny(lower, []string{"checkout", "check out", "check-out", "out time", "out-time", "outtime", "bahar", "nikalna", "nikal"})
	in := containsAny(lower, []string{"checkin", "check in", "check-in", "in time", "in-time", "intime", "andar", "wapas", "aana hai"})

	switch {
	case out && !in:
		return types.PunchOut
	case in && !out:
		return types.PunchIn
	default:
		return types.PunchBoth
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// containsWord matches w as a whole token, not a substring, so "hai" does
// not fire on "chain".
func containsWord(s, w string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		if f == w {
			return true
		}
	}
	return false
}
