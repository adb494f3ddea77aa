// Package types defines the shared data model for the action resolution
// pipeline: the immutable inbound message, the intermediate decisions each
// stage produces, and the fully merged ActionRecord handed to dispatch.
package types

import "time"

// =============================================================================
// TASK TAXONOMY
// =============================================================================

// Task identifies the HR operation a message resolves to.
type Task string

const (
	TaskApplyLeave         Task = "apply_leave"
	TaskApplyGatePass      Task = "apply_gatepass"
	TaskApplyMissedPunch   Task = "apply_missed_punch"
	TaskLeaveBalance       Task = "leave_balance"
	TaskPendingLeave       Task = "pending_leave"
	TaskPendingGatePass    Task = "pending_gatepass"
	TaskPendingMissedPunch Task = "pending_missed_punch"
	TaskGeneral            Task = "general"
)

// Valid reports whether t is a known task.
func (t Task) Valid() bool {
	switch t {
	case TaskApplyLeave, TaskApplyGatePass, TaskApplyMissedPunch,
		TaskLeaveBalance, TaskPendingLeave, TaskPendingGatePass,
		TaskPendingMissedPunch, TaskGeneral:
		return true
	}
	return false
}

// IsApply reports whether t submits a new request (as opposed to a query).
func (t Task) IsApply() bool {
	switch t {
	case TaskApplyLeave, TaskApplyGatePass, TaskApplyMissedPunch:
		return true
	}
	return false
}

// NeedsTimes reports whether t requires clock-time slots.
func (t Task) NeedsTimes() bool {
	return t == TaskApplyGatePass || t == TaskApplyMissedPunch
}

// LeaveType is the leave duration code.
type LeaveType string

const (
	LeaveFull  LeaveType = "full"
	LeaveHalf  LeaveType = "half"
	LeaveUnset LeaveType = ""
)

// Language is the detected message language.
type Language string

const (
	LangHindi   Language = "hi"
	LangEnglish Language = "en"
)

// DecisionSource records which layer produced an IntentDecision.
type DecisionSource string

const (
	SourceRule   DecisionSource = "rule"
	SourceLLM    DecisionSource = "llm"
	SourceMerged DecisionSource = "merged"
)

// PunchKind selects which side of a gate-pass or punch record applies.
type PunchKind string

const (
	PunchIn   PunchKind = "in"
	PunchOut  PunchKind = "out"
	PunchBoth PunchKind = "both"
)

// =============================================================================
// MESSAGE AND RESOLVED SLOTS
// =============================================================================

// RawMessage is the immutable pipeline input. It is never mutated; every
// stage that needs a variant (lower-cased, trimmed) works on a copy.
type RawMessage struct {
	Text       string
	UserID     string
	ReceivedAt time.Time
}

// DateRange is a resolved calendar range. Both bounds are civil dates
// (midnight in the reference location). Invariant: !End.Before(Start).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count of the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Valid reports whether the range invariant holds.
func (r DateRange) Valid() bool {
	return !r.End.Before(r.Start)
}

// Default time slots substituted when an action needs a time the message
// omits. The downstream API rejects records with no time value at all.
const (
	DefaultInTime  = "10:00"
	DefaultOutTime = "19:00"
)

// ResolvedTime holds optional HH:MM clock times for gate-pass and
// missed-punch actions.
type ResolvedTime struct {
	InTime  string
	OutTime string
}

// IntentDecision is the classifier output for one message.
type IntentDecision struct {
	Task      Task
	LeaveType LeaveType
	Reason    string
	Language  Language
	Source    DecisionSource
}

// =============================================================================
// ACTION RECORD
// =============================================================================

// ActionRecord is the fully merged, downstream-ready action. Built fresh
// each turn; never persisted beyond the turn except through the narrower
// session slot set.
type ActionRecord struct {
	RequestID string
	Task      Task
	UserID    string

	Start time.Time
	End   time.Time

	InTime  string
	OutTime string

	LeaveType LeaveType
	PunchKind PunchKind
	Reason    string
	Language  Language

	// Evidence is the verbatim date/time span from the message, kept for
	// audit logging only. It never feeds back into resolution.
	Evidence string
}

// FormatDate renders a civil date the way replies show it: "22 Nov, 2025".
func FormatDate(t time.Time) string {
	return t.Format("02 Jan, 2006")
}

// Date truncates an instant to its civil date in its own location.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
