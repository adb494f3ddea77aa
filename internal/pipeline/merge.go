package pipeline

import (
	"strings"
	"time"

	"hrsaathi/internal/perception"
	"hrsaathi/internal/session"
	"hrsaathi/internal/temporal"
	"hrsaathi/internal/types"
)

// merge reconciles the classifier decision, the resolved dates, and the
// user's remembered slots into one complete ActionRecord, then returns the
// slot set to remember for the next turn. Caller holds the user's session
// lock.
func (p *Pipeline) merge(
	msg types.RawMessage,
	decision types.IntentDecision,
	evidence temporal.Evidence,
	dates types.DateRange,
	now time.Time,
	mem session.Slots,
) (types.ActionRecord, session.Slots) {
	// When this message carries no date but a previous turn did, the
	// remembered phrase is re-resolved against the current clock. This is
	// how "kal" in one message and "half day" in the next land together.
	span := evidence.Span
	if span == "" && mem.DatePhrase != "" {
		span = mem.DatePhrase
		bias := temporal.BiasForward
		if decision.Task == types.TaskApplyMissedPunch {
			bias = temporal.BiasBackward
		}
		dates = p.normalizer.Resolve(span, now, bias)
	}

	reason := strings.TrimSpace(decision.Reason)
	if reason == "" {
		reason = mem.Reason
	}

	leaveType := decision.LeaveType
	if decision.Task == types.TaskApplyLeave &&
		!perception.IsHalfDay(strings.ToLower(msg.Text)) &&
		mem.LeaveType != types.LeaveUnset {
		// The message didn't state a type itself; the remembered one wins.
		leaveType = mem.LeaveType
	}

	rec := types.ActionRecord{
		RequestID: newRequestID(),
		Task:      decision.Task,
		UserID:    msg.UserID,
		Start:     dates.Start,
		End:       dates.End,
		LeaveType: leaveType,
		Reason:    reason,
		Language:  decision.Language,
		Evidence:  evidence.Span,
	}

	if decision.Task.NeedsTimes() {
		rec.PunchKind = perception.DetectPunchKind(msg.Text)
		rec.InTime, rec.OutTime = p.resolveTimeSlots(msg.Text, rec.PunchKind, mem)
	}

	slots := session.Slots{
		DatePhrase: span,
		LeaveType:  leaveType,
		Reason:     reason,
		InTime:     rec.InTime,
		OutTime:    rec.OutTime,
	}
	return rec, slots
}

// resolveTimeSlots fills in/out times from the message, then memory, then
// the documented defaults. The downstream API requires at least one time
// value, so the record is never left time-less.
func (p *Pipeline) resolveTimeSlots(text string, kind types.PunchKind, mem session.Slots) (in, out string) {
	if rt, ok := p.normalizer.ResolveTimes(text); ok {
		in, out = rt.InTime, rt.OutTime
	}

	if in == "" {
		in = mem.InTime
	}
	if out == "" {
		out = mem.OutTime
	}
	if in == "" {
		in = types.DefaultInTime
	}
	if out == "" {
		out = types.DefaultOutTime
	}

	switch kind {
	case types.PunchIn:
		out = ""
	case types.PunchOut:
		in = ""
	}
	return in, out
}
