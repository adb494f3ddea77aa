package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrsaathi/internal/dispatch"
	"hrsaathi/internal/perception"
	"hrsaathi/internal/session"
	"hrsaathi/internal/types"
)

// recordingDispatcher captures dispatched records and reports success.
type recordingDispatcher struct {
	records []types.ActionRecord
	result  dispatch.Result
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, rec types.ActionRecord) (dispatch.Result, error) {
	d.records = append(d.records, rec)
	if d.result.Summary == "" {
		return dispatch.Result{OK: true, Summary: "submitted"}, nil
	}
	return d.result, nil
}

// stubExtractor returns a fixed extraction.
type stubExtractor struct {
	ext perception.Extraction
	err error
}

func (s stubExtractor) Extract(ctx context.Context, text string) (perception.Extraction, error) {
	return s.ext, s.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Saturday 22 November 2025.
var refSaturday = time.Date(2025, time.November, 22, 11, 0, 0, 0, time.UTC)

func newTestPipeline(d ActionDispatcher) *Pipeline {
	return New(perception.Unavailable{}, session.NewStore(), d)
}

func resolve(t *testing.T, p *Pipeline, text string, now time.Time) Resolution {
	t.Helper()
	res, err := p.Resolve(context.Background(), types.RawMessage{
		Text:       text,
		UserID:     "emp-1",
		ReceivedAt: now,
	})
	require.NoError(t, err)
	return res
}

func TestResolve_LeaveRangeScenario(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	res := resolve(t, p, "kal se friday tak leave chahiye", refSaturday)

	rec := res.Record
	assert.Equal(t, types.TaskApplyLeave, rec.Task)
	assert.Equal(t, types.LeaveFull, rec.LeaveType)
	assert.Equal(t, "kal se friday tak", rec.Evidence)
	assert.Equal(t, day(2025, time.November, 23), rec.Start)
	assert.Equal(t, day(2025, time.November, 28), rec.End)
	assert.Equal(t, types.LangHindi, rec.Language)
	require.Len(t, d.records, 1)
	assert.True(t, res.Dispatch.OK)
	assert.Contains(t, res.Reply, "Done")
}

func TestResolve_NumericRangeScenario(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	now := time.Date(2025, time.November, 10, 9, 0, 0, 0, time.UTC)
	res := resolve(t, p, "20 se 25 leave chahiye", now)

	assert.Equal(t, types.TaskApplyLeave, res.Record.Task)
	assert.Equal(t, day(2025, time.November, 20), res.Record.Start)
	assert.Equal(t, day(2025, time.November, 25), res.Record.End)
}

func TestResolve_GatePassWithTimes(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	res := resolve(t, p, "gatepass chahiye 1 se 2 baje", refSaturday)

	rec := res.Record
	assert.Equal(t, types.TaskApplyGatePass, rec.Task)
	assert.Equal(t, "13:00", rec.OutTime)
	assert.Equal(t, "14:00", rec.InTime)
	assert.Equal(t, types.PunchBoth, rec.PunchKind)
	// No date mentioned: defaults to today.
	assert.Equal(t, day(2025, time.November, 22), rec.Start)
	assert.Equal(t, rec.Start, rec.End)
}

func TestResolve_MissedPunchOutranksLeave(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	res := resolve(t, p, "leave chahiye kyunki missed punch ho gaya hai", refSaturday)
	assert.Equal(t, types.TaskApplyMissedPunch, res.Record.Task)
}

func TestResolve_MissedPunchKalIsYesterday(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	res := resolve(t, p, "kal ka punch miss ho gaya", refSaturday)

	rec := res.Record
	assert.Equal(t, types.TaskApplyMissedPunch, rec.Task)
	assert.Equal(t, day(2025, time.November, 21), rec.Start)

	// Same word in a leave message goes forward.
	res = resolve(t, p, "kal leave chahiye", refSaturday)
	assert.Equal(t, day(2025, time.November, 23), res.Record.Start)
}

func TestResolve_MissedPunchDefaultTimes(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	res := resolve(t, p, "punch miss ho gaya", refSaturday)

	rec := res.Record
	assert.Equal(t, types.PunchBoth, rec.PunchKind)
	assert.Equal(t, types.DefaultInTime, rec.InTime)
	assert.Equal(t, types.DefaultOutTime, rec.OutTime)
}

func TestResolve_CheckoutOnlyPunch(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	res := resolve(t, p, "checkout punch miss ho gaya 6 baje", refSaturday)

	rec := res.Record
	assert.Equal(t, types.PunchOut, rec.PunchKind)
	assert.Equal(t, "18:00", rec.OutTime)
	assert.Empty(t, rec.InTime)
}

func TestResolve_MemoryCarriesSlotsAcrossTurns(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	// Turn 1: date only.
	res := resolve(t, p, "kal chutti chahiye", refSaturday)
	assert.Equal(t, day(2025, time.November, 23), res.Record.Start)
	assert.Equal(t, types.LeaveFull, res.Record.LeaveType)

	// Turn 2: leave type only; the remembered "kal" still applies.
	res = resolve(t, p, "half day chahiye", refSaturday.Add(10*time.Minute))
	assert.Equal(t, types.TaskApplyLeave, res.Record.Task)
	assert.Equal(t, types.LeaveHalf, res.Record.LeaveType)
	assert.Equal(t, day(2025, time.November, 23), res.Record.Start)

	// Turn 3: a new date; the remembered half day sticks until restated.
	res = resolve(t, p, "15 dec ki chutti chahiye", refSaturday)
	assert.Equal(t, day(2025, time.December, 15), res.Record.Start)
	assert.Equal(t, types.LeaveHalf, res.Record.LeaveType)
}

func TestResolve_ForgetClearsMemory(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	resolve(t, p, "kal chutti chahiye", refSaturday)
	p.Forget("emp-1")

	res := resolve(t, p, "leave chahiye", refSaturday)
	// No remembered phrase: defaults to today.
	assert.Equal(t, day(2025, time.November, 22), res.Record.Start)
}

func TestResolve_GeneralSkipsDispatch(t *testing.T) {
	d := &recordingDispatcher{}
	p := newTestPipeline(d)

	res := resolve(t, p, "hello kaise ho", refSaturday)

	assert.Equal(t, types.TaskGeneral, res.Record.Task)
	assert.Empty(t, d.records)
	assert.NotEmpty(t, res.Reply)
}

func TestResolve_LLMEnrichesButNeverOwnsDates(t *testing.T) {
	d := &recordingDispatcher{}
	ext := stubExtractor{ext: perception.Extraction{
		Task:     "apply_leave",
		Reason:   "shaadi me jana hai",
		Language: "hi",
	}}
	p := New(ext, session.NewStore(), d)

	// The keyword layer sees nothing; the LLM promotes the implied leave.
	// The date still comes from the scanner evidence alone.
	res := resolve(t, p, "mujhe kal shaadi me jana hai", refSaturday)

	rec := res.Record
	assert.Equal(t, types.TaskApplyLeave, rec.Task)
	assert.Equal(t, "shaadi me jana hai", rec.Reason)
	assert.Equal(t, "kal", rec.Evidence)
	assert.Equal(t, day(2025, time.November, 23), rec.Start)
}

func TestResolve_BackendFailureReply(t *testing.T) {
	d := &recordingDispatcher{result: dispatch.Result{OK: false, Summary: "insufficient leave balance"}}
	p := newTestPipeline(d)

	res := resolve(t, p, "kal leave chahiye", refSaturday)
	assert.False(t, res.Dispatch.OK)
	assert.Contains(t, res.Reply, "insufficient leave balance")
}
