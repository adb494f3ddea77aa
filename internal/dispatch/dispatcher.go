package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hrsaathi/internal/logging"
	"hrsaathi/internal/types"
)

// Result is the dispatch outcome returned to the caller. Backend failures
// are not errors: OK=false with the backend's message preserved verbatim,
// because the action may have partially succeeded and only the caller can
// decide what to tell the user.
type Result struct {
	OK          bool
	RawResponse string
	Summary     string
}

// Dispatcher maps ActionRecords onto backend operations.
type Dispatcher struct {
	client *Client
	log    *zap.Logger
}

func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{
		client: client,
		log:    logging.For(logging.CategoryDispatch),
	}
}

// Per-family type codes expected by the backend.
const (
	leaveCodeFull = "FL"
	leaveCodeHalf = "HL"

	passTypeOut  = "O"
	passTypeIn   = "I"
	passTypeBoth = "OI"

	punchTypeOut  = "OUT"
	punchTypeIn   = "IN"
	punchTypeBoth = "BOTH"
)

// Wire payloads. Each action family has its own field set; the names here
// are the backend's, not ours.
type leavePayload struct {
	EmployeeID string `json:"employee_id"`
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date"`
	LeaveCode  string `json:"leave_code"`
	Reason     string `json:"reason"`
	RequestID  string `json:"request_id"`
}

type gatePassPayload struct {
	EmployeeID string `json:"employee_id"`
	PassDate   string `json:"pass_date"`
	OutTime    string `json:"out_time"`
	InTime     string `json:"in_time"`
	PassType   string `json:"pass_type"`
	Reason     string `json:"reason"`
	RequestID  string `json:"request_id"`
}

type missedPunchPayload struct {
	EmployeeID string `json:"employee_id"`
	PunchDate  string `json:"punch_date"`
	InTime     string `json:"in_time,omitempty"`
	OutTime    string `json:"out_time,omitempty"`
	PunchType  string `json:"punch_type"`
	Remarks    string `json:"remarks"`
	RequestID  string `json:"request_id"`
}

type queryPayload struct {
	EmployeeID string `json:"employee_id"`
	Category   string `json:"category,omitempty"`
}

const wireDate = "2006-01-02"

// Dispatch sends the record to the matching backend operation. The error
// return is reserved for programming errors (unknown task); backend and
// transport failures come back as Result{OK: false}.
func (d *Dispatcher) Dispatch(ctx context.Context, rec types.ActionRecord) (Result, error) {
	var (
		resp backendResponse
		raw  string
		err  error
	)

	switch rec.Task {
	case types.TaskApplyLeave:
		code := leaveCodeFull
		if rec.LeaveType == types.LeaveHalf {
			code = leaveCodeHalf
		}
		resp, raw, err = d.client.post(ctx, "/api/leave/apply", leavePayload{
			EmployeeID: rec.UserID,
			FromDate:   rec.Start.Format(wireDate),
			ToDate:     rec.End.Format(wireDate),
			LeaveCode:  code,
			Reason:     rec.Reason,
			RequestID:  rec.RequestID,
		})

	case types.TaskApplyGatePass:
		resp, raw, err = d.client.post(ctx, "/api/gatepass/apply", gatePassPayload{
			EmployeeID: rec.UserID,
			PassDate:   rec.Start.Format(wireDate),
			OutTime:    rec.OutTime,
			InTime:     rec.InTime,
			PassType:   passType(rec.PunchKind),
			Reason:     rec.Reason,
			RequestID:  rec.RequestID,
		})

	case types.TaskApplyMissedPunch:
		p := missedPunchPayload{
			EmployeeID: rec.UserID,
			PunchDate:  rec.Start.Format(wireDate),
			PunchType:  punchType(rec.PunchKind),
			Remarks:    rec.Reason,
			RequestID:  rec.RequestID,
		}
		if rec.PunchKind != types.PunchOut {
			p.InTime = rec.InTime
		}
		if rec.PunchKind != types.PunchIn {
			p.OutTime = rec.OutTime
		}
		resp, raw, err = d.client.post(ctx, "/api/punch/missed", p)

	case types.TaskLeaveBalance:
		resp, raw, err = d.client.post(ctx, "/api/leave/balance", queryPayload{EmployeeID: rec.UserID})

	case types.TaskPendingLeave:
		resp, raw, err = d.client.post(ctx, "/api/requests/pending", queryPayload{EmployeeID: rec.UserID, Category: "leave"})
	case types.TaskPendingGatePass:
		resp, raw, err = d.client.post(ctx, "/api/requests/pending", queryPayload{EmployeeID: rec.UserID, Category: "gatepass"})
	case types.TaskPendingMissedPunch:
		resp, raw, err = d.client.post(ctx, "/api/requests/pending", queryPayload{EmployeeID: rec.UserID, Category: "missed_punch"})

	default:
		return Result{}, fmt.Errorf("no backend operation for task %q", rec.Task)
	}

	if err != nil {
		d.log.Warn("dispatch failed",
			zap.String("task", string(rec.Task)),
			zap.String("request_id", rec.RequestID),
			zap.Error(err))
		return Result{OK: false, RawResponse: raw, Summary: err.Error()}, nil
	}

	result := Result{
		OK:          resp.Status,
		RawResponse: raw,
		Summary:     summarize(rec, resp),
	}
	d.log.Info("dispatched",
		zap.String("task", string(rec.Task)),
		zap.String("request_id", rec.RequestID),
		zap.Bool("ok", result.OK))
	return result, nil
}

func passType(k types.PunchKind) string {
	switch k {
	case types.PunchOut:
		return passTypeOut
	case types.PunchIn:
		return passTypeIn
	default:
		return passTypeBoth
	}
}

func punchType(k types.PunchKind) string {
	switch k {
	case types.PunchOut:
		return punchTypeOut
	case types.PunchIn:
		return punchTypeIn
	default:
		return punchTypeBoth
	}
}

// summarize renders the human-readable dispatch summary with dates in
// "DD Mon, YYYY" form. Backend failures keep the backend message verbatim.
func summarize(rec types.ActionRecord, resp backendResponse) string {
	if !resp.Status {
		return resp.Message
	}

	switch rec.Task {
	case types.TaskApplyLeave:
		span := types.FormatDate(rec.Start)
		if !rec.End.Equal(rec.Start) {
			span += " to " + types.FormatDate(rec.End)
		}
		return fmt.Sprintf("%s leave applied for %s", rec.LeaveType, span)
	case types.TaskApplyGatePass:
		return fmt.Sprintf("gate pass applied for %s (%s - %s)",
			types.FormatDate(rec.Start), rec.OutTime, rec.InTime)
	case types.TaskApplyMissedPunch:
		return fmt.Sprintf("missed punch correction applied for %s", types.FormatDate(rec.Start))
	default:
		return resp.Message
	}
}
