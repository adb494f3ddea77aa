package perception

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hrsaathi/internal/logging"
	"hrsaathi/internal/types"
)

// ErrUnavailable means the extraction layer produced nothing usable.
// Timeouts, transport errors, and malformed or schema-invalid output all
// collapse to this one condition: the caller falls back to the keyword
// layer and never distinguishes the causes.
var ErrUnavailable = errors.New("extractor unavailable")

// Extraction is the strict schema the LLM layer may return. It carries no
// date or time fields on purpose: temporal facts belong to the scanner and
// normalizer alone, so there is nothing here for a model to hallucinate
// them into.
type Extraction struct {
	Task      string `json:"task"`
	LeaveType string `json:"leave_type"`
	Reason    string `json:"reason"`
	Language  string `json:"language"`
}

// TextExtractor is the capability-gated interface to the optional LLM
// extraction service.
type TextExtractor interface {
	Extract(ctx context.Context, text string) (Extraction, error)
}

// Unavailable is the no-op extractor used when no LLM is configured.
type Unavailable struct{}

func (Unavailable) Extract(ctx context.Context, text string) (Extraction, error) {
	return Extraction{}, ErrUnavailable
}

// =============================================================================
// LLM EXTRACTOR
// =============================================================================

const extractorSystemPrompt = `You classify employee HR messages written in Hindi, English, or Hinglish.

Output ONLY a JSON object with exactly these fields:
{
  "task": "apply_leave|apply_gatepass|apply_missed_punch|leave_balance|pending_leave|pending_gatepass|pending_missed_punch|general",
  "leave_type": "full|half|",
  "reason": "short reason text taken from the message, or empty",
  "language": "hi|en"
}

RULES:
1. Do NOT output any date, day, month, or time. Date fields are handled elsewhere and will be discarded if you add them.
2. "reason" must be quoted or paraphrased from the message only. Never invent a reason.
3. "mujhe ghar jana hai", "tabiyat kharab hai" and similar imply apply_leave.
4. Use "general" when no HR action is being requested.
5. JSON only. No prose, no code fences.`

// LLMExtractor runs the enrichment layer over an LLMClient with a bounded
// timeout.
type LLMExtractor struct {
	client  LLMClient
	timeout time.Duration
	log     *zap.Logger
}

// NewLLMExtractor wraps a client. A zero timeout falls back to 10s.
func NewLLMExtractor(client LLMClient, timeout time.Duration) *LLMExtractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LLMExtractor{
		client:  client,
		timeout: timeout,
		log:     logging.For(logging.CategoryPerception),
	}
}

// Extract asks the model for a structured guess. Any failure mode -
// timeout, transport, malformed JSON, schema violation - is reported as
// ErrUnavailable so the pipeline treats them all identically.
func (e *LLMExtractor) Extract(ctx context.Context, text string) (Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Message: %q", text)
	resp, err := e.client.CompleteWithSystem(ctx, extractorSystemPrompt, userPrompt)
	if err != nil {
		e.log.Debug("extraction call failed", zap.Error(err))
		return Extraction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ext, err := parseExtraction(resp)
	if err != nil {
		e.log.Debug("extraction output rejected", zap.Error(err))
		return Extraction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ext, nil
}

// parseExtraction recovers the first JSON object from the response and
// validates it against the schema. Partial or invalid output is an error,
// not something to patch up.
func parseExtraction(resp string) (Extraction, error) {
	start := strings.Index(resp, "{")
	if start == -1 {
		return Extraction{}, fmt.Errorf("no JSON object in response")
	}

	var ext Extraction
	decoder := json.NewDecoder(strings.NewReader(resp[start:]))
	if err := decoder.Decode(&ext); err != nil {
		return Extraction{}, fmt.Errorf("failed to decode extraction: %w", err)
	}

	if ext.Task != "" && !types.Task(ext.Task).Valid() {
		return Extraction{}, fmt.Errorf("invalid task %q", ext.Task)
	}
	switch types.LeaveType(ext.LeaveType) {
	case types.LeaveFull, types.LeaveHalf, types.LeaveUnset:
	default:
		return Extraction{}, fmt.Errorf("invalid leave_type %q", ext.LeaveType)
	}
	switch types.Language(ext.Language) {
	case types.LangHindi, types.LangEnglish, "":
	default:
		return Extraction{}, fmt.Errorf("invalid language %q", ext.Language)
	}
	return ext, nil
}

// =============================================================================
// ARBITRATION
// =============================================================================

// Arbitrate merges the authoritative rule decision with an optional LLM
// extraction. The rule task always wins when it found something concrete;
// the extraction may only fill gaps. Half-day claims survive only when the
// message itself contains an allow-listed phrase.
func Arbitrate(rule types.IntentDecision, ext Extraction, extErr error, text string) types.IntentDecision {
	if extErr != nil {
		// Silent fallback: the deterministic decision with defaults.
		out := rule
		if out.Task.IsApply() && out.LeaveType == types.LeaveUnset {
			out.LeaveType = types.LeaveFull
		}
		return out
	}

	out := rule
	out.Source = types.SourceMerged

	// The LLM may promote a "general" message to a task it detected
	// (implied requests like "mujhe ghar jana hai"), never override a
	// keyword hit.
	if out.Task == types.TaskGeneral && ext.Task != "" {
		out.Task = types.Task(ext.Task)
	}

	if out.Reason == "" {
		out.Reason = strings.TrimSpace(ext.Reason)
	}

	if ext.Language != "" {
		out.Language = types.Language(ext.Language)
	}

	// Anti-hallucination guard: half day requires an allow-listed phrase
	// in the actual message text.
	lower := strings.ToLower(text)
	switch {
	case IsHalfDay(lower):
		out.LeaveType = types.LeaveHalf
	case out.Task.IsApply():
		out.LeaveType = types.LeaveFull
	default:
		out.LeaveType = types.LeaveUnset
	}

	return out
}
