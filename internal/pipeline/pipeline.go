// Package pipeline wires the resolution stages together: scan the message
// for date evidence, normalize and classify in parallel, merge with the
// user's session memory, and hand the completed record to dispatch.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hrsaathi/internal/dispatch"
	"hrsaathi/internal/logging"
	"hrsaathi/internal/perception"
	"hrsaathi/internal/session"
	"hrsaathi/internal/temporal"
	"hrsaathi/internal/types"
)

// ActionDispatcher is the downstream collaborator boundary.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, rec types.ActionRecord) (dispatch.Result, error)
}

// Resolution is what the caller gets back for one message: the merged
// record, the dispatch outcome, and a ready-to-show reply line.
type Resolution struct {
	Record   types.ActionRecord
	Dispatch dispatch.Result
	Reply    string
}

// Pipeline processes one message end to end. Each stage is a pure function
// of its inputs; the session store is the only shared state and serializes
// turns per user.
type Pipeline struct {
	scanner    *temporal.Scanner
	normalizer *temporal.Normalizer
	classifier *perception.KeywordClassifier
	extractor  perception.TextExtractor
	memory     *session.Store
	dispatcher ActionDispatcher
	log        *zap.Logger
}

// New assembles a pipeline. Pass perception.Unavailable{} as the extractor
// when no LLM is configured.
func New(extractor perception.TextExtractor, memory *session.Store, dispatcher ActionDispatcher) *Pipeline {
	return &Pipeline{
		scanner:    temporal.NewScanner(),
		normalizer: temporal.NewNormalizer(),
		classifier: perception.NewKeywordClassifier(),
		extractor:  extractor,
		memory:     memory,
		dispatcher: dispatcher,
		log:        logging.For(logging.CategoryPipeline),
	}
}

// Resolve runs the full pipeline for one message.
func (p *Pipeline) Resolve(ctx context.Context, msg types.RawMessage) (Resolution, error) {
	now := msg.ReceivedAt
	if now.IsZero() {
		now = time.Now()
	}

	evidence := p.scanner.Scan(msg.Text)
	p.log.Debug("scanned evidence",
		zap.String("user", msg.UserID),
		zap.String("span", evidence.Span),
		zap.String("family", string(evidence.Family)))

	// Normalization and classification are independent; run both legs
	// concurrently. Neither leg returns an error: the normalizer degrades
	// to today/today and the extractor failure collapses into the rule
	// decision inside Arbitrate.
	var (
		dates    types.DateRange
		decision types.IntentDecision
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dates = p.normalizer.Resolve(evidence.Span, now, temporal.BiasForward)
		return nil
	})
	g.Go(func() error {
		rule := p.classifier.Classify(msg.Text)
		ext, extErr := p.extractor.Extract(gctx, msg.Text)
		decision = perception.Arbitrate(rule, ext, extErr, msg.Text)
		return nil
	})
	_ = g.Wait()

	// A missed punch is retrospective: "kal" means yesterday there, so
	// relative-day evidence is re-resolved with the backward bias once the
	// task is known.
	if decision.Task == types.TaskApplyMissedPunch && temporal.IsRelativeDay(strings.TrimSpace(evidence.Span)) {
		dates = p.normalizer.Resolve(evidence.Span, now, temporal.BiasBackward)
	}

	// Same-user turns are serialized across the whole read-merge-write,
	// dispatch included; different users run in parallel.
	user := p.memory.Lock(msg.UserID)
	defer user.Unlock()

	rec, slots := p.merge(msg, decision, evidence, dates, now, user.Snapshot())
	user.Update(slots)

	if rec.Task == types.TaskGeneral {
		return Resolution{Record: rec, Reply: generalReply(rec.Language)}, nil
	}

	result, err := p.dispatcher.Dispatch(ctx, rec)
	if err != nil {
		return Resolution{Record: rec}, err
	}
	return Resolution{Record: rec, Dispatch: result, Reply: buildReply(rec, result)}, nil
}

// Forget clears a user's session memory.
func (p *Pipeline) Forget(userID string) {
	p.memory.Forget(userID)
}

func generalReply(lang types.Language) string {
	if lang == types.LangHindi {
		return "Main leave, gate pass, missed punch aur balance requests me madad kar sakta hoon. Apni request batayein."
	}
	return "I can help with leave, gate pass, missed punch and balance requests. Tell me what you need."
}

func buildReply(rec types.ActionRecord, result dispatch.Result) string {
	if !result.OK {
		msg := result.Summary
		if msg == "" {
			msg = "request could not be submitted"
		}
		return "Request failed: " + msg
	}
	reply := "Done: " + result.Summary
	if rec.Reason != "" {
		reply += " (reason: " + rec.Reason + ")"
	}
	return reply
}

var newRequestID = uuid.NewString
