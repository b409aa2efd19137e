// Package interview orchestrates the question bank, flow controller and
// interview state: which question comes next, answer validation and
// progress over the dynamically-shrinking required set.
package interview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uxforge/maestro/internal/logging"
	"github.com/uxforge/maestro/pkg/bank"
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/flow"
)

// Engine drives one interview. It owns no state itself; all mutation goes
// through the InterviewState passed in by the session manager.
type Engine struct {
	bank   *bank.Bank
	flow   *flow.Controller
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an interview engine over a validated bank.
func NewEngine(b *bank.Bank, fc *flow.Controller, opts ...Option) *Engine {
	e := &Engine{
		bank:   b,
		flow:   fc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NextQuestion returns the next question to offer and records it as
// surfaced. Pending follow-ups are offered before resuming catalog order;
// inactive candidates are bypassed. Returns nil when no active, unanswered
// question remains.
func (e *Engine) NextQuestion(ctx context.Context, sessionID string, state *domain.InterviewState) *domain.Question {
	q, fromFollowUp := e.scan(state, true)
	if q == nil {
		return nil
	}

	state.Surfaced = append(state.Surfaced, q.ID)
	e.logger.Debug("question surfaced", "session_id", sessionID, "question_id", q.ID, "follow_up", fromFollowUp)

	if e.hooks.OnQuestionSurfaced != nil {
		e.hooks.OnQuestionSurfaced(ctx, &domain.QuestionEvent{
			Timestamp:  time.Now(),
			SessionID:  sessionID,
			QuestionID: q.ID,
			FollowUp:   fromFollowUp,
		})
	}
	return q
}

// IsComplete reports whether the interview has no active, unanswered
// question left to offer. It does not mutate state.
func (e *Engine) IsComplete(state *domain.InterviewState) bool {
	q, _ := e.scan(state, false)
	return q == nil
}

// scan finds the next offerable question. When consume is true, follow-up
// queue entries that are dead (already surfaced, unknown, or inactive) are
// dropped; answers are monotonic, so a dead entry can never come back.
func (e *Engine) scan(state *domain.InterviewState, consume bool) (q *domain.Question, fromFollowUp bool) {
	remaining := state.PendingFollowUps[:0:0]
	for i, id := range state.PendingFollowUps {
		if state.HasSurfaced(id) {
			continue
		}
		candidate, ok := e.bank.Get(id)
		if !ok {
			e.logger.Warn("pending follow-up references unknown question", "question_id", id)
			continue
		}
		if !e.flow.IsActive(candidate, state) {
			continue
		}
		if consume {
			remaining = append(remaining, state.PendingFollowUps[i+1:]...)
			state.PendingFollowUps = remaining
		}
		return candidate, true
	}
	if consume {
		state.PendingFollowUps = remaining
	}

	all := e.bank.All()
	for i := range all {
		candidate := &all[i]
		if state.HasSurfaced(candidate.ID) {
			continue
		}
		if e.flow.IsActive(candidate, state) {
			return candidate, false
		}
	}
	return nil, false
}

// ProcessAnswer validates the answer and, on success, records it and queues
// any triggered follow-ups. Validation failures never mutate state.
func (e *Engine) ProcessAnswer(ctx context.Context, sessionID string, state *domain.InterviewState, answer domain.Answer) domain.AnswerResult {
	q, ok := e.bank.Get(answer.QuestionID)
	if !ok {
		return e.reject(ctx, sessionID, answer.QuestionID,
			fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, answer.QuestionID))
	}

	if q.Type.NeedsOptions() {
		if q.Type == domain.TypeSingleChoice && len(answer.SelectedOptions) > 1 {
			return e.reject(ctx, sessionID, q.ID,
				fmt.Errorf("%w: question %s accepts a single option", domain.ErrInvalidOption, q.ID))
		}
		for _, optID := range answer.SelectedOptions {
			if !q.HasOption(optID) {
				return e.reject(ctx, sessionID, q.ID,
					fmt.Errorf("%w: %s is not an option of %s", domain.ErrInvalidOption, optID, q.ID))
			}
		}
	}

	if q.Required {
		if err := checkRequired(q, answer); err != nil {
			return e.reject(ctx, sessionID, q.ID, err)
		}
	}

	// Record. Answers are mutable per question, but follow-ups already
	// derived from an earlier answer are never un-surfaced.
	state.Answers[q.ID] = answer
	if !state.HasSurfaced(q.ID) {
		state.Surfaced = append(state.Surfaced, q.ID)
	}

	for _, id := range e.flow.FollowUps(q.ID, answer.SelectedOptions) {
		if state.HasSurfaced(id) || state.HasPending(id) {
			continue
		}
		state.PendingFollowUps = append(state.PendingFollowUps, id)
	}

	progress := e.Progress(state)
	e.logger.Debug("answer recorded", "session_id", sessionID, "question_id", q.ID, "progress", progress)
	if e.hooks.OnAnswerRecorded != nil {
		e.hooks.OnAnswerRecorded(ctx, &domain.AnswerEvent{
			Timestamp:  time.Now(),
			SessionID:  sessionID,
			QuestionID: q.ID,
			Valid:      true,
			Progress:   progress,
		})
	}
	return domain.AnswerResult{Valid: true}
}

func (e *Engine) reject(ctx context.Context, sessionID, questionID string, err error) domain.AnswerResult {
	e.logger.Debug("answer rejected", "session_id", sessionID, "question_id", questionID, "err", err)
	if e.hooks.OnAnswerRecorded != nil {
		e.hooks.OnAnswerRecorded(ctx, &domain.AnswerEvent{
			Timestamp:  time.Now(),
			SessionID:  sessionID,
			QuestionID: questionID,
			Valid:      false,
		})
	}
	return domain.AnswerResult{Valid: false, Err: err}
}

func checkRequired(q *domain.Question, answer domain.Answer) error {
	switch q.Type {
	case domain.TypeSingleChoice, domain.TypeMultiChoice:
		if len(answer.SelectedOptions) == 0 {
			return fmt.Errorf("%w: question %s requires a selection", domain.ErrMissingInput, q.ID)
		}
	case domain.TypeFreeText, domain.TypeColorPicker:
		if answer.FreeText == "" {
			return fmt.Errorf("%w: question %s requires text input", domain.ErrMissingInput, q.ID)
		}
	case domain.TypeSlider:
		if answer.SliderValue == nil {
			return fmt.Errorf("%w: question %s requires a slider value", domain.ErrMissingInput, q.ID)
		}
	}
	return nil
}

// Progress computes answered-over-required for the questions that are
// required AND active under the current state. Activity is recomputed for
// the whole catalog, not only surfaced questions, since later answers can
// activate or deactivate conditional questions.
func (e *Engine) Progress(state *domain.InterviewState) float64 {
	all := e.bank.All()
	required, answered := 0, 0
	for i := range all {
		q := &all[i]
		if !q.Required || !e.flow.IsActive(q, state) {
			continue
		}
		required++
		if _, ok := state.Answers[q.ID]; ok {
			answered++
		}
	}
	if required == 0 {
		return 1.0
	}
	return float64(answered) / float64(required)
}
