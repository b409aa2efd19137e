package interview_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/maestro/internal/interview"
	"github.com/uxforge/maestro/pkg/bank"
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/flow"
)

func newEngine(t *testing.T) *interview.Engine {
	t.Helper()
	return interview.NewEngine(bank.Default(), flow.NewController())
}

func answerChoice(t *testing.T, e *interview.Engine, state *domain.InterviewState, questionID string, optionIDs ...string) {
	t.Helper()
	result := e.ProcessAnswer(context.Background(), "s1", state, domain.Answer{
		QuestionID:      questionID,
		SelectedOptions: optionIDs,
	})
	require.True(t, result.Valid, "answer to %s rejected: %v", questionID, result.Err)
}

func TestNextQuestion_CatalogOrder(t *testing.T) {
	e := newEngine(t)
	state := domain.NewInterviewState()

	q := e.NextQuestion(context.Background(), "s1", state)
	require.NotNil(t, q)
	assert.Equal(t, "q_intent_main", q.ID)
	assert.Equal(t, []string{"q_intent_main"}, state.Surfaced)

	// Surfaced questions are never offered again.
	q = e.NextQuestion(context.Background(), "s1", state)
	require.NotNil(t, q)
	assert.Equal(t, "q_scope_type", q.ID)
}

func TestNextQuestion_ExistingOutputSwitchesEntryPoint(t *testing.T) {
	e := newEngine(t)
	state := domain.NewInterviewState()
	state.ExistingOutput = "<html>previous page</html>"

	q := e.NextQuestion(context.Background(), "s1", state)
	require.NotNil(t, q)
	assert.Equal(t, "q_existing_action", q.ID)
}

func TestNextQuestion_FollowUpJumpsQueue(t *testing.T) {
	e := newEngine(t)
	state := domain.NewInterviewState()

	q := e.NextQuestion(context.Background(), "s1", state)
	require.Equal(t, "q_intent_main", q.ID)
	answerChoice(t, e, state, "q_intent_main", "opt_from_reference")
	require.Equal(t, []string{"q_reference_upload"}, state.PendingFollowUps)

	// The follow-up outranks q_scope_type despite catalog order.
	q = e.NextQuestion(context.Background(), "s1", state)
	require.NotNil(t, q)
	assert.Equal(t, "q_reference_upload", q.ID)
	assert.Empty(t, state.PendingFollowUps)
}

func TestNextQuestion_DropsDeadFollowUps(t *testing.T) {
	e := newEngine(t)
	state := domain.NewInterviewState()
	// An unknown id and an inactive question (q_page_type needs
	// q_scope_type == opt_full_page) are both dead entries.
	state.PendingFollowUps = []string{"q_gone", "q_page_type"}

	q := e.NextQuestion(context.Background(), "s1", state)
	require.NotNil(t, q)
	assert.Equal(t, "q_intent_main", q.ID)
	assert.Empty(t, state.PendingFollowUps)
}

func TestProcessAnswer_Validation(t *testing.T) {
	tests := []struct {
		name     string
		answer   domain.Answer
		sentinel error
	}{
		{
			name:     "unknown question",
			answer:   domain.Answer{QuestionID: "q_gone", SelectedOptions: []string{"opt_x"}},
			sentinel: domain.ErrQuestionNotFound,
		},
		{
			name:     "unknown option",
			answer:   domain.Answer{QuestionID: "q_intent_main", SelectedOptions: []string{"opt_gone"}},
			sentinel: domain.ErrInvalidOption,
		},
		{
			name:     "multiple options on single choice",
			answer:   domain.Answer{QuestionID: "q_intent_main", SelectedOptions: []string{"opt_new_design", "opt_from_reference"}},
			sentinel: domain.ErrInvalidOption,
		},
		{
			name:     "required choice without selection",
			answer:   domain.Answer{QuestionID: "q_intent_main"},
			sentinel: domain.ErrMissingInput,
		},
		{
			name:     "required text without input",
			answer:   domain.Answer{QuestionID: "q_reference_upload"},
			sentinel: domain.ErrMissingInput,
		},
		{
			name:     "required slider without value",
			answer:   domain.Answer{QuestionID: "q_border_radius"},
			sentinel: domain.ErrMissingInput,
		},
		{
			name:     "slider value on wrong field",
			answer:   domain.Answer{QuestionID: "q_border_radius", FreeText: "0.5"},
			sentinel: domain.ErrMissingInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			state := domain.NewInterviewState()

			result := e.ProcessAnswer(context.Background(), "s1", state, tt.answer)

			assert.False(t, result.Valid)
			assert.ErrorIs(t, result.Err, tt.sentinel)
			assert.True(t, domain.IsValidationError(result.Err))

			// Rejections never mutate.
			assert.Empty(t, state.Answers)
			assert.Empty(t, state.Surfaced)
			assert.Empty(t, state.PendingFollowUps)
		})
	}
}

func TestProcessAnswer_RecordsAndQueuesFollowUps(t *testing.T) {
	e := newEngine(t)
	state := domain.NewInterviewState()

	answerChoice(t, e, state, "q_intent_main", "opt_new_design")

	assert.Equal(t, []string{"opt_new_design"}, state.Answers["q_intent_main"].SelectedOptions)
	assert.Equal(t, []string{"q_intent_main"}, state.Surfaced)
	assert.Equal(t, []string{"q_scope_type"}, state.PendingFollowUps)

	// Re-answering overwrites the answer but never duplicates queue entries.
	answerChoice(t, e, state, "q_intent_main", "opt_new_design")
	assert.Equal(t, []string{"q_intent_main"}, state.Surfaced)
	assert.Equal(t, []string{"q_scope_type"}, state.PendingFollowUps)

	// A changed answer can add new follow-ups alongside the old queue.
	answerChoice(t, e, state, "q_intent_main", "opt_from_reference")
	assert.Equal(t, []string{"q_scope_type", "q_reference_upload"}, state.PendingFollowUps)
}

func TestProgress_TracksDynamicRequiredSet(t *testing.T) {
	e := newEngine(t)
	state := domain.NewInterviewState()

	// 12 required questions are active at the start: conditional ones
	// (q_page_type, q_brand_color, ...) are hidden and q_formality_level
	// waits for q_industry.
	assert.InDelta(t, 0.0, e.Progress(state), 1e-9)

	answerChoice(t, e, state, "q_intent_main", "opt_new_design")
	assert.InDelta(t, 1.0/12.0, e.Progress(state), 1e-9)

	// Answering q_industry activates q_formality_level, growing the
	// denominator.
	answerChoice(t, e, state, "q_industry", "opt_tech")
	assert.InDelta(t, 2.0/13.0, e.Progress(state), 1e-9)
}

func TestProgress_NoRequiredQuestions(t *testing.T) {
	b, err := bank.New([]domain.Question{
		{ID: "q_note", Category: domain.CategoryMeta, Text: "Anything else?", Type: domain.TypeFreeText},
	})
	require.NoError(t, err)
	e := interview.NewEngine(b, flow.NewController())

	assert.Equal(t, 1.0, e.Progress(domain.NewInterviewState()))
}

func TestIsComplete_SurfacingConsumesQuestions(t *testing.T) {
	b, err := bank.New([]domain.Question{
		{ID: "q_note", Category: domain.CategoryMeta, Text: "Anything else?", Type: domain.TypeFreeText},
	})
	require.NoError(t, err)
	e := interview.NewEngine(b, flow.NewController())
	state := domain.NewInterviewState()

	assert.False(t, e.IsComplete(state))

	// Optional questions count as handled once surfaced, answered or not.
	q := e.NextQuestion(context.Background(), "s1", state)
	require.NotNil(t, q)
	assert.True(t, e.IsComplete(state))
}

func TestHooks_FireOnSurfaceAndAnswer(t *testing.T) {
	var surfaced, answered []string
	var lastValid bool

	hooks := domain.LifecycleHooks{
		OnQuestionSurfaced: func(ctx context.Context, ev *domain.QuestionEvent) {
			surfaced = append(surfaced, ev.QuestionID)
		},
		OnAnswerRecorded: func(ctx context.Context, ev *domain.AnswerEvent) {
			answered = append(answered, ev.QuestionID)
			lastValid = ev.Valid
		},
	}
	e := interview.NewEngine(bank.Default(), flow.NewController(), interview.WithLifecycleHooks(hooks))
	state := domain.NewInterviewState()

	e.NextQuestion(context.Background(), "s1", state)
	assert.Equal(t, []string{"q_intent_main"}, surfaced)

	e.ProcessAnswer(context.Background(), "s1", state, domain.Answer{QuestionID: "q_intent_main"})
	require.Equal(t, []string{"q_intent_main"}, answered)
	assert.False(t, lastValid)

	answerChoice(t, e, state, "q_intent_main", "opt_new_design")
	assert.True(t, lastValid)
}
