package decision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/maestro/internal/decision"
	"github.com/uxforge/maestro/pkg/domain"
)

func stateWithAnswers(answers map[string]domain.Answer) *domain.InterviewState {
	state := domain.NewInterviewState()
	for id, ans := range answers {
		ans.QuestionID = id
		state.Answers[id] = ans
		state.Surfaced = append(state.Surfaced, id)
	}
	return state
}

func choice(options ...string) domain.Answer {
	return domain.Answer{SelectedOptions: options}
}

func TestDecide_ModePriorityChain(t *testing.T) {
	tests := []struct {
		name     string
		answers  map[string]domain.Answer
		previous string
		refImage string
		want     domain.Mode
	}{
		{
			name:     "reference intent with image",
			answers:  map[string]domain.Answer{"q_intent_main": choice("opt_from_reference")},
			refImage: "/tmp/ref.png",
			want:     domain.ModeDesignFromReference,
		},
		{
			name:     "refine with previous output",
			answers:  map[string]domain.Answer{"q_existing_action": choice("opt_refine")},
			previous: "<html>old</html>",
			want:     domain.ModeRefineFrontend,
		},
		{
			name: "replace beats page scope",
			answers: map[string]domain.Answer{
				"q_existing_action": choice("opt_replace_section"),
				"q_scope_type":      choice("opt_full_page"),
			},
			previous: "<html>old</html>",
			want:     domain.ModeReplaceSectionInPage,
		},
		{
			name: "reference beats refine",
			answers: map[string]domain.Answer{
				"q_intent_main":     choice("opt_from_reference"),
				"q_existing_action": choice("opt_refine"),
			},
			previous: "<html>old</html>",
			refImage: "/tmp/ref.png",
			want:     domain.ModeDesignFromReference,
		},
		{
			name:    "full page scope",
			answers: map[string]domain.Answer{"q_scope_type": choice("opt_full_page")},
			want:    domain.ModeDesignPage,
		},
		{
			name:    "section scope",
			answers: map[string]domain.Answer{"q_scope_type": choice("opt_section")},
			want:    domain.ModeDesignSection,
		},
		{
			name:    "component scope falls back to general design",
			answers: map[string]domain.Answer{"q_scope_type": choice("opt_component")},
			want:    domain.ModeDesignFrontend,
		},
		{
			name:    "empty interview falls back to general design",
			answers: nil,
			want:    domain.ModeDesignFrontend,
		},
		{
			name: "reference intent without image falls through to scope",
			answers: map[string]domain.Answer{
				"q_intent_main": choice("opt_from_reference"),
				"q_scope_type":  choice("opt_full_page"),
			},
			want: domain.ModeDesignPage,
		},
	}

	tree := decision.NewTree()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tree.Decide(stateWithAnswers(tt.answers), tt.previous, tt.refImage)
			assert.Equal(t, tt.want, d.Mode)
			assert.NotEmpty(t, d.Reasoning)
			assert.NotContains(t, d.Alternatives, d.Mode, "selected mode must not rank as its own alternative")
		})
	}
}

func TestDecide_PastedReferencePathCountsAsUpload(t *testing.T) {
	state := stateWithAnswers(map[string]domain.Answer{
		"q_intent_main":      choice("opt_from_reference"),
		"q_reference_upload": {FreeText: "https://example.com/shot.png"},
	})

	d := decision.NewTree().Decide(state, "", "")
	assert.Equal(t, domain.ModeDesignFromReference, d.Mode)
}

func TestDecide_ConfidenceBounds(t *testing.T) {
	tree := decision.NewTree()

	// Nothing answered: only the two half-credit dimensions contribute
	// (context availability and content readiness, 0.075 each).
	empty := tree.Decide(domain.NewInterviewState(), "", "")
	assert.InDelta(t, 0.15, empty.Confidence, 1e-9)

	// Intent and scope answered: 0.25 + 0.20 on top of the halves.
	partial := tree.Decide(stateWithAnswers(map[string]domain.Answer{
		"q_intent_main": choice("opt_new_design"),
		"q_scope_type":  choice("opt_full_page"),
	}), "", "")
	assert.Equal(t, domain.ModeDesignPage, partial.Mode)
	assert.InDelta(t, 0.60, partial.Confidence, 1e-9)
	assert.Greater(t, partial.Confidence, empty.Confidence)
}

func TestDecide_AlternativesRankByAffinity(t *testing.T) {
	// Refine selected; replace shares the previous-output signal (0.4) and
	// nothing else matches.
	state := stateWithAnswers(map[string]domain.Answer{
		"q_existing_action": choice("opt_refine"),
	})
	d := decision.NewTree().Decide(state, "<html>old</html>", "")

	require.Equal(t, domain.ModeRefineFrontend, d.Mode)
	assert.Equal(t, []domain.Mode{domain.ModeReplaceSectionInPage}, d.Alternatives)

	// A wanted-but-missing reference outranks the weaker signals.
	state = stateWithAnswers(map[string]domain.Answer{
		"q_intent_main": choice("opt_from_reference"),
		"q_scope_type":  choice("opt_section"),
	})
	d = decision.NewTree().Decide(state, "", "")

	require.Equal(t, domain.ModeDesignSection, d.Mode)
	require.NotEmpty(t, d.Alternatives)
	assert.Equal(t, domain.ModeDesignFromReference, d.Alternatives[0])
}

func TestDecide_Parameters(t *testing.T) {
	radius := 0.7
	state := stateWithAnswers(map[string]domain.Answer{
		"q_intent_main":   choice("opt_new_design"),
		"q_theme":         choice("opt_minimal"),
		"q_accessibility": choice("opt_standard_a11y", "opt_reduced_motion"),
		"q_border_radius": {SliderValue: &radius},
		"q_content_input": {FreeText: "Launch copy goes here"},
	})

	d := decision.NewTree().Decide(state, "", "")

	assert.Equal(t, "minimal", d.Parameters["theme"])
	assert.Equal(t, []string{"standard_a11y", "reduced_motion"}, d.Parameters["accessibility"])
	assert.Equal(t, 0.7, d.Parameters["border_radius"])
	assert.Equal(t, "Launch copy goes here", d.Parameters["content"])

	// Intent feeds mode selection, not the parameter set, and unanswered
	// questions must stay absent rather than defaulting.
	assert.NotContains(t, d.Parameters, "intent")
	assert.NotContains(t, d.Parameters, "page_type")
}

func TestDecide_Deterministic(t *testing.T) {
	state := stateWithAnswers(map[string]domain.Answer{
		"q_intent_main": choice("opt_new_design"),
		"q_scope_type":  choice("opt_full_page"),
		"q_page_type":   choice("opt_landing"),
		"q_theme":       choice("opt_modern"),
	})

	tree := decision.NewTree()
	first := tree.Decide(state, "", "")
	second := tree.Decide(state, "", "")
	assert.Equal(t, first, second)
}
