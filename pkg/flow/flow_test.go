package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uxforge/maestro/pkg/domain"
)

func stateWith(answers map[string][]string) *domain.InterviewState {
	state := domain.NewInterviewState()
	for id, opts := range answers {
		state.Answers[id] = domain.Answer{QuestionID: id, SelectedOptions: opts}
		state.Surfaced = append(state.Surfaced, id)
	}
	return state
}

func TestShouldSkip_ExistingOutput(t *testing.T) {
	c := NewController()

	fresh := domain.NewInterviewState()
	iterating := domain.NewInterviewState()
	iterating.ExistingOutput = "<html>old page</html>"

	intent := &domain.Question{ID: "q_intent_main"}
	existingAction := &domain.Question{ID: "q_existing_action"}

	assert.False(t, c.ShouldSkip(intent, fresh))
	assert.True(t, c.ShouldSkip(intent, iterating))

	assert.True(t, c.ShouldSkip(existingAction, fresh))
	assert.False(t, c.ShouldSkip(existingAction, iterating))
}

func TestShouldSkip_ScopeBranches(t *testing.T) {
	c := NewController()
	pageType := &domain.Question{ID: "q_page_type"}
	componentType := &domain.Question{ID: "q_component_type"}

	component := stateWith(map[string][]string{"q_scope_type": {"opt_component"}})
	fullPage := stateWith(map[string][]string{"q_scope_type": {"opt_full_page"}})

	assert.True(t, c.ShouldSkip(pageType, component))
	assert.False(t, c.ShouldSkip(pageType, fullPage))

	assert.False(t, c.ShouldSkip(componentType, component))
	assert.True(t, c.ShouldSkip(componentType, fullPage))
}

func TestShouldSkip_FormalityNeedsIndustry(t *testing.T) {
	c := NewController()
	formality := &domain.Question{ID: "q_formality_level"}

	assert.True(t, c.ShouldSkip(formality, domain.NewInterviewState()),
		"formality should wait until industry is answered")
	assert.True(t, c.ShouldSkip(formality, stateWith(map[string][]string{"q_industry": {"opt_none"}})))
	assert.False(t, c.ShouldSkip(formality, stateWith(map[string][]string{"q_industry": {"opt_finance"}})))
}

func TestEvaluateVisibility(t *testing.T) {
	c := NewController()

	q := &domain.Question{ID: "q_page_type", Visibility: "q_scope_type == opt_full_page"}

	assert.False(t, c.EvaluateVisibility(q, domain.NewInterviewState()),
		"unanswered precondition must fail closed")
	assert.True(t, c.EvaluateVisibility(q, stateWith(map[string][]string{"q_scope_type": {"opt_full_page"}})))
	assert.False(t, c.EvaluateVisibility(q, stateWith(map[string][]string{"q_scope_type": {"opt_component"}})))

	unconditional := &domain.Question{ID: "q_intent_main"}
	assert.True(t, c.EvaluateVisibility(unconditional, domain.NewInterviewState()))

	malformed := &domain.Question{ID: "q_x", Visibility: "q_a == "}
	assert.False(t, c.EvaluateVisibility(malformed, domain.NewInterviewState()),
		"malformed expressions must fail closed")
}

func TestFollowUps(t *testing.T) {
	c := NewController()

	assert.Equal(t, []string{"q_scope_type"}, c.FollowUps("q_intent_main", []string{"opt_new_design"}))
	assert.Equal(t, []string{"q_reference_upload"}, c.FollowUps("q_intent_main", []string{"opt_from_reference"}))
	assert.Nil(t, c.FollowUps("q_intent_main", []string{"opt_unknown"}))
	assert.Nil(t, c.FollowUps("q_theme", []string{"opt_dark"}))

	// Multi-select answers trigger each selected option's follow-ups.
	got := c.FollowUps("q_scope_type", []string{"opt_full_page", "opt_section"})
	assert.Equal(t, []string{"q_page_type", "q_section_type"}, got)
}

func TestEdges(t *testing.T) {
	c := NewController()
	edges := c.Edges()

	assert.NotEmpty(t, edges)
	for i := 1; i < len(edges); i++ {
		prev, cur := edges[i-1], edges[i]
		less := prev.From < cur.From ||
			(prev.From == cur.From && prev.Option < cur.Option) ||
			(prev.From == cur.From && prev.Option == cur.Option && prev.To < cur.To)
		assert.True(t, less, "edges must be sorted: %v before %v", prev, cur)
	}

	assert.Contains(t, edges, Edge{From: "q_intent_main", Option: "opt_new_design", To: "q_scope_type"})
	assert.Contains(t, edges, Edge{From: "q_existing_action", Option: "opt_replace_section", To: "q_section_type"})
}

func TestDependencies(t *testing.T) {
	assert.Nil(t, Dependencies(""))
	assert.Nil(t, Dependencies("q_a == "))
	assert.Equal(t, []string{"q_scope_type"}, Dependencies("q_scope_type == opt_full_page"))
	assert.Equal(t, []string{"q_a", "q_b"}, Dependencies("q_a == x and q_b != y or q_a in [z, w]"))
}
