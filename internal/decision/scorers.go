package decision

import "github.com/uxforge/maestro/pkg/domain"

// signals is the digest of an interview state the tree scores against.
// Collecting it once keeps the scorers free of state traversal.
type signals struct {
	state *domain.InterviewState

	wantsReference bool
	wantsRefine    bool
	wantsReplace   bool
	intentAnswered bool

	scopeFullPage  bool
	scopeSection   bool
	scopeComponent bool
	scopeAnswered  bool
	detailAnswered bool

	hasPrevious  bool
	hasReference bool
}

func collect(state *domain.InterviewState, previousOutput, referenceImage string) signals {
	if previousOutput == "" {
		previousOutput = state.ExistingOutput
	}
	if referenceImage == "" {
		referenceImage = state.ReferenceImagePath
	}
	if referenceImage == "" {
		// A pasted reference path counts the same as an upload.
		referenceImage = state.Answers["q_reference_upload"].FreeText
	}

	_, intentMain := state.Answers["q_intent_main"]
	_, existingAction := state.Answers["q_existing_action"]
	_, scope := state.Answers["q_scope_type"]
	_, pageType := state.Answers["q_page_type"]
	_, sectionType := state.Answers["q_section_type"]
	_, componentType := state.Answers["q_component_type"]

	return signals{
		state:          state,
		wantsReference: state.Selected("q_intent_main", "opt_from_reference"),
		wantsRefine:    state.Selected("q_existing_action", "opt_refine"),
		wantsReplace:   state.Selected("q_existing_action", "opt_replace_section"),
		intentAnswered: intentMain || existingAction,
		scopeFullPage:  state.Selected("q_scope_type", "opt_full_page"),
		scopeSection:   state.Selected("q_scope_type", "opt_section"),
		scopeComponent: state.Selected("q_scope_type", "opt_component"),
		scopeAnswered:  scope,
		detailAnswered: pageType || sectionType || componentType,
		hasPrevious:    previousOutput != "",
		hasReference:   referenceImage != "",
	}
}

// dimension is one independently scored confidence axis.
// The weights are fixed and sum to 1.0.
type dimension struct {
	name   string
	weight float64
	score  func(signals, domain.Mode) float64
}

var dimensions = []dimension{
	{"intent_clarity", 0.25, scoreIntentClarity},
	{"scope_definition", 0.20, scoreScopeDefinition},
	{"style_specification", 0.15, scoreStyleSpecification},
	{"context_availability", 0.15, scoreContextAvailability},
	{"content_readiness", 0.15, scoreContentReadiness},
	{"technical_completeness", 0.10, scoreTechnicalCompleteness},
}

// scoreIntentClarity: 1.0 when an intent or existing-action answer names
// the goal; 0.5 when intent can only be inferred from a scope answer.
func scoreIntentClarity(sig signals, _ domain.Mode) float64 {
	if sig.intentAnswered {
		return 1.0
	}
	if sig.scopeAnswered || sig.detailAnswered {
		return 0.5
	}
	return 0
}

func scoreScopeDefinition(sig signals, _ domain.Mode) float64 {
	if sig.scopeAnswered || sig.detailAnswered {
		return 1.0
	}
	return 0
}

var styleQuestions = []string{"q_theme", "q_color_mode", "q_color_preference", "q_brand_color"}

func scoreStyleSpecification(sig signals, _ domain.Mode) float64 {
	return answeredFraction(sig.state, styleQuestions)
}

// scoreContextAvailability checks previous output / reference image against
// what the selected mode demands.
func scoreContextAvailability(sig signals, mode domain.Mode) float64 {
	switch mode {
	case domain.ModeDesignFromReference:
		if sig.hasReference {
			return 1.0
		}
		return 0
	case domain.ModeRefineFrontend, domain.ModeReplaceSectionInPage:
		if sig.hasPrevious {
			return 1.0
		}
		return 0
	}
	if sig.hasPrevious || sig.hasReference {
		return 1.0
	}
	return 0.5
}

func scoreContentReadiness(sig signals, _ domain.Mode) float64 {
	hasInput := sig.state.Answers["q_content_input"].FreeText != ""
	switch {
	case sig.state.Selected("q_content_ready", "opt_content_ready") || hasInput:
		return 1.0
	case sig.state.Selected("q_content_ready", "opt_content_none"):
		return 0
	}
	return 0.5
}

var technicalQuestions = []string{"q_technical_level", "q_border_radius", "q_animation_level"}

func scoreTechnicalCompleteness(sig signals, _ domain.Mode) float64 {
	return answeredFraction(sig.state, technicalQuestions)
}

func answeredFraction(state *domain.InterviewState, questionIDs []string) float64 {
	answered := 0
	for _, id := range questionIDs {
		if _, ok := state.Answers[id]; ok {
			answered++
		}
	}
	return float64(answered) / float64(len(questionIDs))
}
