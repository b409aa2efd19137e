// Package decision turns an accumulated interview state into a design
// decision: a generation mode, a confidence score over six weighted
// dimensions, the parameter set for the backend, and ranked alternatives.
package decision

import (
	"sort"
	"strings"

	"github.com/uxforge/maestro/pkg/domain"
)

// Tree computes decisions. It is stateless and deterministic: the same
// interview state always yields the same decision.
type Tree struct{}

// NewTree creates a decision tree.
func NewTree() *Tree {
	return &Tree{}
}

// Decide produces a best-effort decision from a complete or partial
// interview. It never fails; low confidence is the signal of
// incompleteness, not an error. previousOutput and referenceImage override
// the corresponding state fields when non-empty.
func (t *Tree) Decide(state *domain.InterviewState, previousOutput, referenceImage string) domain.Decision {
	sig := collect(state, previousOutput, referenceImage)

	mode, reasoning := selectMode(sig)

	confidence := 0.0
	for _, d := range dimensions {
		confidence += d.weight * d.score(sig, mode)
	}
	confidence = clamp01(confidence)

	return domain.Decision{
		Mode:         mode,
		Confidence:   confidence,
		Parameters:   assembleParameters(state),
		Reasoning:    reasoning,
		Alternatives: rankAlternatives(sig, mode),
	}
}

// selectMode applies the priority chain; the first matching rule wins.
func selectMode(sig signals) (domain.Mode, string) {
	switch {
	case sig.wantsReference && sig.hasReference:
		return domain.ModeDesignFromReference, "design_from_reference: the intent answer asked for a reference-based design and a reference image is available"
	case sig.wantsRefine && sig.hasPrevious:
		return domain.ModeRefineFrontend, "refine_frontend: the caller chose to refine an existing design"
	case sig.wantsReplace && sig.hasPrevious:
		return domain.ModeReplaceSectionInPage, "replace_section_in_page: the caller chose to replace a section of an existing design"
	case sig.scopeFullPage:
		return domain.ModeDesignPage, "design_page: the scope answer selected a full page"
	case sig.scopeSection:
		return domain.ModeDesignSection, "design_section: the scope answer selected a page section"
	}
	return domain.ModeDesignFrontend, "design_frontend: no narrower scope or context signal matched, falling back to a general frontend design"
}

// modeAffinity scores how close each mode's trigger condition came to
// matching. Used for ranking alternatives.
func modeAffinity(sig signals, mode domain.Mode) float64 {
	switch mode {
	case domain.ModeDesignFromReference:
		return partial(sig.wantsReference, 0.6) + partial(sig.hasReference, 0.4)
	case domain.ModeRefineFrontend:
		return partial(sig.wantsRefine, 0.6) + partial(sig.hasPrevious, 0.4)
	case domain.ModeReplaceSectionInPage:
		return partial(sig.wantsReplace, 0.6) + partial(sig.hasPrevious, 0.4)
	case domain.ModeDesignPage:
		return partial(sig.scopeFullPage, 1.0)
	case domain.ModeDesignSection:
		return partial(sig.scopeSection, 1.0)
	case domain.ModeDesignFrontend:
		return partial(sig.scopeComponent, 1.0)
	}
	return 0
}

// allModes fixes the evaluation (and tie-break) order of alternatives.
var allModes = []domain.Mode{
	domain.ModeDesignFromReference,
	domain.ModeRefineFrontend,
	domain.ModeReplaceSectionInPage,
	domain.ModeDesignPage,
	domain.ModeDesignSection,
	domain.ModeDesignFrontend,
}

func rankAlternatives(sig signals, selected domain.Mode) []domain.Mode {
	type scored struct {
		mode  domain.Mode
		score float64
	}
	var candidates []scored
	for _, m := range allModes {
		if m == selected {
			continue
		}
		if s := modeAffinity(sig, m); s > 0 {
			candidates = append(candidates, scored{m, s})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	modes := make([]domain.Mode, len(candidates))
	for i, c := range candidates {
		modes[i] = c.mode
	}
	return modes
}

func partial(ok bool, weight float64) float64 {
	if ok {
		return weight
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// parameterKeys maps answered questions to flat parameter names.
// Unanswered questions stay absent: defaulting is the backend's concern.
var parameterKeys = map[string]string{
	"q_page_type":        "page_type",
	"q_section_type":     "section_type",
	"q_component_type":   "component_type",
	"q_industry":         "industry",
	"q_formality_level":  "formality_level",
	"q_theme":            "theme",
	"q_color_mode":       "color_mode",
	"q_color_preference": "color_preference",
	"q_brand_color":      "brand_color",
	"q_content_input":    "content",
	"q_technical_level":  "technical_level",
	"q_border_radius":    "border_radius",
	"q_animation_level":  "animation_level",
	"q_language":         "language",
	"q_accessibility":    "accessibility",
}

func assembleParameters(state *domain.InterviewState) map[string]any {
	params := make(map[string]any)
	for questionID, key := range parameterKeys {
		ans, ok := state.Answers[questionID]
		if !ok {
			continue
		}
		if v, ok := answerValue(ans); ok {
			params[key] = v
		}
	}
	return params
}

// answerValue flattens an answer into a parameter value. Option ids drop
// their opt_ prefix so the backend sees "minimal", not "opt_minimal".
func answerValue(ans domain.Answer) (any, bool) {
	switch {
	case len(ans.SelectedOptions) == 1:
		return trimOpt(ans.SelectedOptions[0]), true
	case len(ans.SelectedOptions) > 1:
		values := make([]string, len(ans.SelectedOptions))
		for i, opt := range ans.SelectedOptions {
			values[i] = trimOpt(opt)
		}
		return values, true
	case ans.SliderValue != nil:
		return *ans.SliderValue, true
	case ans.FreeText != "":
		return ans.FreeText, true
	}
	return nil, false
}

func trimOpt(optionID string) string {
	return strings.TrimPrefix(optionID, "opt_")
}
