// Package flow implements the question-flow controller: skip rules,
// conditional visibility and follow-up injection.
//
// The controller holds no interview state. Branching lives in two
// declarative tables (skip predicates and follow-up triggers) keyed by
// question/option id, evaluated by generic traversal functions.
package flow

import (
	"github.com/uxforge/maestro/pkg/domain"
)

// SkipRule is a static predicate deciding that a question must be skipped
// for a given interview state.
type SkipRule func(*domain.InterviewState) bool

// followUpKey addresses the follow-up trigger table.
type followUpKey struct {
	QuestionID string
	OptionID   string
}

// Controller evaluates skip, visibility and follow-up rules.
type Controller struct {
	skipRules map[string][]SkipRule
	followUps map[followUpKey][]string
}

// NewController creates a controller with the product's default rule tables.
func NewController() *Controller {
	return &Controller{
		skipRules: defaultSkipRules(),
		followUps: defaultFollowUps(),
	}
}

// defaultSkipRules is the product's skip-predicate table.
func defaultSkipRules() map[string][]SkipRule {
	return map[string][]SkipRule{
		// An existing artifact means the caller is iterating, not starting
		// fresh: the generic intent question is noise.
		"q_intent_main": {
			hasExistingOutput(),
		},
		// Conversely, asking what to do with an existing artifact only
		// makes sense when there is one.
		"q_existing_action": {
			not(hasExistingOutput()),
		},
		"q_page_type": {
			selected("q_scope_type", "opt_component"),
		},
		"q_component_type": {
			selected("q_scope_type", "opt_full_page", "opt_section"),
		},
		"q_formality_level": {
			not(answered("q_industry")),
			selected("q_industry", "opt_none"),
		},
	}
}

// defaultFollowUps is the product's follow-up trigger table, derived from
// the question graph: (question, selected option) -> injected follow-ups.
func defaultFollowUps() map[followUpKey][]string {
	return map[followUpKey][]string{
		{"q_intent_main", "opt_new_design"}:          {"q_scope_type"},
		{"q_intent_main", "opt_from_reference"}:      {"q_reference_upload"},
		{"q_scope_type", "opt_full_page"}:            {"q_page_type"},
		{"q_scope_type", "opt_section"}:              {"q_section_type"},
		{"q_scope_type", "opt_component"}:            {"q_component_type"},
		{"q_existing_action", "opt_replace_section"}: {"q_section_type"},
	}
}

// ShouldSkip reports whether a static skip rule matches the question.
func (c *Controller) ShouldSkip(q *domain.Question, state *domain.InterviewState) bool {
	for _, rule := range c.skipRules[q.ID] {
		if rule(state) {
			return true
		}
	}
	return false
}

// EvaluateVisibility evaluates the question's visibility condition against
// the answers recorded so far. Questions without a condition are visible.
// Malformed conditions are rejected at bank load time; here they fail closed.
func (c *Controller) EvaluateVisibility(q *domain.Question, state *domain.InterviewState) bool {
	if q.Visibility == "" {
		return true
	}
	expr, err := CompileExpression(q.Visibility)
	if err != nil {
		return false
	}
	return expr.Eval(state)
}

// IsActive reports whether a question should be offered: not skipped and
// visible under the current state.
func (c *Controller) IsActive(q *domain.Question, state *domain.InterviewState) bool {
	return !c.ShouldSkip(q, state) && c.EvaluateVisibility(q, state)
}

// FollowUps returns the follow-up question ids triggered by answering
// questionID with the given options, in trigger-table order.
func (c *Controller) FollowUps(questionID string, selectedOptions []string) []string {
	var ids []string
	for _, opt := range selectedOptions {
		ids = append(ids, c.followUps[followUpKey{questionID, opt}]...)
	}
	return ids
}

// -- Skip predicate helpers --

func hasExistingOutput() SkipRule {
	return func(s *domain.InterviewState) bool {
		return s.ExistingOutput != ""
	}
}

func answered(questionID string) SkipRule {
	return func(s *domain.InterviewState) bool {
		_, ok := s.Answers[questionID]
		return ok
	}
}

func selected(questionID string, optionIDs ...string) SkipRule {
	return func(s *domain.InterviewState) bool {
		for _, opt := range optionIDs {
			if s.Selected(questionID, opt) {
				return true
			}
		}
		return false
	}
}

func not(rule SkipRule) SkipRule {
	return func(s *domain.InterviewState) bool {
		return !rule(s)
	}
}
