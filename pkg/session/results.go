package session

import "github.com/uxforge/maestro/pkg/domain"

// TurnResult is the outcome of one interview turn: either the next question
// to present or, once the interview is decided, the decision.
type TurnResult struct {
	SessionID string           `json:"session_id"`
	Question  *domain.Question `json:"question,omitempty"`
	Decision  *domain.Decision `json:"decision,omitempty"`
	Progress  float64          `json:"progress"`
	Status    domain.Status    `json:"status"`
}

// ExecuteResult is the outcome of a generation backend call.
type ExecuteResult struct {
	SessionID       string               `json:"session_id"`
	Output          *domain.DesignOutput `json:"output"`
	Mode            domain.Mode          `json:"mode"`
	TrifectaEnabled bool                 `json:"trifecta_enabled"`
	Status          domain.Status        `json:"status"`
}
