package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventQuestionSurfaced EventType = "question_surfaced"
	EventAnswerRecorded   EventType = "answer_recorded"
	EventDecisionMade     EventType = "decision_made"
	EventExecuted         EventType = "executed"
)

// QuestionEvent reports a question being offered to the caller.
type QuestionEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id"`
	QuestionID string    `json:"question_id"`
	FollowUp   bool      `json:"follow_up,omitempty"`
}

// AnswerEvent reports the outcome of answer processing.
type AnswerEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id"`
	QuestionID string    `json:"question_id"`
	Valid      bool      `json:"valid"`
	Progress   float64   `json:"progress"`
}

// DecisionEvent reports a computed decision.
type DecisionEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id"`
	Mode       Mode      `json:"mode"`
	Confidence float64   `json:"confidence"`
	Forced     bool      `json:"forced,omitempty"`
}

// ExecuteEvent reports a generation backend call.
type ExecuteEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	SessionID string        `json:"session_id"`
	Mode      Mode          `json:"mode"`
	Duration  time.Duration `json:"duration"`
	IsError   bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnQuestionSurfaced func(context.Context, *QuestionEvent)
	OnAnswerRecorded   func(context.Context, *AnswerEvent)
	OnDecisionMade     func(context.Context, *DecisionEvent)
	OnExecuted         func(context.Context, *ExecuteEvent)
}
