package domain

import "time"

// Status is a session state-machine state.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusAnalyzing      Status = "analyzing"
	StatusInterviewing   Status = "interviewing"
	StatusAwaitingAnswer Status = "awaiting_answer"
	StatusDeciding       Status = "deciding"
	StatusConfirming     Status = "confirming"
	StatusExecuting      Status = "executing"
	StatusComplete       Status = "complete"
	StatusAborted        Status = "aborted"
)

// Terminal reports whether the status accepts no further transitions.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusAborted
}

// transitions is the allowed edge set of the session state machine.
// Abort is handled separately: any non-terminal status may move to aborted.
var transitions = map[Status][]Status{
	StatusIdle:           {StatusAnalyzing},
	StatusAnalyzing:      {StatusInterviewing, StatusDeciding},
	StatusInterviewing:   {StatusAwaitingAnswer, StatusDeciding},
	StatusAwaitingAnswer: {StatusInterviewing, StatusDeciding},
	StatusDeciding:       {StatusConfirming},
	StatusConfirming:     {StatusExecuting},
	StatusExecuting:      {StatusComplete},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	if to == StatusAborted {
		return !from.Terminal()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Session is one interview, owned by the session manager's registry.
type Session struct {
	ID             string          `json:"id"`
	Status         Status          `json:"status"`
	Interview      *InterviewState `json:"interview"`
	Decision       *Decision       `json:"decision,omitempty"`
	ProjectContext string          `json:"project_context,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	LastActivity   time.Time       `json:"last_activity_at"`
}

// NewSession creates a fresh session in the analyzing state.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		Status:       StatusAnalyzing,
		Interview:    NewInterviewState(),
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Interview = s.Interview.Clone()
	if s.Decision != nil {
		dec := *s.Decision
		dec.Parameters = make(map[string]any, len(s.Decision.Parameters))
		for k, v := range s.Decision.Parameters {
			dec.Parameters[k] = v
		}
		dec.Alternatives = append([]Mode(nil), s.Decision.Alternatives...)
		next.Decision = &dec
	}
	return &next
}
