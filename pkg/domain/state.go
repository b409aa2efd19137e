package domain

// InterviewState is the mutable per-session record of the interview.
//
// Invariants:
//   - every id in Answers also appears in Surfaced
//   - an id never appears twice in Surfaced
//
// Only the interview engine mutates it; stores deep-copy on save/load so a
// caller can never alias stored state.
type InterviewState struct {
	// Answers maps question id to the latest recorded answer.
	Answers map[string]Answer `json:"answers"`

	// Surfaced holds question ids in the order they were presented.
	Surfaced []string `json:"surfaced_question_ids"`

	// PendingFollowUps is the queue of follow-up question ids to offer
	// before resuming catalog order.
	PendingFollowUps []string `json:"pending_follow_up_ids"`

	// ExistingOutput is a previous design artifact, if the caller is
	// iterating on one.
	ExistingOutput string `json:"existing_output,omitempty"`

	// ReferenceImagePath points at an uploaded reference image, if any.
	ReferenceImagePath string `json:"reference_image_path,omitempty"`
}

// NewInterviewState creates an empty interview state.
func NewInterviewState() *InterviewState {
	return &InterviewState{
		Answers: make(map[string]Answer),
	}
}

// HasSurfaced reports whether the question id was already presented.
func (s *InterviewState) HasSurfaced(questionID string) bool {
	for _, id := range s.Surfaced {
		if id == questionID {
			return true
		}
	}
	return false
}

// HasPending reports whether the question id is queued as a follow-up.
func (s *InterviewState) HasPending(questionID string) bool {
	for _, id := range s.PendingFollowUps {
		if id == questionID {
			return true
		}
	}
	return false
}

// Selected reports whether the recorded answer for questionID selected the
// given option. Unanswered questions select nothing.
func (s *InterviewState) Selected(questionID, optionID string) bool {
	ans, ok := s.Answers[questionID]
	if !ok {
		return false
	}
	for _, id := range ans.SelectedOptions {
		if id == optionID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the state.
func (s *InterviewState) Clone() *InterviewState {
	if s == nil {
		return nil
	}
	next := &InterviewState{
		Answers:            make(map[string]Answer, len(s.Answers)),
		Surfaced:           append([]string(nil), s.Surfaced...),
		PendingFollowUps:   append([]string(nil), s.PendingFollowUps...),
		ExistingOutput:     s.ExistingOutput,
		ReferenceImagePath: s.ReferenceImagePath,
	}
	for id, ans := range s.Answers {
		ans.SelectedOptions = append([]string(nil), ans.SelectedOptions...)
		next.Answers[id] = ans
	}
	return next
}
