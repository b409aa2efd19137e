package domain

// Answer is the caller's response to a single question.
// It is ephemeral: the engine validates it and either records it into the
// interview state or rejects it without side effects.
type Answer struct {
	QuestionID      string   `json:"question_id"`
	SelectedOptions []string `json:"selected_option_ids,omitempty"`
	FreeText        string   `json:"free_text,omitempty"`
	SliderValue     *float64 `json:"slider_value,omitempty"`
}

// AnswerResult reports the synchronous outcome of answer validation.
// Err carries one of the validation sentinels (ErrQuestionNotFound,
// ErrInvalidOption, ErrMissingInput) when Valid is false.
type AnswerResult struct {
	Valid bool
	Err   error
}
