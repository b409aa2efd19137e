package domain

// QuestionType defines how an answer to a question is captured.
type QuestionType string

const (
	TypeSingleChoice QuestionType = "single_choice"
	TypeMultiChoice  QuestionType = "multi_choice"
	TypeFreeText     QuestionType = "free_text"
	TypeSlider       QuestionType = "slider"
	TypeColorPicker  QuestionType = "color_picker"
)

// NeedsOptions reports whether the question type requires a non-empty
// option list.
func (t QuestionType) NeedsOptions() bool {
	return t == TypeSingleChoice || t == TypeMultiChoice
}

// Category groups questions and drives catalog ordering.
type Category string

const (
	CategoryIntent    Category = "intent"
	CategoryScope     Category = "scope"
	CategoryReference Category = "reference"
	CategoryContext   Category = "context"
	CategoryTheme     Category = "theme"
	CategoryContent   Category = "content"
	CategoryTechnical Category = "technical"
	CategoryMeta      Category = "meta"
)

// CategoryPriority returns the presentation rank of a category.
// Lower ranks are asked first. Unknown categories sort last.
func CategoryPriority(c Category) int {
	switch c {
	case CategoryIntent:
		return 0
	case CategoryScope:
		return 1
	case CategoryReference:
		return 2
	case CategoryContext:
		return 3
	case CategoryTheme:
		return 4
	case CategoryContent:
		return 5
	case CategoryTechnical:
		return 6
	case CategoryMeta:
		return 7
	}
	return 100
}

// QuestionOption is a selectable choice within a question.
type QuestionOption struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Question is an immutable catalog entry.
type Question struct {
	ID       string           `json:"id" yaml:"id"`
	Category Category         `json:"category" yaml:"category"`
	Text     string           `json:"text" yaml:"text"`
	Options  []QuestionOption `json:"options,omitempty" yaml:"options,omitempty"`
	Type     QuestionType     `json:"type" yaml:"type"`
	Required bool             `json:"required" yaml:"required"`

	// Visibility is an optional boolean expression over recorded answers
	// (e.g. "q_scope_type == opt_full_page"). Empty means always visible.
	Visibility string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// HasOption reports whether the given option id belongs to the question.
func (q *Question) HasOption(optionID string) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}
