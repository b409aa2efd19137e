package loam

// QuestionMetadata is the frontmatter of a question file. It uses
// "mapstructure" tags to match the YAML keys; the markdown body below the
// frontmatter is the question text.
type QuestionMetadata struct {
	ID         string           `json:"id" mapstructure:"id"`
	Category   string           `json:"category" mapstructure:"category"`
	Type       string           `json:"type" mapstructure:"type"`
	Required   *bool            `json:"required,omitempty" mapstructure:"required"`
	Visibility string           `json:"visibility,omitempty" mapstructure:"visibility"`
	Options    []OptionMetadata `json:"options,omitempty" mapstructure:"options"`
}

// OptionMetadata is one choice in the frontmatter options list.
type OptionMetadata struct {
	ID          string `json:"id" mapstructure:"id"`
	Label       string `json:"label" mapstructure:"label"`
	Description string `json:"description,omitempty" mapstructure:"description"`
	Icon        string `json:"icon,omitempty" mapstructure:"icon"`
}
