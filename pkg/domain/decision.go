package domain

// Mode is the generation mode a decision resolves to.
type Mode string

const (
	ModeDesignFrontend       Mode = "design_frontend"
	ModeDesignPage           Mode = "design_page"
	ModeDesignSection        Mode = "design_section"
	ModeDesignFromReference  Mode = "design_from_reference"
	ModeRefineFrontend       Mode = "refine_frontend"
	ModeReplaceSectionInPage Mode = "replace_section_in_page"
)

// QualityTarget selects the effort level of the generation backend.
type QualityTarget string

const (
	QualityDraft      QualityTarget = "draft"
	QualityProduction QualityTarget = "production"
	QualityPremium    QualityTarget = "premium"
	QualityEnterprise QualityTarget = "enterprise"
)

// Decision is the structured outcome of the interview: the selected mode,
// how confident the tree is in it, and the parameter set handed to the
// generation backend. Deciding never fails; a low confidence score is the
// signal of an incomplete interview.
type Decision struct {
	Mode         Mode           `json:"mode"`
	Confidence   float64        `json:"confidence"`
	Parameters   map[string]any `json:"parameters"`
	Reasoning    string         `json:"reasoning"`
	Alternatives []Mode         `json:"alternatives,omitempty"`
}

// DesignOutput is the bundle returned by the generation backend.
type DesignOutput struct {
	Markup string `json:"markup"`
	Style  string `json:"style"`
	Script string `json:"script"`
	Notes  string `json:"notes,omitempty"`
}
