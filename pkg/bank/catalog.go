package bank

import (
	"context"

	"github.com/uxforge/maestro/pkg/domain"
)

// StaticLoader serves a fixed catalog. It backs the built-in default bank
// and is handy for tests.
type StaticLoader struct {
	Questions []domain.Question
}

// LoadQuestions implements ports.BankLoader.
func (l *StaticLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	return l.Questions, nil
}

// Default builds the bank from the built-in catalog.
// The catalog is data, not logic: changing it never requires engine changes.
func Default() *Bank {
	b, err := New(DefaultCatalog())
	if err != nil {
		// The built-in catalog is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return b
}

// DefaultCatalog returns the product's built-in question catalog.
func DefaultCatalog() []domain.Question {
	return []domain.Question{
		{
			ID:       "q_intent_main",
			Category: domain.CategoryIntent,
			Text:     "What would you like to create?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_new_design", Label: "A new design", Description: "Start from a blank canvas", Icon: "sparkles"},
				{ID: "opt_from_reference", Label: "From a reference", Description: "Recreate the look of an image", Icon: "image"},
			},
		},
		{
			ID:       "q_existing_action",
			Category: domain.CategoryIntent,
			Text:     "You have an existing design. What should happen to it?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_refine", Label: "Refine it", Description: "Keep the structure, improve the details", Icon: "wand"},
				{ID: "opt_replace_section", Label: "Replace a section", Description: "Swap one section for a new one", Icon: "replace"},
				{ID: "opt_new_design", Label: "Start over", Description: "Discard it and design fresh", Icon: "sparkles"},
			},
		},
		{
			ID:       "q_scope_type",
			Category: domain.CategoryScope,
			Text:     "How big is the thing you need?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_full_page", Label: "A full page", Icon: "layout"},
				{ID: "opt_section", Label: "A page section", Icon: "rows"},
				{ID: "opt_component", Label: "A single component", Icon: "component"},
			},
		},
		{
			ID:         "q_page_type",
			Category:   domain.CategoryScope,
			Text:       "What kind of page?",
			Type:       domain.TypeSingleChoice,
			Required:   true,
			Visibility: "q_scope_type == opt_full_page",
			Options: []domain.QuestionOption{
				{ID: "opt_landing", Label: "Landing page"},
				{ID: "opt_dashboard", Label: "Dashboard"},
				{ID: "opt_pricing", Label: "Pricing page"},
				{ID: "opt_blog", Label: "Blog / article"},
				{ID: "opt_auth", Label: "Sign-in / sign-up"},
			},
		},
		{
			ID:         "q_section_type",
			Category:   domain.CategoryScope,
			Text:       "Which section?",
			Type:       domain.TypeSingleChoice,
			Required:   true,
			Visibility: "q_scope_type == opt_section or q_existing_action == opt_replace_section",
			Options: []domain.QuestionOption{
				{ID: "opt_hero", Label: "Hero"},
				{ID: "opt_features", Label: "Feature grid"},
				{ID: "opt_testimonials", Label: "Testimonials"},
				{ID: "opt_faq", Label: "FAQ"},
				{ID: "opt_footer", Label: "Footer"},
			},
		},
		{
			ID:         "q_component_type",
			Category:   domain.CategoryScope,
			Text:       "Which component?",
			Type:       domain.TypeSingleChoice,
			Required:   true,
			Visibility: "q_scope_type == opt_component",
			Options: []domain.QuestionOption{
				{ID: "opt_card", Label: "Card"},
				{ID: "opt_form", Label: "Form"},
				{ID: "opt_navbar", Label: "Navigation bar"},
				{ID: "opt_table", Label: "Data table"},
				{ID: "opt_modal", Label: "Modal dialog"},
			},
		},
		{
			ID:         "q_reference_upload",
			Category:   domain.CategoryReference,
			Text:       "Where is the reference image? Paste a path or URL.",
			Type:       domain.TypeFreeText,
			Required:   true,
			Visibility: "q_intent_main == opt_from_reference",
		},
		{
			ID:       "q_industry",
			Category: domain.CategoryContext,
			Text:     "What industry is this for?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_tech", Label: "Technology"},
				{ID: "opt_finance", Label: "Finance"},
				{ID: "opt_health", Label: "Healthcare"},
				{ID: "opt_creative", Label: "Creative / agency"},
				{ID: "opt_none", Label: "None in particular"},
			},
		},
		{
			ID:       "q_formality_level",
			Category: domain.CategoryContext,
			Text:     "How formal should the tone be? (0 = playful, 10 = strict)",
			Type:     domain.TypeSlider,
			Required: true,
		},
		{
			ID:       "q_theme",
			Category: domain.CategoryTheme,
			Text:     "Pick an overall style direction.",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_minimal", Label: "Minimal", Icon: "circle"},
				{ID: "opt_modern", Label: "Modern", Icon: "zap"},
				{ID: "opt_playful", Label: "Playful", Icon: "smile"},
				{ID: "opt_corporate", Label: "Corporate", Icon: "briefcase"},
				{ID: "opt_brutalist", Label: "Brutalist", Icon: "square"},
			},
		},
		{
			ID:       "q_color_mode",
			Category: domain.CategoryTheme,
			Text:     "Light or dark?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_light", Label: "Light", Icon: "sun"},
				{ID: "opt_dark", Label: "Dark", Icon: "moon"},
				{ID: "opt_auto", Label: "Follow the system", Icon: "monitor"},
			},
		},
		{
			ID:       "q_color_preference",
			Category: domain.CategoryTheme,
			Text:     "Any color direction?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_cool", Label: "Cool tones"},
				{ID: "opt_warm", Label: "Warm tones"},
				{ID: "opt_neutral", Label: "Neutral / monochrome"},
				{ID: "opt_vibrant", Label: "Vibrant"},
				{ID: "opt_brand", Label: "Use my brand color"},
			},
		},
		{
			ID:         "q_brand_color",
			Category:   domain.CategoryTheme,
			Text:       "What is your brand color?",
			Type:       domain.TypeColorPicker,
			Required:   true,
			Visibility: "q_color_preference == opt_brand",
		},
		{
			ID:       "q_content_ready",
			Category: domain.CategoryContent,
			Text:     "Do you have real content (copy, images) ready?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_content_ready", Label: "Yes, it's ready"},
				{ID: "opt_content_partial", Label: "Some of it"},
				{ID: "opt_content_none", Label: "Not yet, use placeholders"},
			},
		},
		{
			ID:         "q_content_input",
			Category:   domain.CategoryContent,
			Text:       "Paste the content you want to use.",
			Type:       domain.TypeFreeText,
			Required:   true,
			Visibility: "q_content_ready in [opt_content_ready, opt_content_partial]",
		},
		{
			ID:       "q_technical_level",
			Category: domain.CategoryTechnical,
			Text:     "How technical should the output be?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_basic", Label: "Basic", Description: "Plain markup, simple styles"},
				{ID: "opt_standard", Label: "Standard", Description: "Semantic markup, responsive styles"},
				{ID: "opt_advanced", Label: "Advanced", Description: "Design tokens, interactions"},
			},
		},
		{
			ID:       "q_border_radius",
			Category: domain.CategoryTechnical,
			Text:     "Corner rounding? (0 = sharp, 10 = fully rounded)",
			Type:     domain.TypeSlider,
			Required: true,
		},
		{
			ID:       "q_animation_level",
			Category: domain.CategoryTechnical,
			Text:     "How much motion?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_no_animation", Label: "None"},
				{ID: "opt_subtle", Label: "Subtle"},
				{ID: "opt_rich", Label: "Rich"},
			},
		},
		{
			ID:       "q_language",
			Category: domain.CategoryMeta,
			Text:     "What language should the copy be in?",
			Type:     domain.TypeSingleChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_en", Label: "English"},
				{ID: "opt_pt", Label: "Portuguese"},
				{ID: "opt_es", Label: "Spanish"},
			},
		},
		{
			ID:       "q_accessibility",
			Category: domain.CategoryMeta,
			Text:     "Any accessibility requirements?",
			Type:     domain.TypeMultiChoice,
			Required: true,
			Options: []domain.QuestionOption{
				{ID: "opt_standard_a11y", Label: "Standard best practices"},
				{ID: "opt_high_contrast", Label: "High contrast"},
				{ID: "opt_reduced_motion", Label: "Reduced motion"},
				{ID: "opt_screen_reader", Label: "Screen-reader first"},
			},
		},
	}
}
