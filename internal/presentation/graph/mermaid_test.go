package graph_test

import (
	"strings"
	"testing"

	"github.com/uxforge/maestro/internal/presentation/graph"
	"github.com/uxforge/maestro/pkg/bank"
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/flow"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name      string
		questions []domain.Question
		edges     []flow.Edge
		contains  []string
	}{
		{
			name: "Choice Question Shape",
			questions: []domain.Question{
				{ID: "q_theme", Type: domain.TypeSingleChoice},
				{ID: "q_accessibility", Type: domain.TypeMultiChoice},
			},
			contains: []string{
				"q_theme[/\"q_theme\"/]",
				"q_accessibility[/\"q_accessibility\"/]",
			},
		},
		{
			name: "Slider Shape",
			questions: []domain.Question{
				{ID: "q_border_radius", Type: domain.TypeSlider},
			},
			contains: []string{
				"q_border_radius([\"q_border_radius\"])",
			},
		},
		{
			name: "Free Text Shape",
			questions: []domain.Question{
				{ID: "q_content_input", Type: domain.TypeFreeText},
			},
			contains: []string{
				"q_content_input[\"q_content_input\"]",
			},
		},
		{
			name: "Visibility Dependency",
			questions: []domain.Question{
				{ID: "q_scope_type", Type: domain.TypeSingleChoice},
				{ID: "q_page_type", Type: domain.TypeSingleChoice, Visibility: "q_scope_type == opt_full_page"},
			},
			contains: []string{
				"q_scope_type -.-> q_page_type",
			},
		},
		{
			name: "Follow-Up Edge",
			questions: []domain.Question{
				{ID: "q_intent_main", Type: domain.TypeSingleChoice},
				{ID: "q_scope_type", Type: domain.TypeSingleChoice},
			},
			edges: []flow.Edge{
				{From: "q_intent_main", Option: "opt_new_design", To: "q_scope_type"},
			},
			contains: []string{
				"q_intent_main -- \"opt_new_design\" --> q_scope_type",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := graph.GenerateMermaid(tt.questions, tt.edges, nil)
			if !strings.HasPrefix(result, "graph TD\n") {
				t.Errorf("expected mermaid header, got %q", result)
			}
			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("expected output to contain %q\n\ngot:\n%s", want, result)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	questions := []domain.Question{
		{ID: "q_intent_main", Type: domain.TypeSingleChoice},
		{ID: "q_scope_type", Type: domain.TypeSingleChoice},
	}
	overlay := &graph.Overlay{
		AnsweredQuestions: []string{"q_intent_main", "q_intent_main"},
		CurrentQuestion:   "q_scope_type",
	}

	result := graph.GenerateMermaid(questions, nil, overlay)

	if got := strings.Count(result, "class q_intent_main answered;"); got != 1 {
		t.Errorf("expected exactly one answered class line, got %d", got)
	}
	if !strings.Contains(result, "class q_scope_type current;") {
		t.Errorf("expected current class line, got:\n%s", result)
	}
}

func TestGenerateMermaid_FullCatalog(t *testing.T) {
	b := bank.Default()
	result := graph.GenerateMermaid(b.All(), flow.NewController().Edges(), nil)

	for _, want := range []string{
		"q_intent_main",
		"q_scope_type -.-> q_page_type",
		"q_intent_main -- \"opt_from_reference\" --> q_reference_upload",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected catalog graph to contain %q", want)
		}
	}
}
