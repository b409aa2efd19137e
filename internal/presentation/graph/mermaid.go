// Package graph renders the question flow as a Mermaid flowchart for
// inspection and docs.
package graph

import (
	"fmt"
	"strings"

	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/flow"
)

// Overlay contains interview state to visualize on the graph.
type Overlay struct {
	AnsweredQuestions []string
	CurrentQuestion   string
}

// GenerateMermaid produces Mermaid flowchart syntax from the catalog.
// Shapes encode the input type:
//   - choice questions: [/Parallelogram/] (user input)
//   - free text / color picker: [Rectangle]
//   - slider: ([Stadium])
//
// Solid labeled arrows are follow-up triggers; dotted arrows are visibility
// dependencies. Overlay styles mark answered and current questions.
func GenerateMermaid(questions []domain.Question, edges []flow.Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, q := range questions {
		safeID := sanitizeMermaidID(q.ID)

		opener, closer := "[", "]"
		switch q.Type {
		case domain.TypeSingleChoice, domain.TypeMultiChoice:
			opener, closer = "[/", "/]"
		case domain.TypeSlider:
			opener, closer = "([", "])"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, q.ID, closer))

		// Visibility dependencies
		for _, dep := range flow.Dependencies(q.Visibility) {
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", sanitizeMermaidID(dep), safeID))
		}
	}

	// Follow-up triggers
	for _, e := range edges {
		arrow := fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(e.Option, "\"", "'"))
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme.
		sb.WriteString("    classDef answered fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		answeredSet := make(map[string]bool)
		for _, id := range overlay.AnsweredQuestions {
			safeID := sanitizeMermaidID(id)
			if !answeredSet[safeID] && safeID != "" {
				answeredSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s answered;\n", safeID))
			}
		}

		if overlay.CurrentQuestion != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentQuestion)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
