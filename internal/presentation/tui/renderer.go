package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/uxforge/maestro/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// FormatQuestion renders a question as markdown for the terminal.
func FormatQuestion(q *domain.Question, progress float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s\n\n", q.Text)

	for i, opt := range q.Options {
		if opt.Description != "" {
			fmt.Fprintf(&sb, "%d. **%s** — %s\n", i+1, opt.Label, opt.Description)
		} else {
			fmt.Fprintf(&sb, "%d. **%s**\n", i+1, opt.Label)
		}
	}

	switch q.Type {
	case domain.TypeMultiChoice:
		sb.WriteString("\n*Pick one or more (comma-separated numbers).*\n")
	case domain.TypeSlider:
		sb.WriteString("\n*Enter a value between 0 and 1.*\n")
	case domain.TypeFreeText:
		sb.WriteString("\n*Type your answer.*\n")
	case domain.TypeColorPicker:
		sb.WriteString("\n*Enter a color (e.g. #ff6600).*\n")
	}

	fmt.Fprintf(&sb, "\n`progress: %3.0f%%`\n", progress*100)
	return sb.String()
}

// FormatDecision renders a decision summary as markdown.
func FormatDecision(d *domain.Decision) string {
	var sb strings.Builder
	sb.WriteString("## Decision\n\n")
	fmt.Fprintf(&sb, "- **Mode**: `%s`\n", d.Mode)
	fmt.Fprintf(&sb, "- **Confidence**: %.0f%%\n", d.Confidence*100)
	fmt.Fprintf(&sb, "- **Reasoning**: %s\n", d.Reasoning)

	if len(d.Alternatives) > 0 {
		alts := make([]string, len(d.Alternatives))
		for i, m := range d.Alternatives {
			alts[i] = "`" + string(m) + "`"
		}
		fmt.Fprintf(&sb, "- **Alternatives**: %s\n", strings.Join(alts, ", "))
	}

	if len(d.Parameters) > 0 {
		sb.WriteString("\n### Parameters\n\n")
		for key, value := range d.Parameters {
			fmt.Fprintf(&sb, "- `%s`: %v\n", key, value)
		}
	}
	return sb.String()
}
