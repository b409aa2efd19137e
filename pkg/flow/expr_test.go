package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/maestro/pkg/domain"
)

func TestCompileExpression_Empty(t *testing.T) {
	expr, err := CompileExpression("   ")
	require.NoError(t, err)
	assert.Nil(t, expr)
	assert.True(t, expr.Eval(domain.NewInterviewState()), "nil expression is always true")
}

func TestCompileExpression_Errors(t *testing.T) {
	cases := []string{
		"q_a ==",
		"== opt_x",
		"q_a in opt_x",
		"q_a in []",
		"q_a in [opt_x,]",
		"q_a opt_x",
		"q_a and",
	}
	for _, src := range cases {
		_, err := CompileExpression(src)
		assert.Error(t, err, "expected compile error for %q", src)
	}
}

func TestEval(t *testing.T) {
	state := domain.NewInterviewState()
	state.Answers["q_scope_type"] = domain.Answer{SelectedOptions: []string{"opt_full_page"}}
	state.Answers["q_theme"] = domain.Answer{SelectedOptions: []string{"opt_dark", "opt_high_contrast"}}
	state.Answers["q_content_input"] = domain.Answer{FreeText: "hero copy"}

	tests := []struct {
		src  string
		want bool
	}{
		{"q_scope_type == opt_full_page", true},
		{"q_scope_type == opt_component", false},
		{"q_scope_type != opt_component", true},
		{"q_scope_type != opt_full_page", false},

		// Unanswered questions fail closed, even for !=.
		{"q_missing == opt_x", false},
		{"q_missing != opt_x", false},
		{"q_missing", false},

		// Answered test and free-text equality.
		{"q_content_input", true},
		{"q_content_input == 'hero copy'", true},

		// Multi-select membership.
		{"q_theme == opt_high_contrast", true},
		{"q_theme in [opt_light, opt_dark]", true},
		{"q_theme in [opt_light, opt_sepia]", false},

		// Boolean structure: and binds tighter than or.
		{"q_scope_type == opt_full_page and q_theme == opt_dark", true},
		{"q_scope_type == opt_component and q_theme == opt_dark", false},
		{"q_scope_type == opt_component or q_theme == opt_dark", true},
		{"q_missing == opt_x or q_scope_type == opt_full_page and q_content_input", true},
	}

	for _, tt := range tests {
		expr, err := CompileExpression(tt.src)
		require.NoError(t, err, "compile %q", tt.src)
		assert.Equal(t, tt.want, expr.Eval(state), "eval %q", tt.src)
	}
}

func TestCompileExpression_Cache(t *testing.T) {
	const src = "q_scope_type == opt_full_page"
	first, err := CompileExpression(src)
	require.NoError(t, err)
	second, err := CompileExpression(src)
	require.NoError(t, err)
	assert.Same(t, first, second, "repeat compiles should hit the cache")
}
