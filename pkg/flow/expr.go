package flow

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/uxforge/maestro/pkg/domain"
)

// Visibility expressions are a small, fixed grammar evaluated against
// recorded answers. This is a deliberate safety boundary: no arbitrary code,
// no host lookups, just equality and membership tests.
//
// Grammar (case-sensitive identifiers, 'and' binds tighter than 'or'):
//
//	expr       := conjunction { "or" conjunction }
//	conjunction := comparison { "and" comparison }
//	comparison := ident "==" value
//	            | ident "!=" value
//	            | ident "in" "[" value { "," value } "]"
//	            | ident                       (answered test)
//
// The identifier is a question id; the value matches either a selected
// option id or the recorded free text. A comparison referencing an
// unanswered question evaluates to false (fail-closed), including "!=".

type comparison struct {
	questionID string
	op         string // "==", "!=", "in", "answered"
	values     []string
}

type expression struct {
	// Disjunction of conjunctions.
	terms [][]comparison
}

// exprCache memoizes compiled expressions. The catalog is small, so the
// bound is generous; eviction only matters for pathological dynamic banks.
var exprCache, _ = lru.New[string, *expression](256)

// CompileExpression parses a visibility expression. The empty expression
// compiles to nil, which evaluates to true.
func CompileExpression(src string) (*expression, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	if cached, ok := exprCache.Get(src); ok {
		return cached, nil
	}

	expr := &expression{}
	for _, orPart := range strings.Split(src, " or ") {
		var conj []comparison
		for _, andPart := range strings.Split(orPart, " and ") {
			cmp, err := parseComparison(andPart)
			if err != nil {
				return nil, fmt.Errorf("invalid visibility expression %q: %w", src, err)
			}
			conj = append(conj, cmp)
		}
		expr.terms = append(expr.terms, conj)
	}

	exprCache.Add(src, expr)
	return expr, nil
}

func parseComparison(src string) (comparison, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return comparison{}, fmt.Errorf("empty comparison")
	}

	if idx := strings.Index(src, "=="); idx >= 0 {
		return makeComparison(src[:idx], "==", src[idx+2:])
	}
	if idx := strings.Index(src, "!="); idx >= 0 {
		return makeComparison(src[:idx], "!=", src[idx+2:])
	}
	if idx := strings.Index(src, " in "); idx >= 0 {
		ident := strings.TrimSpace(src[:idx])
		list := strings.TrimSpace(src[idx+4:])
		if !strings.HasPrefix(list, "[") || !strings.HasSuffix(list, "]") {
			return comparison{}, fmt.Errorf("membership list must be bracketed: %q", list)
		}
		var values []string
		for _, v := range strings.Split(list[1:len(list)-1], ",") {
			v = trimValue(v)
			if v == "" {
				return comparison{}, fmt.Errorf("empty value in membership list %q", list)
			}
			values = append(values, v)
		}
		if ident == "" || len(values) == 0 {
			return comparison{}, fmt.Errorf("malformed membership test %q", src)
		}
		return comparison{questionID: ident, op: "in", values: values}, nil
	}

	// Bare identifier: "is answered" test.
	if strings.ContainsAny(src, " \t[]=,") {
		return comparison{}, fmt.Errorf("unrecognized comparison %q", src)
	}
	return comparison{questionID: src, op: "answered"}, nil
}

func makeComparison(ident, op, value string) (comparison, error) {
	ident = strings.TrimSpace(ident)
	value = trimValue(value)
	if ident == "" || value == "" {
		return comparison{}, fmt.Errorf("malformed comparison around %q", op)
	}
	return comparison{questionID: ident, op: op, values: []string{value}}, nil
}

func trimValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, "'\"")
	return v
}

// Eval evaluates the expression against recorded answers.
// A nil expression is always true.
func (e *expression) Eval(state *domain.InterviewState) bool {
	if e == nil {
		return true
	}
	for _, conj := range e.terms {
		all := true
		for _, cmp := range conj {
			if !cmp.eval(state) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func (c comparison) eval(state *domain.InterviewState) bool {
	ans, answered := state.Answers[c.questionID]
	if !answered {
		// Fail-closed: unmet preconditions hide the question.
		return false
	}

	switch c.op {
	case "answered":
		return true
	case "==":
		return answerMatches(ans, c.values[0])
	case "!=":
		return !answerMatches(ans, c.values[0])
	case "in":
		for _, v := range c.values {
			if answerMatches(ans, v) {
				return true
			}
		}
		return false
	}
	return false
}

// answerMatches tests a value against the selected option ids or free text.
func answerMatches(ans domain.Answer, value string) bool {
	for _, id := range ans.SelectedOptions {
		if id == value {
			return true
		}
	}
	return ans.FreeText != "" && ans.FreeText == value
}
