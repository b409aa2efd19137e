package flow

import "sort"

// Edge is one follow-up trigger, exposed for introspection and graph
// rendering.
type Edge struct {
	From   string
	Option string
	To     string
}

// Edges returns the follow-up trigger table as a flat, sorted list.
func (c *Controller) Edges() []Edge {
	var edges []Edge
	for key, targets := range c.followUps {
		for _, to := range targets {
			edges = append(edges, Edge{From: key.QuestionID, Option: key.OptionID, To: to})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].Option != edges[j].Option {
			return edges[i].Option < edges[j].Option
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// Dependencies returns the question ids referenced by a visibility
// expression, in order of first appearance. Malformed expressions yield nil.
func Dependencies(src string) []string {
	expr, err := CompileExpression(src)
	if err != nil || expr == nil {
		return nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, conj := range expr.terms {
		for _, cmp := range conj {
			if seen[cmp.questionID] {
				continue
			}
			seen[cmp.questionID] = true
			ids = append(ids, cmp.questionID)
		}
	}
	return ids
}
