// Package bank holds the read-only question catalog.
//
// A Bank is built once at process start; construction validates the catalog
// (unique ids, well-formed options, parseable visibility expressions) so
// that per-request code never sees a malformed question.
package bank

import (
	"context"
	"fmt"
	"sort"

	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/flow"
	"github.com/uxforge/maestro/pkg/ports"
)

// Bank is the immutable question catalog.
type Bank struct {
	byID    map[string]*domain.Question
	ordered []domain.Question
}

// New validates the catalog and builds the bank.
// Questions keep their definition order within a category; categories are
// ranked by domain.CategoryPriority.
func New(questions []domain.Question) (*Bank, error) {
	b := &Bank{
		byID:    make(map[string]*domain.Question, len(questions)),
		ordered: make([]domain.Question, len(questions)),
	}
	copy(b.ordered, questions)

	// Stable sort preserves definition order inside each category.
	sort.SliceStable(b.ordered, func(i, j int) bool {
		return domain.CategoryPriority(b.ordered[i].Category) < domain.CategoryPriority(b.ordered[j].Category)
	})

	for i := range b.ordered {
		q := &b.ordered[i]
		if err := validate(q); err != nil {
			return nil, err
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		b.byID[q.ID] = q
	}
	return b, nil
}

// Load builds a bank from a loader source.
func Load(ctx context.Context, loader ports.BankLoader) (*Bank, error) {
	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load question catalog: %w", err)
	}
	return New(questions)
}

func validate(q *domain.Question) error {
	if q.ID == "" {
		return fmt.Errorf("question with empty id")
	}
	switch q.Type {
	case domain.TypeSingleChoice, domain.TypeMultiChoice,
		domain.TypeFreeText, domain.TypeSlider, domain.TypeColorPicker:
	default:
		return fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
	}
	if q.Type.NeedsOptions() && len(q.Options) == 0 {
		return fmt.Errorf("question %q of type %s has no options", q.ID, q.Type)
	}

	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if opt.ID == "" {
			return fmt.Errorf("question %q has an option with empty id", q.ID)
		}
		if seen[opt.ID] {
			return fmt.Errorf("question %q has duplicate option id %q", q.ID, opt.ID)
		}
		seen[opt.ID] = true
	}

	if _, err := flow.CompileExpression(q.Visibility); err != nil {
		return fmt.Errorf("question %q: %w", q.ID, err)
	}
	return nil
}

// Get returns the question by id.
func (b *Bank) Get(id string) (*domain.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// All returns the catalog in priority order. The returned slice is shared;
// callers must not mutate it.
func (b *Bank) All() []domain.Question {
	return b.ordered
}

// Len returns the catalog size.
func (b *Bank) Len() int {
	return len(b.ordered)
}
