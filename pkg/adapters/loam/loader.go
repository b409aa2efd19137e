// Package loam adapts the Loam document library to the question bank
// loader port. Each question lives in one markdown file: YAML frontmatter
// for the structure, the body for the question text.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/uxforge/maestro/pkg/domain"
)

// Loader implements ports.BankLoader over a Loam repository.
type Loader struct {
	Repo *loam.TypedRepository[QuestionMetadata]
}

// New creates a loader from an existing typed repository.
func New(repo *loam.TypedRepository[QuestionMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initializes a read-only Loam repository rooted at path and returns
// a loader over it.
func Open(path string) (*Loader, error) {
	repo, err := loam.Init(path, loam.WithStrict(true), loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open question bank at %s: %w", path, err)
	}
	return New(loam.NewTypedRepository[QuestionMetadata](repo)), nil
}

// LoadQuestions reads every document in the repository and converts it to a
// domain question. Duplicate ids are rejected here; the rest of the
// validation (types, options, visibility expressions) belongs to the bank.
func (l *Loader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	questions := make([]domain.Question, 0, len(docs))

	for _, doc := range docs {
		q := convertQuestion(doc.ID, doc.Data, doc.Content)
		if existing, ok := seen[q.ID]; ok {
			return nil, fmt.Errorf("question id %q is defined in both %q and %q", q.ID, existing, doc.ID)
		}
		seen[q.ID] = doc.ID
		questions = append(questions, q)
	}
	return questions, nil
}

func convertQuestion(docID string, meta QuestionMetadata, content string) domain.Question {
	id := meta.ID
	if id == "" {
		id = docID
	}

	options := make([]domain.QuestionOption, 0, len(meta.Options))
	for _, opt := range meta.Options {
		options = append(options, domain.QuestionOption{
			ID:          opt.ID,
			Label:       opt.Label,
			Description: opt.Description,
			Icon:        opt.Icon,
		})
	}

	// Questions default to required; the bank's progress invariant
	// depends on it. Frontmatter may opt out explicitly.
	required := true
	if meta.Required != nil {
		required = *meta.Required
	}

	return domain.Question{
		ID:         trimExtension(id),
		Category:   domain.Category(meta.Category),
		Text:       strings.TrimSpace(content),
		Options:    options,
		Type:       domain.QuestionType(meta.Type),
		Required:   required,
		Visibility: meta.Visibility,
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
