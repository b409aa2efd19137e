package ports

import (
	"context"

	"github.com/uxforge/maestro/pkg/domain"
)

// BankLoader defines how question catalogs are retrieved.
// This decouples the bank from its storage (built-in data, YAML file,
// markdown repository).
type BankLoader interface {
	// LoadQuestions returns the raw catalog in definition order.
	// Loading failures (unreadable source, malformed metadata) are fatal
	// at process start, not per-request.
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}
