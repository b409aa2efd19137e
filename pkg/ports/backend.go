package ports

import (
	"context"

	"github.com/uxforge/maestro/pkg/domain"
)

// DesignRequest carries everything the generation backend needs to turn a
// decision into markup/style/script output.
type DesignRequest struct {
	Mode           domain.Mode
	Parameters     map[string]any
	QualityTarget  domain.QualityTarget
	UseTrifecta    bool
	PreviousOutput string
	ReferenceImage string
}

// GenerationBackend is the only hard external boundary of the core.
// The session manager owns the timeout and cancellation of the call;
// implementations should honor ctx and return the backend's error verbatim.
type GenerationBackend interface {
	ExecuteDesign(ctx context.Context, req DesignRequest) (*domain.DesignOutput, error)
}
