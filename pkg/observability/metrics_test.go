package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/maestro/pkg/domain"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	hooks := metrics.Hooks()
	ctx := context.Background()

	hooks.OnQuestionSurfaced(ctx, &domain.QuestionEvent{QuestionID: "q_intent_main"})
	hooks.OnQuestionSurfaced(ctx, &domain.QuestionEvent{QuestionID: "q_intent_main"})
	hooks.OnAnswerRecorded(ctx, &domain.AnswerEvent{Valid: true})
	hooks.OnAnswerRecorded(ctx, &domain.AnswerEvent{Valid: false})
	hooks.OnDecisionMade(ctx, &domain.DecisionEvent{Mode: domain.ModeDesignPage, Confidence: 0.8})
	hooks.OnExecuted(ctx, &domain.ExecuteEvent{Mode: domain.ModeDesignPage, Duration: 3 * time.Second, IsError: true})

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.questionsSurfaced.WithLabelValues("q_intent_main")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.answersRecorded.WithLabelValues("true")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.answersRecorded.WithLabelValues("false")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.decisionsMade.WithLabelValues("design_page", "false")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.backendCalls.WithLabelValues("design_page", "error")), 1e-9)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
