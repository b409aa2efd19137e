// Package observability provides Prometheus instrumentation for the
// interview lifecycle. Metrics attach through domain.LifecycleHooks, so the
// core stays free of metric types.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/uxforge/maestro/pkg/domain"
)

// Metrics holds the collectors for the interview lifecycle.
type Metrics struct {
	questionsSurfaced *prometheus.CounterVec
	answersRecorded   *prometheus.CounterVec
	decisionsMade     *prometheus.CounterVec
	decisionScore     prometheus.Histogram
	backendCalls      *prometheus.CounterVec
	backendDuration   prometheus.Histogram
}

// NewMetrics creates and registers the collectors on the given registerer.
// Pass prometheus.DefaultRegisterer for the usual /metrics exposition.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		questionsSurfaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maestro",
			Name:      "questions_surfaced_total",
			Help:      "Questions offered to callers, by question id.",
		}, []string{"question_id"}),
		answersRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maestro",
			Name:      "answers_recorded_total",
			Help:      "Answer processing outcomes.",
		}, []string{"valid"}),
		decisionsMade: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maestro",
			Name:      "decisions_total",
			Help:      "Decisions computed, by selected mode.",
		}, []string{"mode", "forced"}),
		decisionScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "maestro",
			Name:      "decision_confidence",
			Help:      "Confidence score distribution of computed decisions.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maestro",
			Name:      "backend_calls_total",
			Help:      "Generation backend calls, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		backendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "maestro",
			Name:      "backend_call_duration_seconds",
			Help:      "Generation backend call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}

	reg.MustRegister(
		m.questionsSurfaced,
		m.answersRecorded,
		m.decisionsMade,
		m.decisionScore,
		m.backendCalls,
		m.backendDuration,
	)
	return m
}

// Hooks returns lifecycle hooks that feed these collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionSurfaced: func(_ context.Context, evt *domain.QuestionEvent) {
			m.questionsSurfaced.WithLabelValues(evt.QuestionID).Inc()
		},
		OnAnswerRecorded: func(_ context.Context, evt *domain.AnswerEvent) {
			m.answersRecorded.WithLabelValues(boolLabel(evt.Valid)).Inc()
		},
		OnDecisionMade: func(_ context.Context, evt *domain.DecisionEvent) {
			m.decisionsMade.WithLabelValues(string(evt.Mode), boolLabel(evt.Forced)).Inc()
			m.decisionScore.Observe(evt.Confidence)
		},
		OnExecuted: func(_ context.Context, evt *domain.ExecuteEvent) {
			outcome := "success"
			if evt.IsError {
				outcome = "error"
			}
			m.backendCalls.WithLabelValues(string(evt.Mode), outcome).Inc()
			m.backendDuration.Observe(evt.Duration.Seconds())
		},
	}
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
