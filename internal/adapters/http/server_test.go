package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/uxforge/maestro/internal/adapters/http"
	"github.com/uxforge/maestro/internal/decision"
	"github.com/uxforge/maestro/internal/interview"
	"github.com/uxforge/maestro/internal/logging"
	"github.com/uxforge/maestro/pkg/adapters/memory"
	"github.com/uxforge/maestro/pkg/bank"
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/flow"
	"github.com/uxforge/maestro/pkg/ports"
	"github.com/uxforge/maestro/pkg/session"
)

type stubBackend struct {
	err error
}

func (b *stubBackend) ExecuteDesign(ctx context.Context, req ports.DesignRequest) (*domain.DesignOutput, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &domain.DesignOutput{Markup: "<main></main>", Style: "main{}", Notes: string(req.Mode)}, nil
}

func newTestHandler(t *testing.T, backend ports.GenerationBackend) http.Handler {
	t.Helper()

	b := bank.Default()
	engine := interview.NewEngine(b, flow.NewController())
	manager := session.NewManager(memory.NewStore(), engine, decision.NewTree(),
		session.WithBackend(backend),
	)
	return httpadapter.NewHandler(manager, b, logging.NewNop())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeTurn(t *testing.T, rec *httptest.ResponseRecorder) session.TurnResult {
	t.Helper()
	var result session.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func startBody() map[string]any {
	return map[string]any{"project_context": "acme site"}
}

func TestHTTP_StartSession(t *testing.T) {
	handler := newTestHandler(t, &stubBackend{})

	rec := doJSON(t, handler, http.MethodPost, "/sessions", startBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	result := decodeTurn(t, rec)
	assert.NotEmpty(t, result.SessionID)
	require.NotNil(t, result.Question)
	assert.Equal(t, "q_intent_main", result.Question.ID)
	assert.Equal(t, domain.StatusAwaitingAnswer, result.Status)
}

func TestHTTP_AnswerValidationDoesNotAdvance(t *testing.T) {
	handler := newTestHandler(t, &stubBackend{})

	start := decodeTurn(t, doJSON(t, handler, http.MethodPost, "/sessions", startBody()))

	// Unknown option is rejected with 422 and the question stays current.
	rec := doJSON(t, handler, http.MethodPost, "/sessions/"+start.SessionID+"/answer", map[string]any{
		"question_id":      "q_intent_main",
		"selected_options": []string{"opt_bogus"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/sessions/"+start.SessionID+"/answer", map[string]any{
		"question_id":      "q_intent_main",
		"selected_options": []string{"opt_new_design"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	next := decodeTurn(t, rec)
	require.NotNil(t, next.Question)
	assert.Greater(t, next.Progress, 0.0)
}

func TestHTTP_ForceDecisionAndExecute(t *testing.T) {
	handler := newTestHandler(t, &stubBackend{})

	start := decodeTurn(t, doJSON(t, handler, http.MethodPost, "/sessions", startBody()))

	rec := doJSON(t, handler, http.MethodPost, "/sessions/"+start.SessionID+"/decision", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decided := decodeTurn(t, rec)
	require.NotNil(t, decided.Decision)
	assert.Equal(t, domain.StatusConfirming, decided.Status)

	rec = doJSON(t, handler, http.MethodPost, "/sessions/"+start.SessionID+"/execute", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result session.ExecuteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Output)
	assert.Equal(t, "<main></main>", result.Output.Markup)
	assert.Equal(t, domain.StatusComplete, result.Status)
}

func TestHTTP_ExecuteBackendFailureIsBadGateway(t *testing.T) {
	handler := newTestHandler(t, &stubBackend{err: errors.New("model unavailable")})

	start := decodeTurn(t, doJSON(t, handler, http.MethodPost, "/sessions", startBody()))
	doJSON(t, handler, http.MethodPost, "/sessions/"+start.SessionID+"/decision", nil)

	rec := doJSON(t, handler, http.MethodPost, "/sessions/"+start.SessionID+"/execute", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "model unavailable")

	// The session stays in executing, so a retry is still legal.
	rec = doJSON(t, handler, http.MethodGet, "/sessions/"+start.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sess domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, domain.StatusExecuting, sess.Status)
}

func TestHTTP_AbortThenNotFound(t *testing.T) {
	handler := newTestHandler(t, &stubBackend{})

	start := decodeTurn(t, doJSON(t, handler, http.MethodPost, "/sessions", startBody()))

	rec := doJSON(t, handler, http.MethodDelete, "/sessions/"+start.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/sessions/"+start.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_AnswerOutOfStateIsConflict(t *testing.T) {
	handler := newTestHandler(t, &stubBackend{})

	start := decodeTurn(t, doJSON(t, handler, http.MethodPost, "/sessions", startBody()))
	doJSON(t, handler, http.MethodPost, "/sessions/"+start.SessionID+"/decision", nil)

	// Confirming sessions no longer accept answers.
	rec := doJSON(t, handler, http.MethodPost, "/sessions/"+start.SessionID+"/answer", map[string]any{
		"question_id":      "q_intent_main",
		"selected_options": []string{"opt_new_design"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHTTP_BankListing(t *testing.T) {
	handler := newTestHandler(t, &stubBackend{})

	rec := doJSON(t, handler, http.MethodGet, "/bank", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Questions []domain.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Questions)
}
