// Package http exposes the session manager over a small REST surface.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uxforge/maestro/pkg/bank"
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/session"
)

// Server holds the handlers for the REST surface.
type Server struct {
	manager *session.Manager
	bank    *bank.Bank
	logger  *slog.Logger
}

// NewHandler builds the chi router over the session manager.
func NewHandler(manager *session.Manager, b *bank.Bank, logger *slog.Logger) http.Handler {
	s := &Server{manager: manager, bank: b, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/bank", s.getBank)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.startSession)
		r.Get("/", s.listSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.abortSession)
			r.Post("/answer", s.answer)
			r.Post("/decision", s.forceDecision)
			r.Post("/execute", s.execute)
		})
	})

	return r
}

type startRequest struct {
	ProjectContext string `json:"project_context,omitempty"`
	ExistingOutput string `json:"existing_output,omitempty"`
}

type answerRequest struct {
	QuestionID      string   `json:"question_id"`
	SelectedOptions []string `json:"selected_options,omitempty"`
	FreeText        string   `json:"free_text,omitempty"`
	SliderValue     *float64 `json:"slider_value,omitempty"`
}

type executeRequest struct {
	UseTrifecta   bool   `json:"use_trifecta,omitempty"`
	QualityTarget string `json:"quality_target,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}

	result, err := s.manager.StartSession(r.Context(), body.ProjectContext, body.ExistingOutput)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.manager.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": ids})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, err := s.manager.Get(r.Context(), sessionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) abortSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.manager.Abort(r.Context(), sessionID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body answerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := s.manager.Answer(r.Context(), sessionID, domain.Answer{
		QuestionID:      body.QuestionID,
		SelectedOptions: body.SelectedOptions,
		FreeText:        body.FreeText,
		SliderValue:     body.SliderValue,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) forceDecision(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := s.manager.ForceDecision(r.Context(), sessionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body executeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}

	result, err := s.manager.Execute(r.Context(), sessionID, body.UseTrifecta, domain.QualityTarget(body.QualityTarget))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) getBank(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"questions": s.bank.All()})
}

// writeDomainError maps the error taxonomy onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var backendErr *domain.BackendError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrSessionExpired):
		writeError(w, http.StatusGone, err)
	case errors.Is(err, domain.ErrSessionBusy):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, domain.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, err)
	case domain.IsValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.As(err, &backendErr):
		writeError(w, http.StatusBadGateway, err)
	default:
		s.logger.Error("unhandled error in http adapter", "err", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
