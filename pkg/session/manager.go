package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/uxforge/maestro/internal/decision"
	"github.com/uxforge/maestro/internal/interview"
	"github.com/uxforge/maestro/internal/logging"
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/ports"
)

// DefaultIdleTTL is how long a session may sit without activity before it
// becomes eligible for passive removal.
const DefaultIdleTTL = 30 * time.Minute

// DefaultBackendTimeout bounds a single generation backend call.
// The manager owns the bound, not the backend.
const DefaultBackendTimeout = 2 * time.Minute

// lockEntry holds the per-session mutex and its reference count.
type lockEntry struct {
	mu     sync.Mutex
	refs   int
	cancel context.CancelFunc // cancels an in-flight backend call, if any
}

// Manager orchestrates sessions: registry access, the state machine, and
// the generation backend call. It uses reference counting to garbage
// collect unused per-session locks.
type Manager struct {
	store   ports.SessionStore
	engine  *interview.Engine
	tree    *decision.Tree
	backend ports.GenerationBackend

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker         ports.DistributedLocker
	logger         *slog.Logger
	hooks          domain.LifecycleHooks
	idleTTL        time.Duration
	backendTimeout time.Duration
	now            func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithBackend sets the generation backend. Without one, execute fails.
func WithBackend(backend ports.GenerationBackend) Option {
	return func(m *Manager) {
		m.backend = backend
	}
}

// WithLocker enables distributed locking for multi-replica deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithIdleTTL sets the idle-expiry window. Zero disables expiry.
func WithIdleTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.idleTTL = ttl
	}
}

// WithBackendTimeout bounds generation backend calls.
func WithBackendTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.backendTimeout = timeout
	}
}

// WithClock overrides the time source. Used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager over a store and the interview core.
func NewManager(store ports.SessionStore, engine *interview.Engine, tree *decision.Tree, opts ...Option) *Manager {
	m := &Manager{
		store:          store,
		engine:         engine,
		tree:           tree,
		locks:          make(map[string]*lockEntry),
		logger:         logging.NewNop(),
		idleTTL:        DefaultIdleTTL,
		backendTimeout: DefaultBackendTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// withLock executes fn while holding the per-session lock (and, when
// configured, the distributed lock). Concurrent calls against the same
// session id serialize here; this is the single-writer guarantee on
// interview state.
func (m *Manager) withLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, 30*time.Second)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrSessionBusy, err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// load fetches a session and enforces the idle-expiry policy.
// Must be called under withLock.
func (m *Manager) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if m.expired(sess) {
		if err := m.store.Delete(ctx, sessionID); err != nil {
			m.logger.Warn("failed to evict expired session", "session_id", sessionID, "err", err)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionExpired, sessionID)
	}
	return sess, nil
}

func (m *Manager) expired(sess *domain.Session) bool {
	return m.idleTTL > 0 && m.now().Sub(sess.LastActivity) > m.idleTTL
}

// transition moves the session to the target status, enforcing the state
// machine edge set.
func (m *Manager) transition(sess *domain.Session, to domain.Status) error {
	if !domain.CanTransition(sess.Status, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStateTransition, sess.Status, to)
	}
	sess.Status = to
	return nil
}

// StartSession creates a session, seeds the interview state and returns the
// first turn. A non-empty existingOutput marks the session as iterating on
// a previous artifact, which skips the generic intent question.
func (m *Manager) StartSession(ctx context.Context, projectContext, existingOutput string) (*TurnResult, error) {
	sessionID := uuid.NewString()

	var result *TurnResult
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		sess := domain.NewSession(sessionID, m.now().UTC())
		sess.ProjectContext = projectContext
		sess.Interview.ExistingOutput = existingOutput

		var err error
		result, err = m.advance(ctx, sess)
		if err != nil {
			return err
		}
		return m.store.Save(ctx, sess)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("session started", "session_id", sessionID, "status", result.Status)
	return result, nil
}

// advance computes the next turn for a session that is ready to either
// surface a question or decide.
func (m *Manager) advance(ctx context.Context, sess *domain.Session) (*TurnResult, error) {
	if q := m.engine.NextQuestion(ctx, sess.ID, sess.Interview); q != nil {
		if sess.Status != domain.StatusInterviewing {
			if err := m.transition(sess, domain.StatusInterviewing); err != nil {
				return nil, err
			}
		}
		if err := m.transition(sess, domain.StatusAwaitingAnswer); err != nil {
			return nil, err
		}
		sess.LastActivity = m.now().UTC()
		return &TurnResult{
			SessionID: sess.ID,
			Question:  q,
			Progress:  m.engine.Progress(sess.Interview),
			Status:    sess.Status,
		}, nil
	}
	return m.decide(ctx, sess, false)
}

// decide runs the decision tree and parks the session in confirming.
func (m *Manager) decide(ctx context.Context, sess *domain.Session, forced bool) (*TurnResult, error) {
	if err := m.transition(sess, domain.StatusDeciding); err != nil {
		return nil, err
	}

	dec := m.tree.Decide(sess.Interview, sess.Interview.ExistingOutput, sess.Interview.ReferenceImagePath)
	sess.Decision = &dec

	if err := m.transition(sess, domain.StatusConfirming); err != nil {
		return nil, err
	}
	sess.LastActivity = m.now().UTC()

	m.logger.Info("decision made", "session_id", sess.ID, "mode", dec.Mode, "confidence", dec.Confidence, "forced", forced)
	if m.hooks.OnDecisionMade != nil {
		m.hooks.OnDecisionMade(ctx, &domain.DecisionEvent{
			Timestamp:  m.now(),
			SessionID:  sess.ID,
			Mode:       dec.Mode,
			Confidence: dec.Confidence,
			Forced:     forced,
		})
	}

	return &TurnResult{
		SessionID: sess.ID,
		Decision:  sess.Decision,
		Progress:  m.engine.Progress(sess.Interview),
		Status:    sess.Status,
	}, nil
}

// Answer processes one answer and returns the next turn. Validation
// failures leave the session in awaiting_answer so the caller can retry
// with a corrected answer.
func (m *Manager) Answer(ctx context.Context, sessionID string, answer domain.Answer) (*TurnResult, error) {
	var result *TurnResult
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := m.load(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess.Status != domain.StatusAwaitingAnswer {
			return fmt.Errorf("%w: answer is not valid in state %s", domain.ErrInvalidStateTransition, sess.Status)
		}

		if res := m.engine.ProcessAnswer(ctx, sessionID, sess.Interview, answer); !res.Valid {
			return res.Err
		}

		// Capture a pasted reference path for the decision tree.
		if answer.QuestionID == "q_reference_upload" && answer.FreeText != "" {
			sess.Interview.ReferenceImagePath = answer.FreeText
		}

		if err := m.transition(sess, domain.StatusInterviewing); err != nil {
			return err
		}
		result, err = m.advance(ctx, sess)
		if err != nil {
			return err
		}
		return m.store.Save(ctx, sess)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForceDecision computes a decision from whatever has been answered so far.
// Valid while interviewing or awaiting an answer.
func (m *Manager) ForceDecision(ctx context.Context, sessionID string) (*TurnResult, error) {
	var result *TurnResult
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := m.load(ctx, sessionID)
		if err != nil {
			return err
		}
		switch sess.Status {
		case domain.StatusInterviewing, domain.StatusAwaitingAnswer, domain.StatusAnalyzing:
		default:
			return fmt.Errorf("%w: force_decision is not valid in state %s", domain.ErrInvalidStateTransition, sess.Status)
		}

		result, err = m.decide(ctx, sess, true)
		if err != nil {
			return err
		}
		return m.store.Save(ctx, sess)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Execute calls the generation backend with the stored decision.
// On backend failure the session stays in executing so the caller may retry
// once or abort; on success the session completes.
func (m *Manager) Execute(ctx context.Context, sessionID string, useTrifecta bool, quality domain.QualityTarget) (*ExecuteResult, error) {
	if quality == "" {
		quality = domain.QualityProduction
	}

	var result *ExecuteResult
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := m.load(ctx, sessionID)
		if err != nil {
			return err
		}
		// Executing is re-entrant: a failed backend call leaves the
		// session there for one caller-driven retry.
		if sess.Status != domain.StatusConfirming && sess.Status != domain.StatusExecuting {
			return fmt.Errorf("%w: execute is not valid in state %s", domain.ErrInvalidStateTransition, sess.Status)
		}
		if sess.Decision == nil {
			return fmt.Errorf("%w: no decision to execute", domain.ErrInvalidStateTransition)
		}
		if m.backend == nil {
			return &domain.BackendError{Err: errors.New("no generation backend configured")}
		}

		if sess.Status == domain.StatusConfirming {
			if err := m.transition(sess, domain.StatusExecuting); err != nil {
				return err
			}
			if err := m.store.Save(ctx, sess); err != nil {
				return err
			}
		}

		output, callErr := m.callBackend(ctx, sess, useTrifecta, quality)
		if callErr != nil {
			// Surface verbatim; the session remains in executing.
			return &domain.BackendError{Err: callErr}
		}

		if err := m.transition(sess, domain.StatusComplete); err != nil {
			return err
		}
		sess.LastActivity = m.now().UTC()
		if err := m.store.Save(ctx, sess); err != nil {
			return err
		}

		result = &ExecuteResult{
			SessionID:       sess.ID,
			Output:          output,
			Mode:            sess.Decision.Mode,
			TrifectaEnabled: useTrifecta,
			Status:          sess.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// callBackend performs the timeout-bounded, cancellable backend call.
// Abort cancels it via the lock entry so a caller abort while executing
// discards any late result.
func (m *Manager) callBackend(ctx context.Context, sess *domain.Session, useTrifecta bool, quality domain.QualityTarget) (*domain.DesignOutput, error) {
	callCtx, cancel := context.WithTimeout(ctx, m.backendTimeout)
	defer cancel()

	m.mu.Lock()
	if entry, ok := m.locks[sess.ID]; ok {
		entry.cancel = cancel
	}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		if entry, ok := m.locks[sess.ID]; ok {
			entry.cancel = nil
		}
		m.mu.Unlock()
	}()

	start := m.now()
	output, err := m.backend.ExecuteDesign(callCtx, ports.DesignRequest{
		Mode:           sess.Decision.Mode,
		Parameters:     sess.Decision.Parameters,
		QualityTarget:  quality,
		UseTrifecta:    useTrifecta,
		PreviousOutput: sess.Interview.ExistingOutput,
		ReferenceImage: sess.Interview.ReferenceImagePath,
	})
	duration := m.now().Sub(start)

	m.logger.Info("backend call finished", "session_id", sess.ID, "mode", sess.Decision.Mode, "duration", duration, "err", err)
	if m.hooks.OnExecuted != nil {
		m.hooks.OnExecuted(ctx, &domain.ExecuteEvent{
			Timestamp: m.now(),
			SessionID: sess.ID,
			Mode:      sess.Decision.Mode,
			Duration:  duration,
			IsError:   err != nil,
		})
	}
	return output, err
}

// Abort terminates the session and removes it from the registry.
// An in-flight backend call is cancelled first. Aborting an existing
// session always succeeds; subsequent operations see session not found.
func (m *Manager) Abort(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	if entry, ok := m.locks[sessionID]; ok && entry.cancel != nil {
		entry.cancel()
	}
	m.mu.Unlock()

	return m.withLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if !sess.Status.Terminal() {
			sess.Status = domain.StatusAborted
		}
		m.logger.Info("session aborted", "session_id", sessionID)
		return m.store.Delete(ctx, sessionID)
	})
}

// Get returns a copy of the session for inspection.
func (m *Manager) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.load(ctx, sessionID)
		return err
	})
	return sess, err
}

// List returns the ids of all stored sessions.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Sweep evicts idle-expired sessions and returns how many were removed.
func (m *Manager) Sweep(ctx context.Context) int {
	ids, err := m.store.List(ctx)
	if err != nil {
		m.logger.Warn("expiry sweep failed to list sessions", "err", err)
		return 0
	}

	evicted := 0
	for _, id := range ids {
		err := m.withLock(ctx, id, func(ctx context.Context) error {
			sess, err := m.store.Load(ctx, id)
			if err != nil {
				return err
			}
			if !m.expired(sess) {
				return nil
			}
			evicted++
			return m.store.Delete(ctx, id)
		})
		if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			m.logger.Warn("expiry sweep failed for session", "session_id", id, "err", err)
		}
	}
	if evicted > 0 {
		m.logger.Info("expiry sweep evicted sessions", "count", evicted)
	}
	return evicted
}

// RunExpirySweep blocks, sweeping at the given interval until ctx is done.
// Callers run it in a goroutine.
func (m *Manager) RunExpirySweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
