package maestro

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/uxforge/maestro/internal/decision"
	"github.com/uxforge/maestro/internal/interview"
	"github.com/uxforge/maestro/internal/logging"
	loamAdapter "github.com/uxforge/maestro/pkg/adapters/loam"
	"github.com/uxforge/maestro/pkg/adapters/memory"
	"github.com/uxforge/maestro/pkg/bank"
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/flow"
	"github.com/uxforge/maestro/pkg/ports"
	"github.com/uxforge/maestro/pkg/session"
)

// Version is the library version, stamped at release time.
var Version = "0.1.0"

// Orchestrator is the high-level entry point. It wires the question bank,
// the flow controller, the interview engine, the decision tree and the
// session manager into one ready-to-use unit.
type Orchestrator struct {
	bank    *bank.Bank
	manager *session.Manager

	loader      ports.BankLoader
	bankPath    string
	store       ports.SessionStore
	backend     ports.GenerationBackend
	locker      ports.DistributedLocker
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	managerOpts []session.Option
}

// Option defines a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithBankLoader injects a custom question source, bypassing the built-in
// catalog.
func WithBankLoader(l ports.BankLoader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithBankPath loads the question bank from a Loam directory of markdown
// files with YAML frontmatter.
func WithBankPath(path string) Option {
	return func(o *Orchestrator) {
		o.bankPath = path
	}
}

// WithStore injects a session store. Defaults to the in-memory store.
func WithStore(store ports.SessionStore) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithBackend sets the generation backend.
func WithBackend(backend ports.GenerationBackend) Option {
	return func(o *Orchestrator) {
		o.backend = backend
	}
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(o *Orchestrator) {
		o.locker = locker
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithIdleTTL overrides the session idle-expiry window.
func WithIdleTTL(ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.managerOpts = append(o.managerOpts, session.WithIdleTTL(ttl))
	}
}

// WithBackendTimeout bounds generation backend calls.
func WithBackendTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.managerOpts = append(o.managerOpts, session.WithBackendTimeout(timeout))
	}
}

// New assembles an Orchestrator. Without options it runs on the built-in
// question catalog, an in-memory store and no generation backend.
func New(opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.loader == nil && o.bankPath != "" {
		abs, err := filepath.Abs(o.bankPath)
		if err != nil {
			return nil, fmt.Errorf("invalid bank path: %w", err)
		}
		loader, err := loamAdapter.Open(abs)
		if err != nil {
			return nil, err
		}
		o.loader = loader
	}

	var b *bank.Bank
	if o.loader != nil {
		var err error
		b, err = bank.Load(context.Background(), o.loader)
		if err != nil {
			return nil, fmt.Errorf("failed to load question bank: %w", err)
		}
	} else {
		b = bank.Default()
	}
	o.bank = b

	if o.store == nil {
		o.store = memory.NewStore()
	}

	engine := interview.NewEngine(b, flow.NewController(),
		interview.WithLogger(o.logger),
		interview.WithLifecycleHooks(o.hooks),
	)

	managerOpts := []session.Option{
		session.WithLogger(o.logger),
		session.WithLifecycleHooks(o.hooks),
	}
	if o.backend != nil {
		managerOpts = append(managerOpts, session.WithBackend(o.backend))
	}
	if o.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(o.locker))
	}
	managerOpts = append(managerOpts, o.managerOpts...)

	o.manager = session.NewManager(o.store, engine, decision.NewTree(), managerOpts...)
	return o, nil
}

// Manager returns the session manager.
func (o *Orchestrator) Manager() *session.Manager {
	return o.manager
}

// Bank returns the loaded question bank.
func (o *Orchestrator) Bank() *bank.Bank {
	return o.bank
}
