package game

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/cybersim/horacero/internal/horacero"
	"github.com/cybersim/horacero/internal/provider"
)

// Manager owns the runners for all in-progress sessions, keyed by
// access code. One runner per session; starting an already-running
// session returns the existing runner.
type Manager struct {
	logger   *slog.Logger
	provider provider.Provider
	saver    Saver
	cfg      Config

	// newRng seeds each runner's reducer; tests inject deterministic
	// sources.
	newRng func() *rand.Rand
	after  func(time.Duration) <-chan time.Time

	mu      sync.RWMutex
	runners map[string]*Runner
}

func NewManager(logger *slog.Logger, p provider.Provider, saver Saver, cfg Config) *Manager {
	return &Manager{
		logger:   logger,
		provider: p,
		saver:    saver,
		cfg:      cfg,
		newRng:   func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
		runners:  make(map[string]*Runner),
	}
}

// SetRandSource overrides the per-runner rng factory. Test hook.
func (m *Manager) SetRandSource(newRng func() *rand.Rand) {
	m.newRng = newRng
}

// SetClock overrides the runners' timer. Test hook.
func (m *Manager) SetClock(after func(time.Duration) <-chan time.Time) {
	m.after = after
}

// Start spins up a runner for the session and dispatches the
// initialization action. Idempotent per code.
func (m *Manager) Start(ctx context.Context, session horacero.GameSession) *Runner {
	m.mu.RLock()
	r, ok := m.runners[session.Code]
	m.mu.RUnlock()
	if ok {
		return r
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if r, ok := m.runners[session.Code]; ok {
		return r
	}

	r = newRunner(session.Code, m.logger, m.provider, m.saver, NewReducer(m.newRng()), m.cfg, m.after)
	m.runners[session.Code] = r

	go r.run(ctx)
	r.Dispatch(InitializeFromSession{Session: session})

	m.logger.Info("game started", "code", session.Code, "players", len(session.PlayerDetails))
	return r
}

// Get returns the runner for a code, if one is live.
func (m *Manager) Get(code string) (*Runner, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runners[code]
	return r, ok
}

// Stop tears down a single runner.
func (m *Manager) Stop(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.runners[code]; ok {
		r.Stop()
		delete(m.runners, code)
	}
}

// Close stops every runner.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, r := range m.runners {
		r.Stop()
		delete(m.runners, code)
	}
}
