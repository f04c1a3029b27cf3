package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
	"github.com/Tanmayraut16/Neon-Chat/pkg/logging"
)

// State is the lifecycle position of one connection attempt.
type State int

const (
	// StatePending: socket open, identity not yet bound to the registry.
	StatePending State = iota
	// StateAuthenticated: registered and visible in presence.
	StateAuthenticated
	// StateClosed: terminal. A handle is single-use.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Session drives one connection through pending → authenticated → closed.
// It owns the register/announce and deregister/announce pairings so the
// handler above it can't get the ordering wrong, and it tolerates duplicate
// close signals from racing readers, reapers, and shutdown.
type Session struct {
	mu        sync.Mutex
	state     State
	client    contracts.Client
	registry  contracts.Registry
	announcer contracts.Announcer
	log       *slog.Logger
}

func NewSession(log *slog.Logger, registry contracts.Registry, announcer contracts.Announcer, client contracts.Client) *Session {
	return &Session{
		state:     StatePending,
		client:    client,
		registry:  registry,
		announcer: announcer,
		log:       log,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Authenticate moves pending → authenticated: register the handle, then
// announce the new online set. A registry rejection (ownership fault) closes
// the session without it ever having been visible.
func (s *Session) Authenticate(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StatePending {
		st := s.state
		s.mu.Unlock()
		s.log.ErrorContext(ctx, "session - authenticate - wrong state",
			slog.String("state", st.String()), logging.ConnID(s.client.ID()))
		return domain.ErrHandshakeRejected
	}
	snap, err := s.registry.Register(s.client)
	if err != nil {
		s.state = StateClosed
		s.mu.Unlock()
		s.client.Close()
		return err
	}
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.announcer.Announce(ctx, snap)
	s.log.InfoContext(ctx, "session - authenticate - connection registered",
		logging.ConnID(s.client.ID()), logging.UserID(s.client.UserID()))
	return nil
}

// Close moves any state to closed. From authenticated it deregisters and
// re-announces; from pending the handle was never registered, so only the
// transport goes down. Safe to call any number of times.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	wasAuthenticated := s.state == StateAuthenticated
	s.state = StateClosed
	s.mu.Unlock()

	if wasAuthenticated {
		snap := s.registry.Deregister(s.client)
		s.announcer.Announce(ctx, snap)
	}
	s.client.Close()
	s.log.InfoContext(ctx, "session - close - connection closed",
		logging.ConnID(s.client.ID()), logging.UserID(s.client.UserID()),
		slog.Bool("was_registered", wasAuthenticated))
}
