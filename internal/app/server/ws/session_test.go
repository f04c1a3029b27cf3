package ws

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
)

type fakeClient struct {
	id     string
	userID string
	mu     sync.Mutex
	closed bool
}

func (c *fakeClient) ID() string                         { return c.id }
func (c *fakeClient) UserID() string                     { return c.userID }
func (c *fakeClient) TokenID() string                    { return "tok-" + c.id }
func (c *fakeClient) Send(context.Context, []byte) error { return nil }

func (c *fakeClient) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeRegistry struct {
	mu           sync.Mutex
	gen          uint64
	registerErr  error
	registered   int
	deregistered int
}

func (f *fakeRegistry) Register(c contracts.Client) (contracts.PresenceSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return contracts.PresenceSnapshot{}, f.registerErr
	}
	f.registered++
	f.gen++
	return contracts.PresenceSnapshot{Gen: f.gen, Online: []string{c.UserID()}}, nil
}

func (f *fakeRegistry) Deregister(c contracts.Client) contracts.PresenceSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deregistered++
	f.gen++
	return contracts.PresenceSnapshot{Gen: f.gen}
}

func (f *fakeRegistry) ConnectionsFor(string) []contracts.Client { return nil }
func (f *fakeRegistry) OnlineUsers() []string                    { return nil }
func (f *fakeRegistry) CloseAll()                                {}

func (f *fakeRegistry) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registered, f.deregistered
}

type fakeAnnouncer struct {
	mu    sync.Mutex
	snaps []contracts.PresenceSnapshot
}

func (f *fakeAnnouncer) Announce(ctx context.Context, snap contracts.PresenceSnapshot) {
	f.mu.Lock()
	f.snaps = append(f.snaps, snap)
	f.mu.Unlock()
}

func (f *fakeAnnouncer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snaps)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthenticateRegistersThenAnnounces(t *testing.T) {
	reg := &fakeRegistry{}
	ann := &fakeAnnouncer{}
	s := NewSession(testLogger(), reg, ann, &fakeClient{id: "h1", userID: "alice"})

	if err := s.Authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("expected state authenticated, got %v", s.State())
	}
	registered, _ := reg.counts()
	if registered != 1 {
		t.Fatalf("expected 1 register, got %d", registered)
	}
	if ann.count() != 1 {
		t.Fatalf("expected 1 announcement, got %d", ann.count())
	}
}

func TestAuthenticateTwiceIsRejected(t *testing.T) {
	reg := &fakeRegistry{}
	ann := &fakeAnnouncer{}
	s := NewSession(testLogger(), reg, ann, &fakeClient{id: "h1", userID: "alice"})

	if err := s.Authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := s.Authenticate(context.Background()); err != domain.ErrHandshakeRejected {
		t.Fatalf("expected ErrHandshakeRejected, got %v", err)
	}
	registered, _ := reg.counts()
	if registered != 1 {
		t.Fatalf("second authenticate must not register again, got %d", registered)
	}
}

func TestAuthenticateRegistryRejectionClosesWithoutAnnounce(t *testing.T) {
	reg := &fakeRegistry{registerErr: domain.ErrHandleOwnership}
	ann := &fakeAnnouncer{}
	client := &fakeClient{id: "h1", userID: "bob"}
	s := NewSession(testLogger(), reg, ann, client)

	if err := s.Authenticate(context.Background()); err != domain.ErrHandleOwnership {
		t.Fatalf("expected ErrHandleOwnership, got %v", err)
	}
	if s.State() != StateClosed {
		t.Fatalf("expected state closed, got %v", s.State())
	}
	if !client.isClosed() {
		t.Fatal("client transport must be closed on rejection")
	}
	if ann.count() != 0 {
		t.Fatalf("rejected session must never be announced, got %d announcements", ann.count())
	}
}

func TestCloseFromPendingSkipsDeregister(t *testing.T) {
	reg := &fakeRegistry{}
	ann := &fakeAnnouncer{}
	client := &fakeClient{id: "h1", userID: "alice"}
	s := NewSession(testLogger(), reg, ann, client)

	s.Close(context.Background())

	if s.State() != StateClosed {
		t.Fatalf("expected state closed, got %v", s.State())
	}
	if _, deregistered := reg.counts(); deregistered != 0 {
		t.Fatalf("pending session was never registered, got %d deregisters", deregistered)
	}
	if ann.count() != 0 {
		t.Fatalf("pending close must not announce, got %d", ann.count())
	}
	if !client.isClosed() {
		t.Fatal("client transport must be closed")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	reg := &fakeRegistry{}
	ann := &fakeAnnouncer{}
	s := NewSession(testLogger(), reg, ann, &fakeClient{id: "h1", userID: "alice"})

	if err := s.Authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	s.Close(context.Background())
	s.Close(context.Background())
	s.Close(context.Background())

	if _, deregistered := reg.counts(); deregistered != 1 {
		t.Fatalf("expected exactly 1 deregister, got %d", deregistered)
	}
	if ann.count() != 2 {
		t.Fatalf("expected 2 announcements (register, close), got %d", ann.count())
	}
}

func TestAuthenticateAfterCloseIsRejected(t *testing.T) {
	reg := &fakeRegistry{}
	ann := &fakeAnnouncer{}
	s := NewSession(testLogger(), reg, ann, &fakeClient{id: "h1", userID: "alice"})

	s.Close(context.Background())
	if err := s.Authenticate(context.Background()); err != domain.ErrHandshakeRejected {
		t.Fatalf("a handle is single-use, expected ErrHandshakeRejected, got %v", err)
	}
	if registered, _ := reg.counts(); registered != 0 {
		t.Fatalf("closed session must never register, got %d", registered)
	}
}
