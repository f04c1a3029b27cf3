package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"

	"github.com/google/uuid"
)

type fakeClient struct {
	id     string
	userID string
	fail   bool
	mu     sync.Mutex
	sent   [][]byte
}

func (c *fakeClient) ID() string      { return c.id }
func (c *fakeClient) UserID() string  { return c.userID }
func (c *fakeClient) TokenID() string { return "tok-" + c.id }
func (c *fakeClient) Close()          {}

func (c *fakeClient) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return domain.ErrSendBufferFull
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeClient) frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.sent...)
}

// fakeRegistry serves a fixed handle map; mutations are not under test here.
type fakeRegistry struct {
	conns map[string][]contracts.Client
}

func (f *fakeRegistry) Register(contracts.Client) (contracts.PresenceSnapshot, error) {
	return contracts.PresenceSnapshot{}, errors.New("not implemented")
}
func (f *fakeRegistry) Deregister(contracts.Client) contracts.PresenceSnapshot {
	return contracts.PresenceSnapshot{}
}
func (f *fakeRegistry) ConnectionsFor(userID string) []contracts.Client { return f.conns[userID] }
func (f *fakeRegistry) OnlineUsers() []string {
	users := make([]string, 0, len(f.conns))
	for u := range f.conns {
		users = append(users, u)
	}
	return users
}
func (f *fakeRegistry) CloseAll() {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func outbound(recipient uuid.UUID) domain.OutboundMessage {
	return domain.OutboundMessage{
		ID:          uuid.New(),
		SenderID:    uuid.New(),
		RecipientID: recipient,
		Text:        "hello",
	}
}

func TestRouteOfflineRecipientQueuesWithoutPush(t *testing.T) {
	r := NewRouter(testLogger(), &fakeRegistry{conns: map[string][]contracts.Client{}})

	result := r.Route(context.Background(), outbound(uuid.New()))

	if result.Status != domain.RouteQueued {
		t.Fatalf("expected status %q, got %q", domain.RouteQueued, result.Status)
	}
	if result.Attempted != 0 || len(result.Failed) != 0 {
		t.Fatalf("offline route must attempt nothing: %+v", result)
	}
}

func TestRouteFansOutToEveryRecipientHandle(t *testing.T) {
	recipient := uuid.New()
	phone := &fakeClient{id: "h1", userID: recipient.String()}
	laptop := &fakeClient{id: "h2", userID: recipient.String()}
	reg := &fakeRegistry{conns: map[string][]contracts.Client{
		recipient.String(): {phone, laptop},
	}}
	r := NewRouter(testLogger(), reg)

	ev := outbound(recipient)
	result := r.Route(context.Background(), ev)

	if result.Status != domain.RouteDelivered {
		t.Fatalf("expected status %q, got %q", domain.RouteDelivered, result.Status)
	}
	if result.Attempted != 2 {
		t.Fatalf("expected 2 attempts, got %d", result.Attempted)
	}
	for _, c := range []*fakeClient{phone, laptop} {
		frames := c.frames()
		if len(frames) != 1 {
			t.Fatalf("%s: expected 1 frame, got %d", c.id, len(frames))
		}
		var event domain.MessageEvent
		if err := json.Unmarshal(frames[0], &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.Type != domain.TypeMessage {
			t.Fatalf("expected type %q, got %q", domain.TypeMessage, event.Type)
		}
		if event.ID != ev.ID.String() || event.Text != "hello" {
			t.Fatalf("event payload mismatch: %+v", event)
		}
	}
}

func TestRouteOneFailedHandleIsPartial(t *testing.T) {
	recipient := uuid.New()
	broken := &fakeClient{id: "h1", userID: recipient.String(), fail: true}
	healthy := &fakeClient{id: "h2", userID: recipient.String()}
	reg := &fakeRegistry{conns: map[string][]contracts.Client{
		recipient.String(): {broken, healthy},
	}}
	r := NewRouter(testLogger(), reg)

	result := r.Route(context.Background(), outbound(recipient))

	if result.Status != domain.RoutePartial {
		t.Fatalf("expected status %q, got %q", domain.RoutePartial, result.Status)
	}
	if len(result.Failed) != 1 || result.Failed[0] != "h1" {
		t.Fatalf("expected failed [h1], got %v", result.Failed)
	}
	if len(healthy.frames()) != 1 {
		t.Fatal("healthy handle must still receive its copy")
	}
}

func TestRouteAllHandlesFailedFallsBackToQueued(t *testing.T) {
	recipient := uuid.New()
	reg := &fakeRegistry{conns: map[string][]contracts.Client{
		recipient.String(): {
			&fakeClient{id: "h1", userID: recipient.String(), fail: true},
			&fakeClient{id: "h2", userID: recipient.String(), fail: true},
		},
	}}
	r := NewRouter(testLogger(), reg)

	result := r.Route(context.Background(), outbound(recipient))

	if result.Status != domain.RouteQueued {
		t.Fatalf("expected status %q, got %q", domain.RouteQueued, result.Status)
	}
	if result.Attempted != 2 || len(result.Failed) != 2 {
		t.Fatalf("expected both attempts recorded as failed: %+v", result)
	}
}
