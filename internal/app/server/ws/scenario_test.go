package ws

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Tanmayraut16/Neon-Chat/internal/app/delivery"
	"github.com/Tanmayraut16/Neon-Chat/internal/app/presence"
	"github.com/Tanmayraut16/Neon-Chat/internal/app/registry"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"

	"github.com/google/uuid"
)

// recClient records every frame pushed to it so the scenario below can assert
// exactly what each device saw and in which order.
type recClient struct {
	id     string
	userID string
	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func (c *recClient) ID() string      { return c.id }
func (c *recClient) UserID() string  { return c.userID }
func (c *recClient) TokenID() string { return "tok-" + c.id }

func (c *recClient) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrConnectionClosed
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *recClient) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *recClient) frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.sent...)
}

func decodeFrame(t *testing.T, data []byte) (string, map[string]any) {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	typ, _ := raw["type"].(string)
	return typ, raw
}

func onlineFrom(t *testing.T, raw map[string]any) []string {
	t.Helper()
	list, ok := raw["online"].([]any)
	if !ok {
		t.Fatalf("frame has no online list: %v", raw)
	}
	users := make([]string, 0, len(list))
	for _, v := range list {
		users = append(users, v.(string))
	}
	return users
}

// Two users connect, exchange a message, and disconnect. Exercises the real
// registry, broadcaster, and router together through the session lifecycle.
func TestTwoUserConnectChatDisconnect(t *testing.T) {
	ctx := context.Background()
	log := testLogger()
	hub := registry.NewRegistry(log)
	announcer := presence.NewBroadcaster(log)
	router := delivery.NewRouter(log, hub)

	aliceID := uuid.New()
	bobID := uuid.New()
	aliceConn := &recClient{id: "h1", userID: aliceID.String()}
	bobConn := &recClient{id: "h2", userID: bobID.String()}

	aliceSession := NewSession(log, hub, announcer, aliceConn)
	if err := aliceSession.Authenticate(ctx); err != nil {
		t.Fatalf("alice authenticate: %v", err)
	}
	frames := aliceConn.frames()
	if len(frames) != 1 {
		t.Fatalf("alice expected her own presence frame, got %d frames", len(frames))
	}
	if typ, raw := decodeFrame(t, frames[0]); typ != "presence.update" || len(onlineFrom(t, raw)) != 1 {
		t.Fatalf("expected presence.update with only alice, got %s %v", typ, raw)
	}

	bobSession := NewSession(log, hub, announcer, bobConn)
	if err := bobSession.Authenticate(ctx); err != nil {
		t.Fatalf("bob authenticate: %v", err)
	}
	// Both devices see the two-user online set.
	for _, c := range []*recClient{aliceConn, bobConn} {
		frames := c.frames()
		typ, raw := decodeFrame(t, frames[len(frames)-1])
		if typ != "presence.update" {
			t.Fatalf("%s: expected presence.update, got %s", c.id, typ)
		}
		if got := onlineFrom(t, raw); len(got) != 2 {
			t.Fatalf("%s: expected 2 users online, got %v", c.id, got)
		}
	}

	// Bob messages alice: only alice's device gets the push.
	msgID := uuid.New()
	result := router.Route(ctx, domain.OutboundMessage{
		ID: msgID, SenderID: bobID, RecipientID: aliceID, Text: "hi",
	})
	if result.Status != domain.RouteDelivered {
		t.Fatalf("expected delivered, got %q", result.Status)
	}
	aliceFrames := aliceConn.frames()
	typ, raw := decodeFrame(t, aliceFrames[len(aliceFrames)-1])
	if typ != "message.new" || raw["id"] != msgID.String() || raw["text"] != "hi" {
		t.Fatalf("alice expected the message push, got %s %v", typ, raw)
	}
	for _, f := range bobConn.frames() {
		if typ, _ := decodeFrame(t, f); typ == "message.new" {
			t.Fatal("sender's device must not receive the push")
		}
	}

	// Alice disconnects: bob learns she is gone, her closed handle gets nothing.
	aliceFramesBefore := len(aliceConn.frames())
	aliceSession.Close(ctx)
	if got := hub.OnlineUsers(); len(got) != 1 || got[0] != bobID.String() {
		t.Fatalf("expected only bob online, got %v", got)
	}
	bobFrames := bobConn.frames()
	typ, raw = decodeFrame(t, bobFrames[len(bobFrames)-1])
	if typ != "presence.update" {
		t.Fatalf("bob expected a presence update, got %s", typ)
	}
	if got := onlineFrom(t, raw); len(got) != 1 || got[0] != bobID.String() {
		t.Fatalf("bob expected online [bob], got %v", got)
	}
	if len(aliceConn.frames()) != aliceFramesBefore {
		t.Fatal("closed handle must receive no further frames")
	}

	bobSession.Close(ctx)
	if got := hub.OnlineUsers(); len(got) != 0 {
		t.Fatalf("expected empty online set, got %v", got)
	}
}
