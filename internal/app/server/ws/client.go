package ws

import (
	"context"
	"sync"
	"time"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"

	"github.com/google/uuid"
)

const (
	sendBuffer   = 256
	pingInterval = 30 * time.Second
)

// RuntimeClient is one live connection handle: an id, its owning user, and
// a buffered outbound queue drained by a single write loop. Send never
// blocks — a full buffer means this handle is too slow and loses the frame.
type RuntimeClient struct {
	ctx       context.Context
	cancel    context.CancelFunc
	ws        *WebSocket
	id        string
	userID    string
	tokenID   string
	createdAt time.Time
	out       chan []byte
	once      sync.Once
}

func NewClient(parent context.Context, ws *WebSocket, userID, tokenID string) *RuntimeClient {
	ctx, cancel := context.WithCancel(parent)
	c := &RuntimeClient{
		ctx:       ctx,
		cancel:    cancel,
		ws:        ws,
		id:        uuid.NewString(),
		userID:    userID,
		tokenID:   tokenID,
		createdAt: time.Now(),
		out:       make(chan []byte, sendBuffer),
	}
	go c.writeLoop()
	return c
}

func (c *RuntimeClient) ID() string           { return c.id }
func (c *RuntimeClient) UserID() string       { return c.userID }
func (c *RuntimeClient) TokenID() string      { return c.tokenID }
func (c *RuntimeClient) CreatedAt() time.Time { return c.createdAt }

func (c *RuntimeClient) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.ctx.Done():
		return domain.ErrConnectionClosed
	default:
	}
	select {
	case c.out <- data:
		return nil
	default:
		return domain.ErrSendBufferFull
	}
}

func (c *RuntimeClient) Close() {
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *RuntimeClient) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			if err := c.ws.WriteMessage(data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WritePing(); err != nil {
				return
			}
		}
	}
}
