package handlers

import (
	"context"
	"net/http"

	"github.com/Tanmayraut16/Neon-Chat/internal/app/server/ws"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/platform/logger"
	"github.com/Tanmayraut16/Neon-Chat/pkg/middleware"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WSHandler is the connection lifecycle controller: it resolves the caller's
// identity from the handshake, upgrades the socket, and walks the session
// through pending → authenticated → closed.
type WSHandler struct {
	registry  contracts.Registry
	announcer contracts.Announcer
}

func NewWSHandler(registry contracts.Registry, announcer contracts.Announcer) *WSHandler {
	return &WSHandler{registry: registry, announcer: announcer}
}

func (s *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	span := trace.SpanFromContext(r.Context())

	// Identity comes from the handshake credential the auth middleware
	// validated. Missing identity is a handshake rejection, not a runtime
	// error: the connection is refused before anything is registered.
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		log.ErrorContext(r.Context(), "ws handler - handshake rejected - missing user id")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	tokenID, _ := r.Context().Value(middleware.TokenIDKey).(string)
	span.SetAttributes(attribute.String("user.id", userID))

	// The session must outlive the HTTP request context.
	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)
	defer cancel()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten later
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade failed", "err", err)
		return
	}

	websock := ws.NewWebSocket(ctx, conn)
	client := ws.NewClient(ctx, websock, userID, tokenID)
	session := ws.NewSession(log, s.registry, s.announcer, client)

	if err := session.Authenticate(ctx); err != nil {
		log.ErrorContext(r.Context(), "ws handler - register rejected", "user_id", userID, "err", err)
		return
	}
	defer session.Close(ctx)
	span.SetAttributes(attribute.String("chat.conn_id", client.ID()))
	log.InfoContext(r.Context(), "ws handler - connection established", "user_id", userID, "conn_id", client.ID())

	// Blocks until the peer goes away; inbound frames only feed liveness.
	websock.ReadLoop(nil)
}
