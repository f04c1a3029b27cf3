package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
)

// PresenceHandler serves the online set over REST, for clients that want a
// "who's online" answer without holding a socket open. Read-only view of
// the registry; it never mutates anything.
type PresenceHandler struct {
	registry contracts.Registry
}

func NewPresenceHandler(registry contracts.Registry) *PresenceHandler {
	return &PresenceHandler{registry: registry}
}

func (h *PresenceHandler) Online(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"online": h.registry.OnlineUsers(),
	})
}
