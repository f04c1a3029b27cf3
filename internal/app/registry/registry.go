package registry

import (
	"log/slog"
	"sync"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
	"github.com/Tanmayraut16/Neon-Chat/pkg/logging"
)

// Registry is the in-memory map of live connections, keyed by user id.
// A user owns zero or more handles (one per open tab or device); the user
// counts as online while at least one handle remains.
//
// Every mutation happens under one mutex and stamps a generation number into
// the returned snapshot, so consumers can order snapshots without holding
// the lock.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]map[string]contracts.Client // user id → handle id → client
	owners map[string]string                      // handle id → user id
	gen    uint64
	log    *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]map[string]contracts.Client),
		owners: make(map[string]string),
		log:    log,
	}
}

// Register adds the handle under its owning user. Re-registering the same
// handle for the same user is idempotent. A handle id that already belongs
// to a different user is an internal-consistency fault: logged, rejected,
// no state touched.
func (h *Registry) Register(c contracts.Client) (contracts.PresenceSnapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if owner, ok := h.owners[c.ID()]; ok && owner != c.UserID() {
		h.log.Error("registry - register - handle owned by another user",
			logging.ConnID(c.ID()), logging.UserID(c.UserID()), slog.String("owner_id", owner))
		return contracts.PresenceSnapshot{}, domain.ErrHandleOwnership
	}
	if h.conns[c.UserID()] == nil {
		h.conns[c.UserID()] = make(map[string]contracts.Client)
	}
	h.conns[c.UserID()][c.ID()] = c
	h.owners[c.ID()] = c.UserID()
	h.gen++
	return h.snapshotLocked(), nil
}

// Deregister removes the handle from whichever user owns it. A handle that
// is already gone is a no-op; disconnect signals can arrive more than once.
// A handle mapped to a different user than the one presenting it is a
// consistency fault: logged, then removed anyway to restore the invariant.
func (h *Registry) Deregister(c contracts.Client) contracts.PresenceSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	owner, ok := h.owners[c.ID()]
	if !ok {
		h.gen++
		return h.snapshotLocked()
	}
	if owner != c.UserID() {
		h.log.Error("registry - deregister - handle mapped to unexpected user",
			logging.ConnID(c.ID()), logging.UserID(c.UserID()), slog.String("owner_id", owner))
	}
	delete(h.owners, c.ID())
	if set := h.conns[owner]; set != nil {
		delete(set, c.ID())
		if len(set) == 0 {
			delete(h.conns, owner)
		}
	}
	h.gen++
	return h.snapshotLocked()
}

// ConnectionsFor returns the user's current handles, possibly empty.
func (h *Registry) ConnectionsFor(userID string) []contracts.Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.conns[userID]
	if len(set) == 0 {
		return nil
	}
	out := make([]contracts.Client, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

// OnlineUsers returns every user with at least one live handle.
func (h *Registry) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.conns))
	for userID := range h.conns {
		out = append(out, userID)
	}
	return out
}

// CloseAll empties the registry and force-closes every handle. Called once
// at shutdown; sessions observing the close will deregister again, which is
// a harmless no-op by then.
func (h *Registry) CloseAll() {
	h.mu.Lock()
	var clients []contracts.Client
	for _, set := range h.conns {
		for _, c := range set {
			clients = append(clients, c)
		}
	}
	h.conns = make(map[string]map[string]contracts.Client)
	h.owners = make(map[string]string)
	h.gen++
	h.mu.Unlock()
	for _, c := range clients {
		c.Close()
	}
	h.log.Info("registry - close all - connections closed", slog.Int("count", len(clients)))
}

// snapshotLocked captures online users and all live handles under the lock.
func (h *Registry) snapshotLocked() contracts.PresenceSnapshot {
	snap := contracts.PresenceSnapshot{
		Gen:    h.gen,
		Online: make([]string, 0, len(h.conns)),
	}
	for userID, set := range h.conns {
		snap.Online = append(snap.Online, userID)
		for _, c := range set {
			snap.Targets = append(snap.Targets, c)
		}
	}
	return snap
}
