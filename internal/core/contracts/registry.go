package contracts

import (
	"context"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
)

// PresenceSnapshot is the registry's state captured atomically inside one
// mutation. Gen grows with every mutation, so a consumer can tell which of
// two snapshots is newer without holding the registry lock.
type PresenceSnapshot struct {
	Gen     uint64
	Online  []string
	Targets []Client // every live connection at snapshot time
}

// Registry is the authoritative map from user id to that user's live
// connections. It is the single source of truth for "is user X online";
// nothing else may keep a competing copy of this state.
type Registry interface {
	// Register adds the handle under its owning user. It returns
	// domain.ErrHandleOwnership if the handle id is already registered to a
	// different user; re-registering the same handle for the same user is
	// idempotent. The snapshot reflects the post-mutation state.
	Register(c Client) (PresenceSnapshot, error)
	// Deregister removes the handle from whichever user owns it. Removing a
	// handle that is already gone is a no-op; disconnects race with cleanup.
	Deregister(c Client) PresenceSnapshot
	// ConnectionsFor returns the user's current handles, possibly empty.
	ConnectionsFor(userID string) []Client
	// OnlineUsers returns every user owning at least one handle.
	OnlineUsers() []string
	// CloseAll force-closes every registered handle. Used at shutdown.
	CloseAll()
}

// Client is the minimal surface the registry, broadcaster, and router need
// to talk to one live connection.
type Client interface {
	ID() string
	UserID() string
	TokenID() string
	// Send queues a frame without blocking; a full buffer is an error for
	// this handle only.
	Send(ctx context.Context, data []byte) error
	Close()
}

// Announcer pushes the current online set to every live connection.
type Announcer interface {
	Announce(ctx context.Context, snap PresenceSnapshot)
}

// Router delivers a persisted message to the recipient's live connections.
type Router interface {
	Route(ctx context.Context, ev domain.OutboundMessage) domain.RouteResult
}
