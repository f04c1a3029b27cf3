package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/pkg/logging"
)

// Reaper force-closes live connections whose session token has been revoked
// since the handshake. Logout revokes the jti; the next sweep tears the
// socket down, the session observes the close and deregisters.
type Reaper struct {
	log      *slog.Logger
	registry contracts.Registry
	sessions contracts.SessionStore
	interval time.Duration
}

func NewReaper(
	log *slog.Logger,
	registry contracts.Registry,
	sessions contracts.SessionStore,
	interval time.Duration,
) *Reaper {
	return &Reaper{
		log:      log,
		registry: registry,
		sessions: sessions,
		interval: interval,
	}
}

// Run sweeps on a ticker until the context ends.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Info("reaper - run - stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep checks every live handle's token against the revocation store.
// Store errors skip the handle; a connection is never dropped on a lookup
// failure.
func (r *Reaper) Sweep(ctx context.Context) {
	for _, userID := range r.registry.OnlineUsers() {
		for _, c := range r.registry.ConnectionsFor(userID) {
			revoked, err := r.sessions.IsRevoked(ctx, c.TokenID())
			if err != nil {
				r.log.WarnContext(ctx, "reaper - sweep - revocation lookup failed",
					logging.ConnID(c.ID()), logging.Err(err))
				continue
			}
			if revoked {
				r.log.InfoContext(ctx, "reaper - sweep - closing revoked connection",
					logging.ConnID(c.ID()), logging.UserID(c.UserID()))
				c.Close()
			}
		}
	}
}
