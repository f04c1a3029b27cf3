package presence

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
	"github.com/Tanmayraut16/Neon-Chat/pkg/logging"
)

// Broadcaster fans the current online set out to every live connection.
// Snapshots carry the registry generation that produced them; anything older
// than the last delivered generation is dropped, so concurrent
// connect/disconnect bursts cannot reorder announcements for an observer.
type Broadcaster struct {
	mu      sync.Mutex
	lastGen uint64
	log     *slog.Logger
}

func NewBroadcaster(log *slog.Logger) *Broadcaster {
	return &Broadcaster{log: log}
}

// Announce pushes the snapshot's online set to every handle in it. A handle
// that refuses the frame (closed, buffer full) is logged and skipped; one
// broken connection never aborts delivery to the rest.
func (b *Broadcaster) Announce(ctx context.Context, snap contracts.PresenceSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if snap.Gen <= b.lastGen {
		b.log.Debug("presence - announce - stale snapshot dropped",
			slog.Uint64("gen", snap.Gen), slog.Uint64("last_gen", b.lastGen))
		return
	}
	b.lastGen = snap.Gen

	data, err := json.Marshal(domain.PresenceUpdate{
		Type:   domain.TypePresence,
		Online: snap.Online,
	})
	if err != nil {
		b.log.ErrorContext(ctx, "presence - announce - marshal failed", logging.Err(err))
		return
	}
	for _, c := range snap.Targets {
		if err := c.Send(ctx, data); err != nil {
			b.log.WarnContext(ctx, "presence - announce - push failed",
				logging.ConnID(c.ID()), logging.UserID(c.UserID()), logging.Err(err))
		}
	}
}
