package contracts

import (
	"context"
	"time"
)

// SessionStore tracks revoked token ids. Logout writes the token's jti here
// with its remaining lifetime; the auth middleware and the connection reaper
// both check it.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
