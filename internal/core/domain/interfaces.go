package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository handles the persistent identity.
type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfilePic(ctx context.Context, id uuid.UUID, url string) error
	// ListOthers returns every user except the caller, for the roster.
	ListOthers(ctx context.Context, exclude uuid.UUID) ([]User, error)
}

// MessageRepository handles message persistence and history retrieval.
// Live delivery is not its concern; the router handles that after Save.
type MessageRepository interface {
	Save(ctx context.Context, m *Message) error
	// ListBetween returns the two-party conversation, oldest first.
	ListBetween(ctx context.Context, a, b uuid.UUID) ([]Message, error)
}
