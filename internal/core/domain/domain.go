package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Email is the login credential,
// ID is what every other component keys on.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	ProfilePic   string
	CreatedAt    time.Time
}

// Message is one persisted direct message between two users.
type Message struct {
	ID          uuid.UUID
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Text        string
	ImageURL    string
	CreatedAt   time.Time
}

// OutboundMessage is the transient event handed to the message router
// after a message has been persisted. The router never stores it.
type OutboundMessage struct {
	ID          uuid.UUID
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Text        string
	ImageURL    string
	CreatedAt   time.Time
}

// OutboundFromMessage builds the router event for a freshly persisted message.
func OutboundFromMessage(m *Message) OutboundMessage {
	return OutboundMessage{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Text:        m.Text,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
	}
}

// RouteStatus is the aggregate outcome of one live-delivery attempt.
type RouteStatus string

const (
	// RouteQueued means the recipient had no live connections; the message
	// waits in Postgres until the next history fetch. Not an error.
	RouteQueued RouteStatus = "queued-for-later"
	// RouteDelivered means every live handle accepted the push.
	RouteDelivered RouteStatus = "delivered"
	// RoutePartial means at least one handle accepted and at least one failed.
	RoutePartial RouteStatus = "partial"
)

// RouteResult aggregates per-handle outcomes of a route() call.
type RouteResult struct {
	Status    RouteStatus
	Attempted int
	Failed    []string // connection ids that refused the push
}
