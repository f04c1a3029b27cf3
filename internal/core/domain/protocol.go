package domain

import "time"

const (
	TypePresence = "presence.update"
	TypeMessage  = "message.new"
)

// PresenceUpdate is pushed to every live connection on each registry change.
// Order of the online slice carries no meaning.
type PresenceUpdate struct {
	Type   string   `json:"type"` // "presence.update"
	Online []string `json:"online"`
}

// MessageEvent is pushed only to the recipient's live connections.
type MessageEvent struct {
	Type        string    `json:"type"` // "message.new"
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Text        string    `json:"text,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventFromOutbound converts a router event into its wire form.
func EventFromOutbound(ev OutboundMessage) MessageEvent {
	return MessageEvent{
		Type:        TypeMessage,
		ID:          ev.ID.String(),
		SenderID:    ev.SenderID.String(),
		RecipientID: ev.RecipientID.String(),
		Text:        ev.Text,
		ImageURL:    ev.ImageURL,
		CreatedAt:   ev.CreatedAt,
	}
}
