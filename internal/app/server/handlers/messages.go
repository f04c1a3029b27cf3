package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/services"
	"github.com/Tanmayraut16/Neon-Chat/internal/platform/logger"

	"github.com/google/uuid"
)

type MessageHandler struct {
	msgSvc  services.IMessageService
	userSvc services.IUserService
}

func NewMessageHandler(m services.IMessageService, u services.IUserService) *MessageHandler {
	return &MessageHandler{msgSvc: m, userSvc: u}
}

// Roster lists every other user, for the sidebar.
func (h *MessageHandler) Roster(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	users, err := h.userSvc.Roster(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load users", http.StatusInternalServerError)
		return
	}
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{
			"id":          u.ID,
			"email":       u.Email,
			"full_name":   u.FullName,
			"profile_pic": u.ProfilePic,
		})
	}
	json.NewEncoder(w).Encode(out)
}

func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	otherID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	msgs, err := h.msgSvc.History(r.Context(), userID, otherID)
	if err != nil {
		http.Error(w, "failed to load messages", http.StatusInternalServerError)
		return
	}
	out := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageJSON(&m))
	}
	json.NewEncoder(w).Encode(out)
}

// Send persists the message; live delivery runs inside the service as a
// post-persist hook whose outcome never changes this response.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	recipientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid recipient id", http.StatusBadRequest)
		return
	}
	var req struct {
		Text  string `json:"text"`
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	msg, err := h.msgSvc.Send(r.Context(), userID, recipientID, req.Text, req.Image)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMessage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.ErrorContext(r.Context(), "message handler - send - failed", "err", err)
		http.Error(w, "failed to send message", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(messageJSON(msg))
}

func messageJSON(m *domain.Message) map[string]any {
	return map[string]any{
		"id":           m.ID,
		"sender_id":    m.SenderID,
		"recipient_id": m.RecipientID,
		"text":         m.Text,
		"image_url":    m.ImageURL,
		"created_at":   m.CreatedAt,
	}
}
