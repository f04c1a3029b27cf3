package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/services"
	"github.com/Tanmayraut16/Neon-Chat/internal/platform/logger"
	"github.com/Tanmayraut16/Neon-Chat/pkg/middleware"

	"github.com/google/uuid"
)

type AuthHandler struct {
	userSvc  services.IUserService
	tokenSvc *services.TokenService
	sessions contracts.SessionStore
	secure   bool // Secure cookie flag, off in development
}

func NewAuthHandler(u services.IUserService, t *services.TokenService, s contracts.SessionStore, secure bool) *AuthHandler {
	return &AuthHandler{userSvc: u, tokenSvc: t, sessions: s, secure: secure}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.userSvc.Signup(r.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.issueCookie(w, user.ID); err != nil {
		log.ErrorContext(r.Context(), "auth handler - signup - issue token failed", "err", err)
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeProfile(w, user)
	log.InfoContext(r.Context(), "auth handler - signup - user created", "user_id", user.ID.String())
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.WarnContext(r.Context(), "auth handler - login - rejected", "email", req.Email)
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err := h.issueCookie(w, user.ID); err != nil {
		log.ErrorContext(r.Context(), "auth handler - login - issue token failed", "err", err)
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}
	writeProfile(w, user)
	log.InfoContext(r.Context(), "auth handler - login - success", "user_id", user.ID.String())
}

// Logout revokes the presented token and clears the cookie. The revocation
// entry lives as long as the token could have, and the connection reaper
// picks it up to drop any sockets still riding on it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	jti, _ := r.Context().Value(middleware.TokenIDKey).(string)
	if jti != "" {
		if err := h.sessions.Revoke(r.Context(), jti, h.tokenSvc.Lifetime()); err != nil {
			log.ErrorContext(r.Context(), "auth handler - logout - revoke failed", "err", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	json.NewEncoder(w).Encode(map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := h.userSvc.Get(r.Context(), userID)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeProfile(w, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req struct {
		ProfilePic string `json:"profile_pic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.userSvc.UpdateProfilePic(r.Context(), userID, req.ProfilePic)
	if err != nil {
		log.ErrorContext(r.Context(), "auth handler - update profile - failed", "user_id", userID.String(), "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeProfile(w, user)
}

func (h *AuthHandler) issueCookie(w http.ResponseWriter, userID uuid.UUID) error {
	token, _, err := h.tokenSvc.GenerateToken(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenSvc.Lifetime().Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// callerID pulls the authenticated user id the middleware stored.
func callerID(r *http.Request) (uuid.UUID, bool) {
	raw, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeProfile(w http.ResponseWriter, u *domain.User) {
	json.NewEncoder(w).Encode(map[string]any{
		"id":          u.ID,
		"email":       u.Email,
		"full_name":   u.FullName,
		"profile_pic": u.ProfilePic,
		"created_at":  u.CreatedAt,
	})
}
