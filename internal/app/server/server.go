package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Tanmayraut16/Neon-Chat/internal/app/server/handlers"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/services"
	"github.com/Tanmayraut16/Neon-Chat/pkg/middleware"
)

type Server struct {
	mux             *http.ServeMux
	log             *slog.Logger
	name            string
	addr            string
	authHandler     *handlers.AuthHandler
	messageHandler  *handlers.MessageHandler
	presenceHandler *handlers.PresenceHandler
	wsHandler       *handlers.WSHandler
	tokenSvc        *services.TokenService
	sessions        contracts.SessionStore
	registry        contracts.Registry
}

func NewServer(
	log *slog.Logger,
	name string,
	addr string,
	secureCookies bool,
	userSvc services.IUserService,
	msgSvc services.IMessageService,
	tokenSvc *services.TokenService,
	sessions contracts.SessionStore,
	registry contracts.Registry,
	announcer contracts.Announcer,
) *Server {
	s := &Server{
		mux:             http.NewServeMux(),
		log:             log,
		name:            name,
		addr:            addr,
		authHandler:     handlers.NewAuthHandler(userSvc, tokenSvc, sessions, secureCookies),
		messageHandler:  handlers.NewMessageHandler(msgSvc, userSvc),
		presenceHandler: handlers.NewPresenceHandler(registry),
		wsHandler:       handlers.NewWSHandler(registry, announcer),
		tokenSvc:        tokenSvc,
		sessions:        sessions,
		registry:        registry,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	auth := middleware.AuthMiddleware(s.tokenSvc, s.sessions)

	// Public
	s.mux.HandleFunc("POST /api/auth/signup", s.authHandler.Signup)
	s.mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)

	// Protected
	s.mux.Handle("POST /api/auth/logout", auth(http.HandlerFunc(s.authHandler.Logout)))
	s.mux.Handle("GET /api/auth/me", auth(http.HandlerFunc(s.authHandler.Me)))
	s.mux.Handle("PUT /api/auth/profile", auth(http.HandlerFunc(s.authHandler.UpdateProfile)))
	s.mux.Handle("GET /api/messages/users", auth(http.HandlerFunc(s.messageHandler.Roster)))
	s.mux.Handle("GET /api/messages/{id}", auth(http.HandlerFunc(s.messageHandler.History)))
	s.mux.Handle("POST /api/messages/send/{id}", auth(http.HandlerFunc(s.messageHandler.Send)))
	s.mux.Handle("GET /api/presence", auth(http.HandlerFunc(s.presenceHandler.Online)))

	// The real-time handshake carries the same credential as the REST API;
	// the middleware resolves identity before the upgrade.
	s.mux.Handle("/ws", auth(http.HandlerFunc(s.wsHandler.Handler)))
}

// Start serves until the context is canceled, then drains HTTP and
// force-closes every live WebSocket so sessions deregister deterministically.
func (s *Server) Start(ctx context.Context) error {
	handler := middleware.RequestLogger(s.log)(middleware.TracerMiddleware(s.name)(s.mux))
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("server - start - listening", slog.String("addr", s.addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.registry.CloseAll()
		return err
	}
}
