package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gufronnakaaw/jujurly-backend/internal/config"
	"github.com/gufronnakaaw/jujurly-backend/internal/database"
	"github.com/gufronnakaaw/jujurly-backend/internal/live"
	"github.com/gufronnakaaw/jujurly-backend/internal/rooms"
	"github.com/gufronnakaaw/jujurly-backend/internal/stats"
)

type App struct {
	log            *log.Logger
	db             database.JujurlyRepository
	rooms          *rooms.Service
	live           *live.Hub
	stats          stats.StatsProvider
	mux            *http.Server
	signingKey     []byte
	allowedOrigins []string
}

func NewApp(mux *http.ServeMux, logger *log.Logger, db database.JujurlyRepository,
	roomService *rooms.Service, hub *live.Hub, statsProvider stats.StatsProvider,
	cfg *config.Config) *App {
	s := &App{
		log:            logger,
		db:             db,
		rooms:          roomService,
		live:           hub,
		stats:          statsProvider,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("POST /api/v1/users/register", s.register)
	mux.HandleFunc("POST /api/v1/users/login", s.login)
	mux.Handle("POST /api/v1/rooms", s.authMiddleware(s.createRoom))
	mux.Handle("DELETE /api/v1/rooms", s.authMiddleware(s.deleteRoom))
	mux.Handle("GET /api/v1/rooms", s.authMiddleware(s.getRooms))
	mux.Handle("PATCH /api/v1/rooms", s.authMiddleware(s.updateRoom))
	mux.Handle("POST /api/v1/rooms/votes", s.authMiddleware(s.createVote))
	mux.HandleFunc("POST /api/v1/admin/login", s.adminLogin)
	mux.Handle("GET /api/v1/admin/dashboard", s.apiTokenMiddleware(s.adminDashboard))
	mux.Handle("GET /api/v1/admin/users", s.apiTokenMiddleware(s.adminUsers))
	mux.Handle("GET /api/v1/admin/rooms", s.apiTokenMiddleware(s.adminRooms))
	mux.Handle("GET /api/v1/admin/logs", s.apiTokenMiddleware(s.adminLogs))
	mux.Handle("DELETE /api/v1/admin/users", s.apiTokenMiddleware(s.adminDeleteUser))
	mux.Handle("DELETE /api/v1/admin/rooms", s.apiTokenMiddleware(s.adminDeleteRoom))
	mux.Handle("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization", "api_token"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *App) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *App) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
