package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hallworld/hallgate/internal/adapters/http/handlers"
	"github.com/hallworld/hallgate/internal/adapters/http/middleware"
	"github.com/hallworld/hallgate/internal/config"
	"github.com/hallworld/hallgate/internal/ports"
)

type Server struct {
	config     *config.Config
	version    string
	router     *chi.Mux
	httpServer *http.Server
	tokens     ports.TokenIssuer
	rooms      ports.RoomService
	idGen      ports.IDGenerator
	hub        *handlers.CallHub
}

func NewServer(
	cfg *config.Config,
	version string,
	tokens ports.TokenIssuer,
	rooms ports.RoomService,
	idGen ports.IDGenerator,
	hub *handlers.CallHub,
) *Server {
	s := &Server{
		config:  cfg,
		version: version,
		tokens:  tokens,
		rooms:   rooms,
		idGen:   idGen,
		hub:     hub,
	}

	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.Metrics)

	limiter := middleware.NewRateLimiter(s.config.Server.RateLimitRPS, s.config.Server.RateLimitBurst)
	r.Use(limiter.Middleware)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/", handlers.Root)

	healthHandler := handlers.NewHealthHandler(s.version, s.config, s.rooms)
	r.Get("/health", healthHandler.Handle)
	r.Get("/health/detailed", healthHandler.HandleDetailed)
	r.Handle("/metrics", promhttp.Handler())

	tokenHandler := handlers.NewTokenHandler(s.tokens)
	r.Post("/api/get-livekit-token", tokenHandler.Issue)

	roomsHandler := handlers.NewRoomsHandler(s.rooms, s.hub, s.idGen)
	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", roomsHandler.Create)
		r.Get("/", roomsHandler.List)
		r.Get("/{room}", roomsHandler.Get)
		r.Delete("/{room}", roomsHandler.Delete)
		r.With(middleware.RequireIdentity).Post("/{room}/notify", roomsHandler.Notify)
	})

	wsHandler := handlers.NewWSHandler(s.hub, s.config.Server.CORSOrigins)
	r.Get("/ws/calls", wsHandler.Subscribe)

	webhookHandler := handlers.NewWebhookHandler(s.config.LiveKit.APIKey, s.config.LiveKit.APISecret, s.hub)
	r.Post("/webhooks/livekit", webhookHandler.Receive)

	s.router = r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for WebSocket subscribers
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting HTTP server on %s", addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *chi.Mux {
	return s.router
}
