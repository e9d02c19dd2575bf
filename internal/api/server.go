// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the HTTP router, middleware chain and domain handlers into
a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It is the composition root for the chi router; domains only export
    Routes() sub-routers.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/idolbase/internal/core/asset"
	"github.com/taibuivan/idolbase/internal/core/engagement"
	"github.com/taibuivan/idolbase/internal/core/gallery"
	"github.com/taibuivan/idolbase/internal/core/genre"
	"github.com/taibuivan/idolbase/internal/core/idol"
	"github.com/taibuivan/idolbase/internal/core/integrity"
	"github.com/taibuivan/idolbase/internal/core/photo"
	"github.com/taibuivan/idolbase/internal/core/video"
	"github.com/taibuivan/idolbase/internal/platform/config"
	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain HTTP handler sets.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Idol    *idol.Handler
	Genre   *genre.Handler
	Gallery *gallery.Handler
	Photo   *photo.Handler
	Video   *video.Handler

	Upload    *asset.Handler
	View      *engagement.Handler
	Integrity *integrity.Handler
}

// # Server Initialization

/*
NewServer builds the router with the full middleware chain.

Description: Authentication runs before the request logger so access logs
carry user_id. The origin check runs after CORS so preflights are answered
before it.
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()
	r.Use(Middleware(context, cfg, log, verifier)...)

	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Route("/api", func(api chi.Router) {
		api.Mount("/idols", h.Idol.Routes())
		api.Mount("/genres", h.Genre.Routes())
		api.Mount("/galleries", h.Gallery.Routes())
		api.Mount("/photos", h.Photo.Routes())
		api.Mount("/videos", h.Video.Routes())
		api.Mount("/uploads", h.Upload.Routes())
		api.Mount("/views", h.View.Routes())

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin)
			admin.Mount("/", h.Integrity.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Middleware returns the global chain in execution order.
func Middleware(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier) []func(http.Handler) http.Handler {
	limiter := middleware.NewRateLimiter(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.PanicRecovery(),
		middleware.Authenticate(verifier),
		middleware.StructuredLogger(log),
		chimw.Timeout(constants.GlobalRequestTimeout),
		limiter.Handler,
		middleware.CORS(cfg.TrustedOrigins(), cfg.IsDevelopment()),
		middleware.SameOrigin(cfg.TrustedOrigins()),
		chimw.CleanPath,
	}
}

// # Server Lifecycle

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
