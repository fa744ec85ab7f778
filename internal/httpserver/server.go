// Package httpserver exposes health, discovery and tool dispatch over HTTP.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/mwiater/orderbridge/internal/dispatch"
	"github.com/mwiater/orderbridge/internal/guard"
)

// maxBodyBytes bounds POST /mcp/call bodies.
const maxBodyBytes = 1 << 20

// Server is the HTTP surface of the bridge.
type Server struct {
	router     *chi.Mux
	dispatcher *dispatch.Dispatcher
	guard      *guard.Guard
	httpServer *http.Server
}

// Config for the server
type Config struct {
	Addr        string
	CORSOrigins []string
}

// New creates the router and registers every route.
func New(d *dispatch.Dispatcher, g *guard.Guard, cfg Config) *Server {
	if g == nil {
		g = guard.Open()
	}
	s := &Server{
		router:     chi.NewRouter(),
		dispatcher: d,
		guard:      g,
	}

	s.setupMiddleware(cfg)
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware(cfg Config) {
	s.router.Use(requestIDMiddleware)
	s.router.Use(middleware.RealIP)
	s.router.Use(loggingMiddleware)
	s.router.Use(recoveryMiddleware)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	allowed := []string{"Content-Type", "Authorization", "X-Request-ID"}
	if h := s.guard.Header(); h != "" {
		allowed = append(allowed, h)
	}
	// Preflights pass through to the OPTIONS routes, which answer 204.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:     origins,
		AllowedMethods:     []string{"GET", "POST", "OPTIONS", "PUT", "DELETE"},
		AllowedHeaders:     allowed,
		ExposedHeaders:     []string{"X-Request-ID"},
		MaxAge:             300,
		OptionsPassthrough: true,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthHandler)
	// OPTIONS, preflight or not, is answered 204 without a guard.
	s.router.Options("/health", noContent)

	s.router.Route("/mcp", func(r chi.Router) {
		r.Options("/discover", noContent)
		r.Options("/call", noContent)
		r.Get("/discover", s.discoverHandler)
		r.With(bodySizeLimitMiddleware(maxBodyBytes)).Post("/call", s.callHandler)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, "", &dispatch.Error{Kind: dispatch.KindNotFound, Details: "no route for " + r.Method + " " + r.URL.Path})
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, dispatch.Response{
			OK: false, Error: dispatch.KindBadRequest, Details: "method " + r.Method + " not allowed on " + r.URL.Path,
		})
	})
}

func noContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down within shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("HTTP server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
