package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/boatlog/internal/service"
)

// Services groups the domain services the HTTP API exposes.
type Services struct {
	Bookings  *service.BookingService
	Inventory *service.InventoryService
	Logs      *service.LogService
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Limiter decides whether a client key may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type Server struct {
	bookings  *service.BookingService
	inventory *service.InventoryService
	logs      *service.LogService
	db        Pinger
	limiter   Limiter
	validate  *validator.Validate
	mux       *http.ServeMux
	handler   http.Handler
	logger    *slog.Logger
}

// NewServer builds the API. limiter may be nil, which disables rate limiting.
func NewServer(svc Services, db Pinger, limiter Limiter, logger *slog.Logger) *Server {
	s := &Server{
		bookings:  svc.Bookings,
		inventory: svc.Inventory,
		logs:      svc.Logs,
		db:        db,
		limiter:   limiter,
		validate:  newValidator(),
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()

	var h http.Handler = s.mux
	h = securityHeaders(h)
	if limiter != nil {
		h = rateLimit(limiter, h)
	}
	h = requestLogger(logger, h)
	s.handler = withRequestID(h)
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /bookings", s.handleListBookings)
	s.mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	s.mux.HandleFunc("GET /bookings/availability", s.handleCheckAvailability)
	s.mux.HandleFunc("GET /bookings/{id}", s.handleGetBooking)
	s.mux.HandleFunc("PUT /bookings/{id}", s.handleUpdateBooking)
	s.mux.HandleFunc("DELETE /bookings/{id}", s.handleDeleteBooking)

	s.mux.HandleFunc("GET /inventory", s.handleListInventory)
	s.mux.HandleFunc("POST /inventory", s.handleCreateInventory)
	s.mux.HandleFunc("GET /inventory/to-buy", s.handleListToBuy)
	s.mux.HandleFunc("GET /inventory/{id}", s.handleGetInventory)
	s.mux.HandleFunc("PUT /inventory/{id}", s.handleUpdateInventory)
	s.mux.HandleFunc("DELETE /inventory/{id}", s.handleDeleteInventory)
	s.mux.HandleFunc("PATCH /inventory/{id}/toggle-to-buy", s.handleToggleToBuy)

	s.mux.HandleFunc("GET /logs", s.handleListLogs)
	s.mux.HandleFunc("POST /logs", s.handleCreateLog)
	s.mux.HandleFunc("GET /logs/{id}", s.handleGetLog)
	s.mux.HandleFunc("PUT /logs/{id}", s.handleUpdateLog)
	s.mux.HandleFunc("DELETE /logs/{id}", s.handleDeleteLog)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		logFromRequest(s.logger, r).Error("health check failed", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestIDFromContext(r.Context()),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// parseID reads the {id} path value as a base-10 integer.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
