// Package server exposes the per-seller analysis as a read-only JSON API.
// One snapshot is loaded at startup; handlers never mutate it.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/delivery"
	"github.com/sells-group/seller-insights/internal/market"
)

// Server wires the loaded snapshot to the analysis engines behind HTTP.
type Server struct {
	snap       *dataset.Snapshot
	inv        *dataset.Inventory
	warehouses []dataset.Warehouse

	deliveries *delivery.Analyzer
	markets    *market.Analyzer

	maxCustomerPoints int
}

// Option tunes the server.
type Option func(*Server)

// WithMaxCustomerPoints caps the customer points returned by the logistics
// endpoint.
func WithMaxCustomerPoints(n int) Option {
	return func(s *Server) { s.maxCustomerPoints = n }
}

// New builds a Server over a loaded snapshot. inv and warehouses are
// optional; the delivery and logistics endpoints degrade gracefully
// without them.
func New(snap *dataset.Snapshot, inv *dataset.Inventory, warehouses []dataset.Warehouse, opts ...Option) *Server {
	s := &Server{
		snap:       snap,
		inv:        inv,
		warehouses: warehouses,
		deliveries: delivery.NewAnalyzer(snap),
		markets:    market.NewAnalyzer(snap),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/sellers", func(r chi.Router) {
		r.Get("/", s.handleListSellers)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleSeller)
			r.Get("/advice", s.handleAdvice)
			r.Get("/roadmap", s.handleRoadmap)
			r.Get("/delivery", s.handleDelivery)
			r.Get("/logistics", s.handleLogistics)
			r.Get("/market", s.handleMarket)
		})
	})
	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server listening", zap.Int("port", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server: shutdown")
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return eris.Wrap(err, "server: listen")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
