// Package api exposes the canned reports as a read-only JSON API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/reports"
	"golang.org/x/sync/errgroup"
)

// Querier runs a report against the database.
type Querier interface {
	RunReport(ctx context.Context, r reports.Report, args ...any) (*database.QueryResult, error)
}

// Config holds configuration for the API server.
type Config struct {
	Querier        Querier
	Listen         string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server is the REST API server.
type Server struct {
	querier        Querier
	listen         string
	allowedOrigins []string
	logger         *slog.Logger
}

// NewServer creates a new API server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		querier:        cfg.Querier,
		listen:         cfg.Listen,
		allowedOrigins: cfg.AllowedOrigins,
		logger:         logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}),
	)

	h := &handlers{querier: s.querier, logger: s.logger}
	r.Get("/", h.root)
	r.Route("/mascotas", func(r chi.Router) {
		r.Get("/", h.report(reports.Pets))
		r.Route("/{chip_id}", func(r chi.Router) {
			r.Get("/", h.pet)
			r.Get("/vacunas", h.petReport(reports.PetVaccines))
			r.Get("/tratamientos", h.petReport(reports.PetTreatments))
			r.Get("/derivaciones", h.petReport(reports.PetReferrals))
		})
	})
	r.Get("/sucursales", h.report(reports.Branches))
	r.Get("/reportes/mascotas-por-campus", h.report(reports.PetsPerCampus))
	r.Get("/tratamientos", h.report(reports.TreatmentsDone))
	r.Get("/inventario/comida", h.foodInventory)
	r.Get("/inventario/medicamentos", h.report(reports.MedicineInventory))

	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting API server", slog.String("addr", s.listen))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.listen,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
