package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/iac-cost/pkg/handlers/estimate"
	iaccostmiddleware "github.com/de-tools/iac-cost/pkg/server/middleware"
	"github.com/de-tools/iac-cost/pkg/store/duckdb/reports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const DefaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Estimator handlers.Estimator
	Archive   reports.Store
	Prices    handlers.PriceLookup
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter mounts the estimate API under /api/v1 and the Prometheus
// scrape endpoint at /metrics.
func ConfigureRouter(logger zerolog.Logger, deps Dependencies) *chi.Mux {
	estimateHandler := handlers.NewHandler(deps.Estimator, deps.Archive, deps.Prices)

	router := chi.NewRouter()

	router.Use(iaccostmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(iaccostmiddleware.Metrics)

		r.Post("/estimates", estimateHandler.CreateEstimate)
		r.Get("/estimates", estimateHandler.ListEstimates)
		r.Get("/estimates/{id}", estimateHandler.GetEstimate)
		r.Get("/prices", estimateHandler.GetPrice)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config.Dependencies)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
