package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/Pjt727/cample/data"
	timetableentry "github.com/Pjt727/cample/data/timetable-entry"
	servertimetable "github.com/Pjt727/cample/server/timetable"
	"github.com/Pjt727/cample/timetable"
)

const (
	shutdownTimeout = 10 * time.Second
	limiterPruning  = 10 * time.Minute
)

// Serve runs the api until ctx is cancelled
func Serve(ctx context.Context, cfg data.Config, logger *slog.Logger) error {
	dbPool, err := data.NewPool(ctx, false)
	if err != nil {
		return fmt.Errorf("cannot connect to main db: %w", err)
	}
	defer dbPool.Close()

	hub := servertimetable.NewHub(cfg.AllowedOrigins, logger)
	limiter := servertimetable.NewStudentLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	service := timetable.NewService(
		timetableentry.NewTxRunner(dbPool),
		cfg.Semester,
		timetable.WithNotifier(hub),
		timetable.WithLogger(logger),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           NewRouter(cfg, service, hub, limiter, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv.RegisterOnShutdown(hub.Close)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Running server on", "port", cfg.Port, "semester", cfg.Semester.Code)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return limiter.Run(gCtx, limiterPruning)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func NewRouter(
	cfg data.Config,
	service *timetable.Service,
	hub *servertimetable.Hub,
	limiter *servertimetable.StudentLimiter,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()
	cors := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Content-Type", servertimetable.StudentHeader},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum age for preflight requests
	})
	r.Use(cors.Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/timetable", func(r chi.Router) {
		servertimetable.PopulateTimetableRoutes(&r, service, hub, limiter, logger)
	})
	return r
}
