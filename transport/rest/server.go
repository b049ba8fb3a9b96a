package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fruitboxhq/fruitbox-backend/internal/repository"
)

type leaderboardSource interface {
	TopScores(ctx context.Context) ([]repository.Entry, error)
}

type Server struct {
	logger      *slog.Logger
	leaderboard leaderboardSource
}

func New(logger *slog.Logger, leaderboard leaderboardSource) *Server {
	return &Server{
		logger:      logger,
		leaderboard: leaderboard,
	}
}

func (that *Server) Start(ctx context.Context, port string) error {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(10 * time.Second))

	router.Get("/ping", pingHandler)
	router.Get("/health", healthHandler)
	router.Get("/leaderboard", that.leaderboardHandler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "leaderboardHandler")

	entries, err := that.leaderboard.TopScores(r.Context())
	if err != nil {
		log.Error("failed to get leaderboard", "error", err)
		http.Error(w, "failed to get leaderboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(entries); err != nil {
		log.Error("failed to encode leaderboard", "error", err)
	}
}
