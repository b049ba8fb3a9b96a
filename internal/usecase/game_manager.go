package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fruitboxhq/fruitbox-backend/internal/entity"
	"github.com/fruitboxhq/fruitbox-backend/internal/fruitbox"
	"github.com/fruitboxhq/fruitbox-backend/internal/repository"
)

type leaderboardRepo interface {
	Submit(ctx context.Context, player string, score int) error
	Top(ctx context.Context, limit int) ([]repository.Entry, error)
}

// GameManager drives one game session and feeds finished round totals
// into the all-time leaderboard.
type GameManager struct {
	logger      *slog.Logger
	session     *fruitbox.Session
	leaderboard leaderboardRepo
	topSize     int
}

func NewGameManager(logger *slog.Logger, session *fruitbox.Session, leaderboard leaderboardRepo, topSize int) *GameManager {
	return &GameManager{
		logger: logger,

		session:     session,
		leaderboard: leaderboard,
		topSize:     topSize,
	}
}

// StartNewRound closes the round in progress, submitting every nonzero
// running total to the leaderboard, and rolls the session over to a
// fresh grid. Leaderboard submission is best-effort: a storage failure
// is logged and the round starts regardless.
func (that *GameManager) StartNewRound(ctx context.Context) (entity.Grid, int) {
	log := that.logger.With("method", "StartNewRound")

	for name, total := range that.session.RoundTotals() {
		if total == 0 {
			continue
		}

		if err := that.leaderboard.Submit(ctx, name, total); err != nil {
			log.Error("failed to submit round total", "player", name, "error", err)
		}
	}

	grid := that.session.StartNewRound()
	round := that.session.CurrentRound()

	log.Info("round started", "round", round, "players", that.session.PlayerCount())

	return grid, round
}

func (that *GameManager) GetOrCreatePlayer(name string) (*entity.Player, error) {
	player, err := that.session.GetOrCreatePlayer(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) RecordScore(name string, delta int) (*entity.Player, error) {
	player, err := that.session.RecordScore(name, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	return player, nil
}

func (that *GameManager) RoundScores() map[string][]int {
	return that.session.RoundScores()
}

func (that *GameManager) CurrentRound() int {
	return that.session.CurrentRound()
}

func (that *GameManager) TopScores(ctx context.Context) ([]repository.Entry, error) {
	entries, err := that.leaderboard.Top(ctx, that.topSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return entries, nil
}
