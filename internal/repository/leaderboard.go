package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:best"

// Entry is one leaderboard row: a player and their best round total.
type Entry struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

type LeaderboardRepository interface {
	Submit(ctx context.Context, player string, score int) error
	Top(ctx context.Context, limit int) ([]Entry, error)
}

type dbLeaderboard struct {
	client *redis.Client
}

func NewLeaderboardRepository(client *redis.Client) LeaderboardRepository {
	return &dbLeaderboard{
		client: client,
	}
}

// Submit records a finished round total. ZAddGT keeps the player's best
// total only, so resubmitting a lower score is a no-op.
func (that *dbLeaderboard) Submit(ctx context.Context, player string, score int) error {
	err := that.client.ZAddGT(ctx, leaderboardKey, redis.Z{
		Score:  float64(score),
		Member: player,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to submit score: %w", err)
	}

	return nil
}

// Top returns up to limit entries ordered best-first.
func (that *dbLeaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	results, err := that.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, member := range results {
		name, ok := member.Member.(string)
		if !ok {
			continue
		}

		entries = append(entries, Entry{Player: name, Score: int(member.Score)})
	}

	return entries, nil
}
