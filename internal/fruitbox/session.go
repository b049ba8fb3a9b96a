package fruitbox

import (
	"math/rand"
	"sync"

	"github.com/fruitboxhq/fruitbox-backend/internal/apperror"
	"github.com/fruitboxhq/fruitbox-backend/internal/entity"
)

// Session tracks the state of one in-memory game session: the round
// counter and the score history of every player referenced so far.
//
// The session owns its entropy source. It is seeded once at
// construction and never reseeded, so two sessions built with the same
// options produce the same grid sequence round for round. A single
// coarse lock guards all state; every operation is a fast in-memory
// transform, so there is nothing to gain from finer granularity.
type Session struct {
	mu sync.Mutex

	rng     *rand.Rand
	players map[string]*entity.Player
	round   int

	height     int
	width      int
	fruitTypes int
}

type Options struct {
	Seed       int64
	GridHeight int
	GridWidth  int
	FruitTypes int
}

func NewSession(opts Options) *Session {
	height := opts.GridHeight
	if height <= 0 {
		height = entity.DefaultGridHeight
	}

	width := opts.GridWidth
	if width <= 0 {
		width = entity.DefaultGridWidth
	}

	fruitTypes := opts.FruitTypes
	if fruitTypes <= 0 {
		fruitTypes = entity.DefaultFruitTypes
	}

	return &Session{
		rng:     rand.New(rand.NewSource(opts.Seed)), //nolint: gosec // deterministic by design, not used for security
		players: make(map[string]*entity.Player),

		height:     height,
		width:      width,
		fruitTypes: fruitTypes,
	}
}

// StartNewRound generates a fresh grid with every cell drawn uniformly
// from [1, fruitTypes], increments the round counter, appends one zero
// cumulative entry to every known player and clears their current-round
// deltas. The previous round is implicitly closed; there is no separate
// end-round operation.
//
// The grid is handed to the caller outright - the session keeps no
// reference to it.
func (that *Session) StartNewRound() entity.Grid {
	that.mu.Lock()
	defer that.mu.Unlock()

	grid := entity.NewGrid(that.height, that.width)
	for i := range grid {
		for j := range grid[i] {
			grid[i][j].Value = that.rng.Intn(that.fruitTypes) + 1
		}
	}

	that.round++

	for _, player := range that.players {
		player.Scores = append(player.Scores, 0)
		player.RoundScores = nil
	}

	return grid
}

// GetOrCreatePlayer returns a snapshot of the named player's state,
// creating the player with empty history on first reference. Rounds
// played before the player joined are not backfilled.
func (that *Session) GetOrCreatePlayer(name string) (*entity.Player, error) {
	if name == "" {
		return nil, apperror.ErrEmptyPlayerName
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return that.getOrCreateLocked(name).Clone(), nil
}

// Player returns a snapshot of an existing player's state.
func (that *Session) Player(name string) (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[name]
	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	return player.Clone(), nil
}

// RecordScore adds delta to the player's running total for the current
// round and appends it to their current-round deltas, creating the
// player on demand. A player who joined mid-round has no cumulative
// entry yet; one is materialized at zero before the delta is applied.
//
// Calling this before any round has started is a contract violation
// and fails with ErrNoActiveRound rather than growing an empty history.
func (that *Session) RecordScore(name string, delta int) (*entity.Player, error) {
	if name == "" {
		return nil, apperror.ErrEmptyPlayerName
	}

	if delta < 0 {
		return nil, apperror.ErrNegativeDelta
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.round == 0 {
		return nil, apperror.ErrNoActiveRound
	}

	player := that.getOrCreateLocked(name)

	if len(player.Scores) == 0 {
		player.Scores = append(player.Scores, 0)
	}

	player.Scores[len(player.Scores)-1] += delta
	player.RoundScores = append(player.RoundScores, delta)

	return player.Clone(), nil
}

// CurrentRound returns the number of rounds started so far.
func (that *Session) CurrentRound() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.round
}

func (that *Session) PlayerCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.players)
}

// RoundScores reports every player's deltas recorded since the last
// round start, keyed by player name. The result is a copy.
func (that *Session) RoundScores() map[string][]int {
	that.mu.Lock()
	defer that.mu.Unlock()

	scores := make(map[string][]int, len(that.players))
	for name, player := range that.players {
		scores[name] = append([]int(nil), player.RoundScores...)
	}

	return scores
}

// RoundTotals reports every player's running total for the round in
// progress. Players with no cumulative entry yet report zero.
func (that *Session) RoundTotals() map[string]int {
	that.mu.Lock()
	defer that.mu.Unlock()

	totals := make(map[string]int, len(that.players))
	for name, player := range that.players {
		totals[name] = player.CurrentTotal()
	}

	return totals
}

func (that *Session) getOrCreateLocked(name string) *entity.Player {
	player, ok := that.players[name]
	if !ok {
		player = &entity.Player{Name: name}
		that.players[name] = player
	}

	return player
}
