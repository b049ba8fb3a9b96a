package fruitbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fruitboxhq/fruitbox-backend/internal/apperror"
	"github.com/fruitboxhq/fruitbox-backend/internal/entity"
)

func TestSession_StartNewRound(t *testing.T) {
	t.Run("Generates grids with fixed dimensions and values in range", func(t *testing.T) {
		// Given: a session with default dimensions and five fruit types
		session := NewSession(Options{Seed: 0})

		// When: several rounds are started
		for round := 1; round <= 5; round++ {
			grid := session.StartNewRound()

			// Then: every grid is exactly height x width with values in [1, 5]
			require.Equal(t, entity.DefaultGridHeight, grid.Height())
			require.Equal(t, entity.DefaultGridWidth, grid.Width())

			for _, row := range grid {
				require.Len(t, row, entity.DefaultGridWidth)
				for _, cell := range row {
					assert.GreaterOrEqual(t, cell.Value, 1)
					assert.LessOrEqual(t, cell.Value, entity.DefaultFruitTypes)
				}
			}

			// And: the round counter tracks the number of starts
			assert.Equal(t, round, session.CurrentRound())
		}
	})

	t.Run("Respects configured dimensions and fruit range", func(t *testing.T) {
		// Given: a session with custom dimensions and two fruit types
		session := NewSession(Options{Seed: 42, GridHeight: 3, GridWidth: 4, FruitTypes: 2})

		// When: a round is started
		grid := session.StartNewRound()

		// Then: the grid matches the configuration
		require.Equal(t, 3, grid.Height())
		require.Equal(t, 4, grid.Width())

		for _, row := range grid {
			for _, cell := range row {
				assert.Contains(t, []int{1, 2}, cell.Value)
			}
		}
	})

	t.Run("Appends one zero entry per known player and clears round deltas", func(t *testing.T) {
		// Given: a session with an active round and a player who scored in it
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		_, err := session.RecordScore("bob", 7)
		require.NoError(t, err)

		// When: the next round starts
		session.StartNewRound()

		// Then: bob has a fresh zero entry and empty current-round deltas
		bob, err := session.Player("bob")
		require.NoError(t, err)
		assert.Equal(t, []int{7, 0}, bob.Scores)
		assert.Empty(t, bob.RoundScores)
	})
}

func TestSession_Determinism(t *testing.T) {
	t.Run("Same seed produces identical grid sequences", func(t *testing.T) {
		// Given: two sessions constructed with the same seed
		first := NewSession(Options{Seed: 1337})
		second := NewSession(Options{Seed: 1337})

		// When: both are driven through the same call sequence
		for round := 0; round < 5; round++ {
			// Then: the grids match round for round
			require.Equal(t, first.StartNewRound(), second.StartNewRound())
		}
	})

	t.Run("Different seeds diverge", func(t *testing.T) {
		// Given: two sessions constructed with different seeds
		first := NewSession(Options{Seed: 1})
		second := NewSession(Options{Seed: 2})

		// When: each starts a round
		// Then: the grids differ
		assert.NotEqual(t, first.StartNewRound(), second.StartNewRound())
	})
}

func TestSession_GetOrCreatePlayer(t *testing.T) {
	t.Run("Creates a player with empty history", func(t *testing.T) {
		// Given: a fresh session
		session := NewSession(Options{Seed: 0})

		// When: a new name is referenced
		player, err := session.GetOrCreatePlayer("alice")

		// Then: the player exists with no scores recorded
		require.NoError(t, err)
		assert.Equal(t, "alice", player.Name)
		assert.Empty(t, player.Scores)
		assert.Empty(t, player.RoundScores)
		assert.Equal(t, 1, session.PlayerCount())
	})

	t.Run("Returns existing state on repeated lookup", func(t *testing.T) {
		// Given: a session where alice already scored
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		_, err := session.RecordScore("alice", 4)
		require.NoError(t, err)

		// When: alice is looked up again
		player, err := session.GetOrCreatePlayer("alice")

		// Then: her state is returned unmodified
		require.NoError(t, err)
		assert.Equal(t, []int{4}, player.Scores)
		assert.Equal(t, 1, session.PlayerCount())
	})

	t.Run("Does not backfill rounds played before joining", func(t *testing.T) {
		// Given: a session with one round already played
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		// When: alice joins after round one and round two starts
		_, err := session.GetOrCreatePlayer("alice")
		require.NoError(t, err)

		session.StartNewRound()

		// Then: alice has exactly one cumulative entry
		alice, err := session.Player("alice")
		require.NoError(t, err)
		assert.Equal(t, []int{0}, alice.Scores)
	})

	t.Run("Rejects an empty name", func(t *testing.T) {
		// Given: a fresh session
		session := NewSession(Options{Seed: 0})

		// When: an empty name is referenced
		_, err := session.GetOrCreatePlayer("")

		// Then: it fails with ErrEmptyPlayerName
		require.ErrorIs(t, err, apperror.ErrEmptyPlayerName)
	})

	t.Run("Treats names as case-sensitive identities", func(t *testing.T) {
		// Given: a fresh session
		session := NewSession(Options{Seed: 0})

		// When: two names differing only in case are referenced
		_, err := session.GetOrCreatePlayer("Alice")
		require.NoError(t, err)
		_, err = session.GetOrCreatePlayer("alice")
		require.NoError(t, err)

		// Then: two distinct players exist
		assert.Equal(t, 2, session.PlayerCount())
	})
}

func TestSession_RecordScore(t *testing.T) {
	t.Run("Accumulates deltas within a round", func(t *testing.T) {
		// Given: a session with an active round
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		// When: bob scores 5 then 3
		_, err := session.RecordScore("bob", 5)
		require.NoError(t, err)

		bob, err := session.RecordScore("bob", 3)
		require.NoError(t, err)

		// Then: his deltas are [5, 3] and his running total is 8
		assert.Equal(t, []int{5, 3}, bob.RoundScores)
		assert.Equal(t, 8, bob.CurrentTotal())
	})

	t.Run("Auto-creates an unknown player", func(t *testing.T) {
		// Given: a session with an active round and no players
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		// When: a score is recorded for a brand-new name
		player, err := session.RecordScore("carol", 12)

		// Then: carol exists with a single materialized round entry
		require.NoError(t, err)
		assert.Equal(t, []int{12}, player.Scores)
		assert.Equal(t, []int{12}, player.RoundScores)
	})

	t.Run("Returns ErrNoActiveRound before the first round", func(t *testing.T) {
		// Given: a session where no round has started
		session := NewSession(Options{Seed: 0})

		// When: a score is recorded
		_, err := session.RecordScore("bob", 5)

		// Then: it fails with ErrNoActiveRound
		require.ErrorIs(t, err, apperror.ErrNoActiveRound)
	})

	t.Run("Rejects a negative delta", func(t *testing.T) {
		// Given: a session with an active round
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		// When: a negative delta is recorded
		_, err := session.RecordScore("bob", -1)

		// Then: it fails with ErrNegativeDelta
		require.ErrorIs(t, err, apperror.ErrNegativeDelta)
	})

	t.Run("Rejects an empty name", func(t *testing.T) {
		// Given: a session with an active round
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		// When: a score is recorded without a name
		_, err := session.RecordScore("", 5)

		// Then: it fails with ErrEmptyPlayerName
		require.ErrorIs(t, err, apperror.ErrEmptyPlayerName)
	})

	t.Run("Materializes a zero entry for a mid-round joiner", func(t *testing.T) {
		// Given: a player created after the round already started
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		_, err := session.GetOrCreatePlayer("dave")
		require.NoError(t, err)

		// When: dave scores for the first time this round
		dave, err := session.RecordScore("dave", 6)

		// Then: a single round entry carries his total
		require.NoError(t, err)
		assert.Equal(t, []int{6}, dave.Scores)
	})
}

func TestSession_RoundScores(t *testing.T) {
	t.Run("Reports current-round deltas per player", func(t *testing.T) {
		// Given: two players scoring in the active round
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		_, err := session.RecordScore("bob", 5)
		require.NoError(t, err)
		_, err = session.RecordScore("alice", 3)
		require.NoError(t, err)
		_, err = session.RecordScore("bob", 2)
		require.NoError(t, err)

		// When: the report is taken
		scores := session.RoundScores()

		// Then: it maps each player to their ordered deltas
		assert.Equal(t, map[string][]int{
			"bob":   {5, 2},
			"alice": {3},
		}, scores)
	})

	t.Run("Returns a copy detached from session state", func(t *testing.T) {
		// Given: a session with one recorded delta
		session := NewSession(Options{Seed: 0})
		session.StartNewRound()

		_, err := session.RecordScore("bob", 5)
		require.NoError(t, err)

		// When: the returned report is mutated
		scores := session.RoundScores()
		scores["bob"][0] = 99

		// Then: the session's own state is unaffected
		bob, err := session.Player("bob")
		require.NoError(t, err)
		assert.Equal(t, []int{5}, bob.RoundScores)
	})
}

func TestSession_RoundTotals(t *testing.T) {
	// Given: one player with a running total and one who never scored
	session := NewSession(Options{Seed: 0})
	session.StartNewRound()

	_, err := session.RecordScore("bob", 5)
	require.NoError(t, err)
	_, err = session.RecordScore("bob", 3)
	require.NoError(t, err)
	_, err = session.GetOrCreatePlayer("alice")
	require.NoError(t, err)

	// When: the totals are taken
	totals := session.RoundTotals()

	// Then: bob reports his running total and alice reports zero
	assert.Equal(t, map[string]int{"bob": 8, "alice": 0}, totals)
}

func TestSession_FullRoundLifecycle(t *testing.T) {
	// Given: a session seeded with zero
	session := NewSession(Options{Seed: 0})

	// When: the first round starts
	grid := session.StartNewRound()

	// Then: the grid is 10x17 with values in [1, 5]
	require.Equal(t, 10, grid.Height())
	require.Equal(t, 17, grid.Width())
	for _, row := range grid {
		for _, cell := range row {
			require.GreaterOrEqual(t, cell.Value, 1)
			require.LessOrEqual(t, cell.Value, 5)
		}
	}

	// When: p1 joins and scores 10 then 5
	_, err := session.GetOrCreatePlayer("p1")
	require.NoError(t, err)

	_, err = session.RecordScore("p1", 10)
	require.NoError(t, err)

	p1, err := session.RecordScore("p1", 5)
	require.NoError(t, err)

	// Then: p1's deltas are [10, 5] and his history is [15]
	assert.Equal(t, []int{10, 5}, p1.RoundScores)
	assert.Equal(t, []int{15}, p1.Scores)

	// When: the next round starts
	session.StartNewRound()

	// Then: p1's history gains a zero entry and his deltas reset
	p1, err = session.Player("p1")
	require.NoError(t, err)
	assert.Equal(t, []int{15, 0}, p1.Scores)
	assert.Empty(t, p1.RoundScores)
}
