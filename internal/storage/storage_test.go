package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := Open("", InMemory())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEvalRoundTrip(t *testing.T) {
	s := openTest(t)

	_, found, err := s.GetEval("material", 42)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.PutEval("material", 42, -3.25))
	score, found, err := s.GetEval("material", 42)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, -3.25, score)

	// Namespaces do not share entries.
	_, found, err = s.GetEval("linear", 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveAndListGames(t *testing.T) {
	s := openTest(t)

	games := []GameRecord{
		{Game: "chess", First: "minimax(depth=1)", Second: "random", Moves: []string{"e2e4", "resign"}, Result: "1-0", Reason: "resignation", Duration: time.Second},
		{Game: "tictactoe", First: "random", Second: "random", Moves: []string{"4", "0", "8"}, Result: "1/2-1/2", Reason: "board full", Duration: 2 * time.Second},
		{Game: "chess", First: "random", Second: "budget(nodes=1000)", Result: "0-1", Reason: "checkmate"},
	}
	for i := range games {
		require.NoError(t, s.SaveGame(&games[i]))
	}
	assert.Equal(t, uint64(1), games[0].ID)
	assert.Less(t, games[0].ID, games[1].ID)
	assert.Less(t, games[1].ID, games[2].ID)

	got, err := s.LoadGame(games[1].ID)
	require.NoError(t, err)
	assert.Equal(t, games[1].Moves, got.Moves)
	assert.Equal(t, "tictactoe", got.Game)

	list, err := s.ListGames()
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := range list {
		assert.Equal(t, games[i].ID, list[i].ID)
		assert.Equal(t, games[i].Result, list[i].Result)
	}

	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.GamesPlayed)
	assert.Equal(t, 1, stats.FirstWins)
	assert.Equal(t, 1, stats.SecondWins)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 1, stats.WinsByAgent["minimax(depth=1)"])
	assert.Equal(t, 1, stats.WinsByAgent["budget(nodes=1000)"])
	assert.Equal(t, 3*time.Second, stats.TotalPlayTime)
	assert.InDelta(t, 33.3, stats.DrawRate(), 0.1)
}

func TestConcurrentSaveGame(t *testing.T) {
	s := openTest(t)

	const n = 64
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			result := "1-0"
			if i%2 == 1 {
				result = "1/2-1/2"
			}
			return s.SaveGame(&GameRecord{Game: "chess", First: "a", Second: "b", Result: result})
		})
	}
	require.NoError(t, g.Wait())

	list, err := s.ListGames()
	require.NoError(t, err)
	assert.Len(t, list, n)

	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, n, stats.GamesPlayed)
	assert.Equal(t, n/2, stats.FirstWins)
	assert.Equal(t, n/2, stats.Draws)
	assert.Equal(t, n/2, stats.WinsByAgent["a"])
}

func TestUnfinishedGamesAreNotDraws(t *testing.T) {
	s := openTest(t)

	require.NoError(t, s.SaveGame(&GameRecord{Game: "chess", Result: "*", Duration: time.Second}))
	require.NoError(t, s.SaveGame(&GameRecord{Game: "chess", Result: "1/2-1/2", Duration: time.Second}))

	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 1, stats.Unfinished)
	assert.Equal(t, 2*time.Second, stats.TotalPlayTime)
	assert.Equal(t, 100.0, stats.DrawRate())

	list, err := s.ListGames()
	require.NoError(t, err)
	assert.Len(t, list, 2, "unfinished games are still archived")
}

func TestLoadMissingGame(t *testing.T) {
	s := openTest(t)
	_, err := s.LoadGame(7)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestEmptyStats(t *testing.T) {
	s := openTest(t)
	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Zero(t, stats.GamesPlayed)
	assert.Zero(t, stats.DrawRate())
	assert.NotNil(t, stats.WinsByAgent)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.PutEval("chess", 7, 1.5))
	require.NoError(t, s.SaveGame(&GameRecord{Game: "chess", Result: "1-0"}))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	score, found, err := s.GetEval("chess", 7)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1.5, score)

	rec := GameRecord{Game: "chess", Result: "0-1"}
	require.NoError(t, s.SaveGame(&rec))
	assert.Greater(t, rec.ID, uint64(1))

	list, err := s.ListGames()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
