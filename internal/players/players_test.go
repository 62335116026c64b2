package players

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/gameplay/internal/board"
	"github.com/hailam/gameplay/internal/config"
	"github.com/hailam/gameplay/internal/engine"
	"github.com/hailam/gameplay/internal/eval"
	"github.com/hailam/gameplay/internal/storage"
	"github.com/hailam/gameplay/internal/tictactoe"
)

func TestNewChessStrategies(t *testing.T) {
	tests := []struct {
		agent config.Agent
		name  string
	}{
		{config.Agent{Strategy: config.Minimax, Depth: 1}, "minimax(depth=1)"},
		{config.Agent{Strategy: config.Ordered, Depth: 2}, "ordered-minimax(depth=2)"},
		{config.Agent{Strategy: config.Budget, Budget: 300}, "budget(nodes=300)"},
		{config.Agent{Strategy: config.BudgetGain, Budget: 300}, "budget-gain(nodes=300)"},
		{config.Agent{Strategy: config.Random, Seed: 4}, "random(seed=4)"},
		{config.Agent{Name: "alice", Strategy: config.Ordered, Depth: 1}, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, closer, err := NewChess(tt.agent, Env{Log: zerolog.Nop()})
			require.NoError(t, err)
			defer closer.Close()

			assert.Equal(t, tt.name, p.Name())
			pos := board.NewPosition()
			m, ok := p.Play(pos)
			require.True(t, ok)
			assert.NotPanics(t, func() { pos.Apply(m) })
		})
	}
}

func TestRandomSeedOffset(t *testing.T) {
	a := config.Agent{Strategy: config.Random, Seed: 1}
	p, _, err := NewChess(a, Env{SeedOffset: 2})
	require.NoError(t, err)
	assert.Equal(t, "random(seed=3)", p.Name())
}

func TestNewChessLinearShape(t *testing.T) {
	_, _, err := NewChess(config.Agent{Strategy: config.Minimax, Evaluator: config.Linear, Weights: []float64{1, 2}}, Env{})
	assert.ErrorIs(t, err, eval.ErrEvaluatorShape)

	_, err = NewTicTacToe(config.Agent{Strategy: config.Minimax, Evaluator: config.Linear}, Env{})
	assert.ErrorIs(t, err, eval.ErrEvaluatorShape)
}

func TestWrongEvaluatorForGame(t *testing.T) {
	_, _, err := NewChess(config.Agent{Strategy: config.Minimax, Evaluator: config.Terminal}, Env{})
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = NewTicTacToe(config.Agent{Strategy: config.Minimax, Evaluator: config.Material}, Env{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestCachedEvaluators(t *testing.T) {
	store, err := storage.Open("", storage.InMemory())
	require.NoError(t, err)
	defer store.Close()

	a := config.Agent{Strategy: config.Minimax, Depth: 0, Cache: config.Cache{Entries: 128, Persist: true}}
	p, _, err := NewChess(a, Env{Store: store})
	require.NoError(t, err)

	cache, ok := p.Evaluator().(*eval.Cache[*board.Position])
	require.True(t, ok, "in-memory table is outermost")

	pos := board.NewPosition()
	_, ok = p.Play(pos)
	require.True(t, ok)
	assert.Zero(t, cache.HitRate())

	// Every position one ply from the start was written through to the store.
	e2e4, err := pos.ParseMove("e2e4")
	require.NoError(t, err)
	pos.Apply(e2e4)
	score, found, err := store.GetEval(Namespace(config.Chess, a), pos.Hash())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, eval.Chess(pos), score)
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "chess/default", Namespace(config.Chess, config.Agent{}))
	assert.Equal(t, "tictactoe/terminal", Namespace(config.TicTacToe, config.Agent{Evaluator: config.Terminal}))
	assert.Equal(t, "chess/uci/depth=10", Namespace(config.Chess, config.Agent{Evaluator: config.UCI, UCI: config.UCIEngine{Depth: 10}}))

	a := Namespace(config.Chess, config.Agent{Evaluator: config.Linear, Weights: []float64{1, 2}})
	b := Namespace(config.Chess, config.Agent{Evaluator: config.Linear, Weights: []float64{2, 1}})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Namespace(config.Chess, config.Agent{Evaluator: config.Linear, Weights: []float64{1, 2}}))
}

func TestTicTacToePerfectPlayers(t *testing.T) {
	a := config.Agent{Strategy: config.Ordered, Depth: 9, Evaluator: config.Terminal, Cache: config.Cache{Entries: 1024}}
	x, err := NewTicTacToe(a, Env{})
	require.NoError(t, err)
	o, err := NewTicTacToe(a, Env{})
	require.NoError(t, err)

	b := tictactoe.New()
	for players := [2]engine.Player[*tictactoe.Board, tictactoe.Move]{x, o}; ; {
		m, ok := players[b.Turn()].Play(b)
		if !ok {
			break
		}
		b.Apply(m)
	}
	assert.Equal(t, "1/2-1/2", b.Outcome().String())
}
