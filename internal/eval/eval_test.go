package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/gameplay/internal/board"
	"github.com/hailam/gameplay/internal/tictactoe"
)

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	require.NoError(t, err)
	return pos
}

func mustBoard(t *testing.T, enc string) *tictactoe.Board {
	t.Helper()
	b, err := tictactoe.Parse(enc)
	require.NoError(t, err)
	return b
}

func TestChessEvaluation(t *testing.T) {
	t.Run("start is balanced", func(t *testing.T) {
		assert.InDelta(t, 0, Chess(board.NewPosition()), 1e-9)
	})

	t.Run("central pawn gains control", func(t *testing.T) {
		pos := board.NewPosition()
		m, err := pos.ParseMove("e2e4")
		require.NoError(t, err)
		pos.Apply(m)
		assert.Greater(t, Chess(pos), 0.0)
	})

	t.Run("material dominates", func(t *testing.T) {
		pos := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
		assert.Greater(t, Chess(pos), 9.0)
		pos = mustFEN(t, "3qk3/8/8/8/8/8/8/4K3 w - - 0 1")
		assert.Less(t, Chess(pos), -9.0)
	})

	t.Run("checkmate", func(t *testing.T) {
		pos := mustFEN(t, "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4")
		assert.Equal(t, float64(WinScore), Chess(pos))
		pos = mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
		assert.Equal(t, float64(WinScore), Chess(pos))
	})

	t.Run("stalemate", func(t *testing.T) {
		pos := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
		assert.Zero(t, Chess(pos))
	})

	t.Run("does not change the position", func(t *testing.T) {
		pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
		fen, hash := pos.FEN(), pos.Hash()
		Chess(pos)
		assert.Equal(t, fen, pos.FEN())
		assert.Equal(t, hash, pos.Hash())
	})
}

func TestCentreWeight(t *testing.T) {
	assert.InDelta(t, 1.1, centreWeight[board.A1], 1e-9)
	assert.InDelta(t, 1.1, centreWeight[board.H8], 1e-9)
	assert.InDelta(t, 1.7, centreWeight[board.NewSquare(3, 3)], 1e-9)
	assert.InDelta(t, 1.7, centreWeight[board.NewSquare(4, 4)], 1e-9)
}

func TestTicTacToeEvaluation(t *testing.T) {
	tests := []struct {
		enc  string
		want float64
	}{
		{"......... X", 0},
		{"XX..O.O.. X", 0},
		{"XXX.OO... O", WinScore},
		{"OOOXX.X.X O", -WinScore},
		{"XOXXOOOXX O", 0},
	}
	for _, tt := range tests {
		t.Run(tt.enc, func(t *testing.T) {
			assert.Equal(t, tt.want, TicTacToe(mustBoard(t, tt.enc)))
		})
	}

	b := tictactoe.New()
	b.Apply(tictactoe.Resign)
	assert.Equal(t, -float64(WinScore), TicTacToe(b))
}
