// Package eval provides position evaluators for the search agents: hand-written scores for
// chess and tic-tac-toe, a shape-checked linear model, caches in front of any evaluator and
// an external UCI engine.
package eval

import (
	"github.com/hailam/gameplay/internal/board"
	"github.com/hailam/gameplay/internal/game"
	"github.com/hailam/gameplay/internal/tictactoe"
)

// WinScore is the score of a decided game, signed towards the winner.
const WinScore = 1000

// terminal returns the score of a finished game and whether the game is finished.
func terminal(o game.Outcome) (float64, bool) {
	if !o.Over() {
		return 0, false
	}
	return WinScore * o.Score(), true
}

// centreWeight grows towards the middle of the board: 1.1 in the corners, 1.7 on d4/e5.
var centreWeight [64]float64

func init() {
	for sq := board.A1; sq <= board.H8; sq++ {
		df := abs(float64(sq.File()) - 3.5)
		dr := abs(float64(sq.Rank()) - 3.5)
		centreWeight[sq] = 1 + 0.1*(8-df-dr)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Chess scores a chess position from white's view: WinScore on a decided game, otherwise
// material plus a tenth of the square control, with central squares counting more.
func Chess(pos *board.Position) float64 {
	if score, over := terminal(pos.Outcome()); over {
		return score
	}
	return float64(pos.Material()) + 0.1*Control(pos)
}

// Control returns the difference in centre-weighted attacks between white and black.
func Control(pos *board.Position) float64 {
	var score float64
	for sq := board.A1; sq <= board.H8; sq++ {
		diff := pos.Attacks(board.White, sq) - pos.Attacks(board.Black, sq)
		score += float64(diff) * centreWeight[sq]
	}
	return score
}

// TicTacToe scores WinScore on a decided game and zero otherwise.
func TicTacToe(b *tictactoe.Board) float64 {
	score, _ := terminal(b.Outcome())
	return score
}
