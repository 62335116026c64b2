package eval

import (
	"errors"
	"fmt"

	"github.com/hailam/gameplay/internal/board"
	"github.com/hailam/gameplay/internal/game"
	"github.com/hailam/gameplay/internal/tictactoe"
)

// ErrEvaluatorShape reports an evaluator whose input size does not fit the position encoding.
var ErrEvaluatorShape = errors.New("evaluator shape mismatch")

// ShapeError describes the mismatch.
type ShapeError struct {
	Features string
	Want     int
	Got      int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%v: %s encoding has %d inputs, got %d weights", ErrEvaluatorShape, e.Features, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrEvaluatorShape
}

// Features turns a position into a fixed-size input vector.
type Features[P any] struct {
	Name   string
	Size   int
	Encode func(pos P, dst []float64)
}

// ChessFeatures encodes 64 squares (piece kind in sixths, negative for black), the side to
// move (+0.5 white, -0.5 black) and the four castling rights (1 when held).
var ChessFeatures = Features[*board.Position]{
	Name:   "chess",
	Size:   64 + 1 + 4,
	Encode: encodeChess,
}

var castlingOrder = [4]board.CastlingRights{
	board.WhiteKingSideCastle, board.WhiteQueenSideCastle,
	board.BlackKingSideCastle, board.BlackQueenSideCastle,
}

func encodeChess(pos *board.Position, dst []float64) {
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.PieceAt(sq)
		if pc == board.NoPiece {
			dst[sq] = 0
			continue
		}
		v := float64(pc.Type()+1) / 6
		if pc.Color() == board.Black {
			v = -v
		}
		dst[sq] = v
	}

	dst[64] = pos.Turn().Sign() / 2

	cr := pos.Castling()
	for i, right := range castlingOrder {
		dst[65+i] = 0
		if cr&right != 0 {
			dst[65+i] = 1
		}
	}
}

// TicTacToeFeatures encodes the nine cells (+1 X, -1 O, 0 empty) and the side to move (+1 X).
var TicTacToeFeatures = Features[*tictactoe.Board]{
	Name:   "tictactoe",
	Size:   9 + 1,
	Encode: encodeTicTacToe,
}

var markValue = [3]float64{tictactoe.Empty: 0, tictactoe.X: 1, tictactoe.O: -1}

func encodeTicTacToe(b *tictactoe.Board, dst []float64) {
	for i := 0; i < 9; i++ {
		dst[i] = markValue[b.Cell(i)]
	}
	dst[9] = b.Turn().Sign()
}

// Linear scores a position as the dot product of its features with fixed weights. Decided
// games still score WinScore. Safe for concurrent use.
type Linear[P any] struct {
	features Features[P]
	weights  []float64
	outcome  func(P) (float64, bool)
}

// NewLinear checks the weights against the feature size.
func NewLinear[P interface{ Outcome() game.Outcome }](features Features[P], weights []float64) (*Linear[P], error) {
	if len(weights) != features.Size {
		return nil, &ShapeError{Features: features.Name, Want: features.Size, Got: len(weights)}
	}
	return &Linear[P]{
		features: features,
		weights:  append([]float64(nil), weights...),
		outcome:  func(pos P) (float64, bool) { return terminal(pos.Outcome()) },
	}, nil
}

// Evaluate implements engine.Evaluator.
func (l *Linear[P]) Evaluate(pos P) float64 {
	if score, over := l.outcome(pos); over {
		return score
	}
	input := make([]float64, l.features.Size)
	l.features.Encode(pos, input)

	var sum float64
	for i, w := range l.weights {
		sum += w * input[i]
	}
	return sum
}

// Weights returns a copy of the weight vector.
func (l *Linear[P]) Weights() []float64 {
	return append([]float64(nil), l.weights...)
}
