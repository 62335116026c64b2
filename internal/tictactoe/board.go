// Package tictactoe implements the 3x3 game behind the same position contract as chess.
package tictactoe

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hailam/gameplay/internal/game"
)

var (
	// ErrConstruction reports a malformed board encoding.
	ErrConstruction = errors.New("invalid board encoding")
	// ErrEmptyHistory is the panic value of Undo on a board with no applied moves.
	ErrEmptyHistory = errors.New("undo past the initial position")
	// ErrNoSuchMove reports a move token that is not a free cell.
	ErrNoSuchMove = errors.New("no such legal move")
)

// IllegalMoveError is the panic value of Apply when given a move that is not legal.
type IllegalMoveError struct {
	Move     Move
	Encoding string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s in %q", e.Move, e.Encoding)
}

// Mark is the content of a cell.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	return string(".XO"[m])
}

func markOf(s game.Side) Mark {
	return Mark(s) + 1
}

// Move is the index of the cell to mark, 0 top-left to 8 bottom-right, or Resign.
type Move int8

// Resign is the move by which the side to move gives up.
const Resign Move = -1

func (m Move) String() string {
	if m == Resign {
		return "resign"
	}
	return strconv.Itoa(int(m))
}

// ParseMove reads a move token: a cell index or "resign".
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if s == "resign" {
		return Resign, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 8 {
		return 0, fmt.Errorf("%w: %q", ErrNoSuchMove, s)
	}
	return Move(n), nil
}

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Board is a tic-tac-toe position with its move history. Not safe for concurrent use.
type Board struct {
	cells    [9]Mark
	turn     game.Side
	hash     uint64
	resigned bool
	history  []Move
}

// New returns the empty board with X to move.
func New() *Board {
	return &Board{}
}

// Parse reads an encoding: nine cells of X, O or '.', a space and the side to move.
func Parse(s string) (*Board, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 || len(fields[0]) != 9 {
		return nil, fmt.Errorf("%w: %q: want nine cells and a side", ErrConstruction, s)
	}

	b := &Board{}
	counts := [3]int{}
	for i := 0; i < 9; i++ {
		m := Mark(strings.IndexByte(".XO", fields[0][i]))
		if m > O {
			return nil, fmt.Errorf("%w: %q: bad cell %q", ErrConstruction, s, fields[0][i])
		}
		b.cells[i] = m
		counts[m]++
		if m != Empty {
			b.hash ^= cellKeys[m-1][i]
		}
	}

	switch fields[1] {
	case "X":
		b.turn = game.First
	case "O":
		b.turn = game.Second
		b.hash ^= sideKey
	default:
		return nil, fmt.Errorf("%w: %q: bad side %q", ErrConstruction, s, fields[1])
	}

	if diff := counts[X] - counts[O]; diff != int(b.turn) {
		return nil, fmt.Errorf("%w: %q: %d X and %d O with %s to move", ErrConstruction, s, counts[X], counts[O], fields[1])
	}
	return b, nil
}

// Encoding returns the board encoding accepted by Parse.
func (b *Board) Encoding() string {
	var sb strings.Builder
	for _, m := range b.cells {
		sb.WriteString(m.String())
	}
	sb.WriteByte(' ')
	sb.WriteString(markOf(b.turn).String())
	return sb.String()
}

// String draws the grid.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			sb.WriteString(b.cells[r*3+c].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Cell returns the mark at index i.
func (b *Board) Cell(i int) Mark {
	return b.cells[i]
}

// Turn returns the side to move.
func (b *Board) Turn() game.Side {
	return b.turn
}

// Hash returns the Zobrist hash of cells and side to move.
func (b *Board) Hash() uint64 {
	return b.hash
}

// Plies returns the number of applied moves that can be undone.
func (b *Board) Plies() int {
	return len(b.history)
}

// Clone returns an independent copy without history.
func (b *Board) Clone() *Board {
	c := *b
	c.history = nil
	return &c
}

// LegalMoves returns the free cells, or nothing once the game is decided.
func (b *Board) LegalMoves() []Move {
	if b.resigned || b.line() != Empty {
		return nil
	}
	moves := make([]Move, 0, 9)
	for i, m := range b.cells {
		if m == Empty {
			moves = append(moves, Move(i))
		}
	}
	return moves
}

// Apply marks a free cell for the side to move, or records its resignation.
// Anything else panics with *IllegalMoveError.
func (b *Board) Apply(m Move) {
	if m == Resign {
		if b.resigned {
			panic(&IllegalMoveError{Move: m, Encoding: b.Encoding()})
		}
		b.resigned = true
		b.history = append(b.history, m)
		return
	}
	if !slices.Contains(b.LegalMoves(), m) {
		panic(&IllegalMoveError{Move: m, Encoding: b.Encoding()})
	}

	mark := markOf(b.turn)
	b.cells[m] = mark
	b.hash ^= cellKeys[mark-1][m] ^ sideKey
	b.turn = b.turn.Other()
	b.history = append(b.history, m)
}

// Undo takes back the most recent Apply.
func (b *Board) Undo() {
	n := len(b.history)
	if n == 0 {
		panic(ErrEmptyHistory)
	}
	m := b.history[n-1]
	b.history = b.history[:n-1]

	if m == Resign {
		b.resigned = false
		return
	}
	b.turn = b.turn.Other()
	mark := b.cells[m]
	b.cells[m] = Empty
	b.hash ^= cellKeys[mark-1][m] ^ sideKey
}

// Outcome reports three in a row, a full board, a resignation or an ongoing game.
func (b *Board) Outcome() game.Outcome {
	if b.resigned {
		return game.Win(b.turn.Other(), game.Resignation)
	}
	if mark := b.line(); mark != Empty {
		return game.Win(game.Side(mark-1), game.Line)
	}
	if !slices.Contains(b.cells[:], Empty) {
		return game.Draw(game.BoardFull)
	}
	return game.Ongoing
}

// line returns the mark owning a complete line, Empty if none.
func (b *Board) line() Mark {
	for _, l := range lines {
		if m := b.cells[l[0]]; m != Empty && m == b.cells[l[1]] && m == b.cells[l[2]] {
			return m
		}
	}
	return Empty
}
