// Package board implements the chess position: a 64-square mailbox with per-square attack
// counters, incremental hashing, legal move generation and an apply/undo history.
package board

import "fmt"

// Square is a board index 0-63: a1=0, h1=7, a8=56, h8=63.
type Square int8

// Corner and castling squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A8 Square = iota + 56
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NoSquare marks an absent square (no en-passant target).
const NoSquare Square = -1

// File returns the file (0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (0=1st, 7=8th).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic name of the square ("e4"), or "-" for NoSquare.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// IsValid reports whether the square is on the board.
func (sq Square) IsValid() bool {
	return sq >= 0 && sq < 64
}

// NewSquare creates a square from 0-indexed file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// Offset returns the square df files and dr ranks away, and false when that leaves the board.
func (sq Square) Offset(df, dr int) (Square, bool) {
	f, r := sq.File()+df, sq.Rank()+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

// ParseSquare parses algebraic notation ("e4").
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}
