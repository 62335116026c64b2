package board

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction is matched by every ConstructionError.
	ErrConstruction = errors.New("invalid position encoding")
	// ErrMissingKing reports an encoding without exactly one king per side.
	ErrMissingKing = errors.New("each side needs exactly one king")
	// ErrEmptyHistory is the panic value of Undo on a position with no applied moves.
	ErrEmptyHistory = errors.New("undo past the initial position")
	// ErrMoveSyntax reports a move token that cannot be read.
	ErrMoveSyntax = errors.New("malformed move")
	// ErrNoSuchMove reports a well-formed move token that matches no legal move.
	ErrNoSuchMove = errors.New("no such legal move")
)

// ConstructionError describes why an encoding could not be turned into a Position.
type ConstructionError struct {
	FEN    string
	Reason string
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: %s (%q)", ErrConstruction, e.Reason, e.FEN)
}

func (e *ConstructionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConstruction}
	}
	return []error{ErrConstruction, e.Err}
}

// IllegalMoveError is the panic value of Apply when given a move the position did not generate.
type IllegalMoveError struct {
	Move string
	FEN  string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s in %s", e.Move, e.FEN)
}
