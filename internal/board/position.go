package board

import (
	"maps"
	"slices"
	"strings"

	"github.com/hailam/gameplay/internal/game"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling                         = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the encoding of the rights ("KQkq" or "-").
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// CanCastle returns true if the given side still holds the right.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	right := WhiteKingSideCastle
	if !kingSide {
		right = WhiteQueenSideCastle
	}
	if c == Black {
		right <<= 2
	}
	return cr&right != 0
}

// castleMask holds the rights lost when a piece leaves or lands on the square.
var castleMask [64]CastlingRights

func init() {
	castleMask[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	castleMask[H1] = WhiteKingSideCastle
	castleMask[A1] = WhiteQueenSideCastle
	castleMask[E8] = BlackKingSideCastle | BlackQueenSideCastle
	castleMask[H8] = BlackKingSideCastle
	castleMask[A8] = BlackQueenSideCastle
}

// Position is a chess position together with its move history. It is mutated in place by
// Apply and Undo and is not safe for concurrent use; hand a Clone to other goroutines.
type Position struct {
	squares    [64]Piece
	sideToMove Color
	castling   CastlingRights
	enPassant  Square
	halfMove   int
	fullMove   int
	hash       uint64
	resigned   bool

	kings   [2]Square
	attacks [2][64]int8

	// occurrences of each hash since the last irreversible move
	reps    map[uint64]int
	history []undoRecord

	legal      []Move
	legalValid bool
}

type undoRecord struct {
	move Move
	// repetition table replaced by an irreversible move
	reps map[uint64]int
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Clone returns an independent deep copy. The copy starts with an empty history, so it
// cannot be undone past the position it was cloned from.
func (p *Position) Clone() *Position {
	c := *p
	c.reps = maps.Clone(p.reps)
	c.history = nil
	c.legal = slices.Clone(p.legal)
	return &c
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.squares[sq]
}

// SideToMove returns the side whose turn it is.
func (p *Position) SideToMove() Color {
	return p.sideToMove
}

// Turn is SideToMove in the vocabulary shared with the search engine.
func (p *Position) Turn() game.Side {
	return p.sideToMove
}

// Castling returns the remaining castling rights.
func (p *Position) Castling() CastlingRights {
	return p.castling
}

// EnPassant returns the en-passant target square, NoSquare if none.
func (p *Position) EnPassant() Square {
	return p.enPassant
}

// HalfMoveClock returns the plies since the last capture or pawn move.
func (p *Position) HalfMoveClock() int {
	return p.halfMove
}

// FullMoveNumber returns the full-move counter.
func (p *Position) FullMoveNumber() int {
	return p.fullMove
}

// Hash returns the incremental Zobrist hash.
func (p *Position) Hash() uint64 {
	return p.hash
}

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square {
	return p.kings[c]
}

// Attacks returns how many of c's pieces attack sq.
func (p *Position) Attacks(c Color, sq Square) int {
	return int(p.attacks[c][sq])
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	us := p.sideToMove
	return p.attacks[us.Other()][p.kings[us]] > 0
}

// Repetitions returns how often the current position occurred since the last irreversible move.
func (p *Position) Repetitions() int {
	return p.reps[p.hash]
}

// Plies returns the number of applied moves that can be undone.
func (p *Position) Plies() int {
	return len(p.history)
}

// Outcome reports whether the game is over and how.
func (p *Position) Outcome() game.Outcome {
	them := p.sideToMove.Other()
	if p.resigned {
		return game.Win(them, game.Resignation)
	}
	if len(p.legalMoves()) == 0 {
		if p.InCheck() {
			return game.Win(them, game.Checkmate)
		}
		return game.Draw(game.Stalemate)
	}
	if p.halfMove >= 100 {
		return game.Draw(game.FiftyMoves)
	}
	if p.reps[p.hash] >= 3 {
		return game.Draw(game.Repetition)
	}
	return game.Ongoing
}

// Material returns the material balance on the Worth scale (positive favors white).
func (p *Position) Material() int {
	score := 0
	for _, pc := range p.squares {
		if pc == NoPiece || pc.Is(King) {
			continue
		}
		if pc.Color() == White {
			score += pc.Worth()
		} else {
			score -= pc.Worth()
		}
	}
	return score
}

// String returns an ASCII diagram of the board followed by the encoding.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			sb.WriteString(p.squares[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(p.FEN())
	return sb.String()
}

func (p *Position) putPiece(pc Piece, sq Square) {
	p.squares[sq] = pc
	p.hash ^= pieceKey(pc, sq)
}

func (p *Position) removePiece(sq Square) Piece {
	pc := p.squares[sq]
	p.squares[sq] = NoPiece
	p.hash ^= pieceKey(pc, sq)
	return pc
}
