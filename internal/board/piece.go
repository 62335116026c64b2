package board

import "github.com/hailam/gameplay/internal/game"

// Color is the side a piece belongs to. White is the first side.
type Color = game.Side

const (
	White = game.First
	Black = game.Second
)

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Worth is the coarse material scale used for move ordering and evaluation.
var Worth = [7]int{1, 3, 3, 5, 9, 10, 0}

// Piece is a colored piece code: pieceType + color*6. The zero value is a white pawn,
// so empty squares hold NoPiece.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

const pieceChars = "PNBRQKpnbrqk"

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the Color of the piece. Only meaningful for real pieces.
func (p Piece) Color() Color {
	return Color(p / 6)
}

// Is reports whether p is a piece of type pt.
func (p Piece) Is(pt PieceType) bool {
	return p != NoPiece && p.Type() == pt
}

// Worth returns the piece's value on the coarse material scale, 0 for NoPiece.
func (p Piece) Worth() int {
	return Worth[p.Type()]
}

// String returns the encoding letter: uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p >= NoPiece {
		return "."
	}
	return string(pieceChars[p])
}

// Letter returns the uppercase letter of the piece type, as used in move tokens.
func (p Piece) Letter() byte {
	if p >= NoPiece {
		return ' '
	}
	return pieceChars[p.Type()]
}

// PieceFromChar converts an encoding letter to a Piece, NoPiece if unknown.
func PieceFromChar(c byte) Piece {
	for i := 0; i < len(pieceChars); i++ {
		if pieceChars[i] == c {
			return Piece(i)
		}
	}
	return NoPiece
}
