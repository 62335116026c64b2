package board

import (
	"fmt"
	"strings"
)

// Kind tags the special handling a move needs.
type Kind uint8

const (
	Simple Kind = iota
	Promotion
	ShortCastle
	LongCastle
	EnPassant
	Resign
)

// Move describes one ply. Moves come from LegalMoves (or ParseMove) and are not modified by
// callers; the unexported fields are the undo context recorded by Apply.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	Promotion Piece
	Kind      Kind

	prevCastling  CastlingRights
	prevHalfMove  int
	prevEnPassant Square
}

// Resignation is the move by which the side to move gives up.
var Resignation = Move{From: NoSquare, To: NoSquare, Piece: NoPiece, Captured: NoPiece, Promotion: NoPiece, Kind: Resign}

func newMove(from, to Square, pc, captured Piece) Move {
	return Move{From: from, To: to, Piece: pc, Captured: captured, Promotion: NoPiece, Kind: Simple}
}

// Equal reports whether m and o describe the same ply, ignoring undo context.
func (m Move) Equal(o Move) bool {
	return m.Kind == o.Kind && m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// IsCapture returns true if the move takes a piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsIrreversible reports whether the move is a capture or a pawn move.
func (m Move) IsIrreversible() bool {
	return m.IsCapture() || m.Piece.Is(Pawn)
}

// String renders the move token: optional piece letter, origin, "x" on captures,
// destination, "=Q" on promotions and "ep" on en-passant captures; castling is "0-0" or
// "0-0-0" and resignation is "resign".
func (m Move) String() string {
	switch m.Kind {
	case Resign:
		return "resign"
	case ShortCastle:
		return "0-0"
	case LongCastle:
		return "0-0-0"
	}

	var sb strings.Builder
	if !m.Piece.Is(Pawn) {
		sb.WriteByte(m.Piece.Letter())
	}
	sb.WriteString(m.From.String())
	if m.IsCapture() {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.Kind == Promotion {
		sb.WriteByte('=')
		sb.WriteByte(m.Promotion.Letter())
	}
	if m.Kind == EnPassant {
		sb.WriteString("ep")
	}
	return sb.String()
}

// UCI returns the move in UCI coordinate form ("e2e4", "e7e8q", "0000" for resignation).
func (m Move) UCI() string {
	if m.Kind == Resign {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Kind == Promotion {
		s += strings.ToLower(string(m.Promotion.Letter()))
	}
	return s
}

// ParseMove reads a move token and returns the matching legal move.
func (p *Position) ParseMove(token string) (Move, error) {
	s := strings.TrimSpace(token)
	switch s {
	case "resign":
		return Resignation, nil
	case "0-0", "O-O":
		return p.findMove(s, func(m Move) bool { return m.Kind == ShortCastle })
	case "0-0-0", "O-O-O":
		return p.findMove(s, func(m Move) bool { return m.Kind == LongCastle })
	}

	pieceType := NoPieceType
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pieceType = PieceFromChar(s[0]).Type()
		if pieceType == NoPieceType {
			return Move{}, fmt.Errorf("%w: %q: unknown piece letter", ErrMoveSyntax, token)
		}
		s = s[1:]
	}
	s = strings.TrimSuffix(s, "ep")

	if len(s) < 4 {
		return Move{}, fmt.Errorf("%w: %q", ErrMoveSyntax, token)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrMoveSyntax, token, err)
	}
	s = strings.TrimPrefix(s[2:], "x")
	if len(s) < 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrMoveSyntax, token)
	}
	to, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrMoveSyntax, token, err)
	}

	promo := Queen
	if rest := s[2:]; rest != "" {
		if len(rest) != 2 || rest[0] != '=' {
			return Move{}, fmt.Errorf("%w: %q: bad suffix %q", ErrMoveSyntax, token, rest)
		}
		promo = PieceFromChar(rest[1]).Type()
		if promo == NoPieceType || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("%w: %q: bad promotion piece", ErrMoveSyntax, token)
		}
	}

	return p.findMove(token, func(m Move) bool {
		if m.From != from || m.To != to {
			return false
		}
		if pieceType != NoPieceType && m.Piece.Type() != pieceType {
			return false
		}
		return m.Kind != Promotion || m.Promotion.Type() == promo
	})
}

// ParseUCI reads a move in UCI coordinate form and returns the matching legal move.
func (p *Position) ParseUCI(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrMoveSyntax, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrMoveSyntax, s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrMoveSyntax, s, err)
	}

	promo := NoPieceType
	if len(s) == 5 {
		promo = PieceFromChar(strings.ToUpper(s[4:])[0]).Type()
		if promo == NoPieceType || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("%w: %q: bad promotion piece", ErrMoveSyntax, s)
		}
	}

	return p.findMove(s, func(m Move) bool {
		if m.From != from || m.To != to {
			return false
		}
		if m.Kind == Promotion {
			return m.Promotion.Type() == promo
		}
		return promo == NoPieceType
	})
}

func (p *Position) findMove(token string, match func(Move) bool) (Move, error) {
	for _, m := range p.legalMoves() {
		if match(m) {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %q in %s", ErrNoSuchMove, token, p.FEN())
}

// tacticalBonus lifts captures and promotions above every quiet move.
const tacticalBonus = 32

// ScoreMove is the ordering key of a legal move, higher first. Captures and promotions rank
// above quiet moves by the worth of the captured and promoted pieces, less the mover's worth
// when the destination is attacked by more enemy pieces than it is defended by.
func (p *Position) ScoreMove(m Move) int {
	if m.Kind == Resign {
		return -tacticalBonus
	}
	gain := m.Captured.Worth() + m.Promotion.Worth()
	if gain == 0 {
		return 0
	}
	us := m.Piece.Color()
	if p.attacks[us.Other()][m.To] > p.attacks[us][m.To] {
		gain -= m.Piece.Worth()
	}
	return tacticalBonus + gain
}
