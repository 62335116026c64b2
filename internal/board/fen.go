package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the encoding of the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a position encoding. The half-move clock and full-move number are optional.
func ParseFEN(fen string) (*Position, error) {
	fail := func(err error, format string, args ...any) (*Position, error) {
		return nil, &ConstructionError{FEN: fen, Reason: fmt.Sprintf(format, args...), Err: err}
	}

	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return fail(nil, "need 4 to 6 fields, got %d", len(parts))
	}

	pos := &Position{
		enPassant: NoSquare,
		fullMove:  1,
		reps:      make(map[uint64]int),
	}
	for i := range pos.squares {
		pos.squares[i] = NoPiece
	}

	if reason := parsePiecePlacement(pos, parts[0]); reason != "" {
		return fail(nil, "%s", reason)
	}

	switch parts[1] {
	case "w":
		pos.sideToMove = White
	case "b":
		pos.sideToMove = Black
	default:
		return fail(nil, "invalid side to move %q", parts[1])
	}

	if parts[2] != "-" {
		for _, c := range parts[2] {
			i := strings.IndexRune("KQkq", c)
			if i < 0 {
				return fail(nil, "invalid castling character %q", c)
			}
			pos.castling |= 1 << i
		}
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return fail(err, "invalid en passant square")
		}
		if sq.Rank() != 2 && sq.Rank() != 5 {
			return fail(nil, "en passant square %s not on the 3rd or 6th rank", sq)
		}
		pos.enPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return fail(err, "invalid half-move clock %q", parts[4])
		}
		pos.halfMove = hmc
	}
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return fail(err, "invalid full-move number %q", parts[5])
		}
		pos.fullMove = fmn
	}

	kings := [2]int{}
	for sq, pc := range pos.squares {
		if pc.Is(King) {
			kings[pc.Color()]++
			pos.kings[pc.Color()] = Square(sq)
		}
		if pc.Is(Pawn) && (sq < 8 || sq >= 56) {
			return fail(nil, "pawn on %s", Square(sq))
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fail(ErrMissingKing, "found %d white and %d black kings", kings[White], kings[Black])
	}

	// Rights whose king or rook has left its square are dropped.
	for _, sq := range []Square{E1, H1, A1, E8, H8, A8} {
		want := WhiteRook
		if sq == E1 || sq == E8 {
			want = WhiteKing
		}
		if sq >= A8 {
			want += 6
		}
		if pos.squares[sq] != want {
			pos.castling &^= castleMask[sq]
		}
	}

	pos.computeAttacks()
	if them := pos.sideToMove.Other(); pos.attacks[pos.sideToMove][pos.kings[them]] > 0 {
		return fail(nil, "side not to move is in check")
	}

	pos.hash = pos.computeHash()
	pos.reps[pos.hash] = 1
	return pos, nil
}

// parsePiecePlacement fills the board and returns a reason when the placement is malformed.
func parsePiecePlacement(pos *Position, placement string) string {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Sprintf("need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return fmt.Sprintf("too many squares in rank %d", rank+1)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Sprintf("invalid piece character %q", c)
			}
			pos.squares[NewSquare(file, rank)] = piece
			file++
		}
		if file != 8 {
			return fmt.Sprintf("rank %d has %d squares", rank+1, file)
		}
	}
	return ""
}

// FEN returns the encoding of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.enPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfMove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullMove))

	return sb.String()
}
