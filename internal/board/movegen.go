package board

import "slices"

var promotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// LegalMoves returns the legal moves of the side to move. The result is a fresh slice the
// caller may reorder.
func (p *Position) LegalMoves() []Move {
	return slices.Clone(p.legalMoves())
}

// legalMoves returns the cached legal move list, generating it when stale.
func (p *Position) legalMoves() []Move {
	if p.legalValid {
		return p.legal
	}

	var legal []Move
	if !p.resigned {
		pseudo := p.generatePseudoLegal(make([]Move, 0, 48))
		legal = pseudo[:0]
		for _, m := range pseudo {
			if !p.leavesKingAttacked(m) {
				legal = append(legal, m)
			}
		}
	}

	p.legal = legal
	p.legalValid = true
	return legal
}

// leavesKingAttacked applies m, tests the mover's king and takes the move back.
func (p *Position) leavesKingAttacked(m Move) bool {
	us := p.sideToMove
	p.apply(m)
	defer p.undo()
	return p.attacks[us.Other()][p.kings[us]] > 0
}

// generatePseudoLegal appends every move of the side to move that obeys piece movement,
// ignoring whether the mover's king is left attacked.
func (p *Position) generatePseudoLegal(ml []Move) []Move {
	us := p.sideToMove

	for i, pc := range p.squares {
		if pc == NoPiece || pc.Color() != us {
			continue
		}
		from := Square(i)

		switch pt := pc.Type(); pt {
		case Pawn:
			ml = p.generatePawnMoves(ml, from, pc)
		case Knight:
			ml = p.generateLeaperMoves(ml, from, pc, knightTargets[from])
		case King:
			ml = p.generateLeaperMoves(ml, from, pc, kingTargets[from])
			ml = p.generateCastlingMoves(ml, from, pc)
		default:
			for _, d := range sliderDirs(pt) {
				for _, to := range rays[from][d] {
					target := p.squares[to]
					if target == NoPiece {
						ml = append(ml, newMove(from, to, pc, NoPiece))
						continue
					}
					if target.Color() != us {
						ml = append(ml, newMove(from, to, pc, target))
					}
					break
				}
			}
		}
	}

	return ml
}

func (p *Position) generateLeaperMoves(ml []Move, from Square, pc Piece, targets []Square) []Move {
	for _, to := range targets {
		target := p.squares[to]
		if target == NoPiece || target.Color() != pc.Color() {
			ml = append(ml, newMove(from, to, pc, target))
		}
	}
	return ml
}

func (p *Position) generatePawnMoves(ml []Move, from Square, pc Piece) []Move {
	us := pc.Color()
	dr := pawnForward(us)
	startRank, lastRank := 1, 7
	if us == Black {
		startRank, lastRank = 6, 0
	}

	addPawnMove := func(to Square, captured Piece) {
		if to.Rank() != lastRank {
			ml = append(ml, newMove(from, to, pc, captured))
			return
		}
		for _, pt := range promotionTypes {
			ml = append(ml, Move{
				From: from, To: to, Piece: pc, Captured: captured,
				Promotion: NewPiece(pt, us), Kind: Promotion,
			})
		}
	}

	// Pushes
	if one, ok := from.Offset(0, dr); ok && p.squares[one] == NoPiece {
		addPawnMove(one, NoPiece)
		if from.Rank() == startRank {
			if two, _ := one.Offset(0, dr); p.squares[two] == NoPiece {
				ml = append(ml, newMove(from, two, pc, NoPiece))
			}
		}
	}

	// Captures, including en passant
	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(df, dr)
		if !ok {
			continue
		}
		if target := p.squares[to]; target != NoPiece && target.Color() != us {
			addPawnMove(to, target)
		} else if to == p.enPassant && p.squares[NewSquare(to.File(), from.Rank())] == NewPiece(Pawn, us.Other()) {
			ml = append(ml, Move{
				From: from, To: to, Piece: pc, Captured: NewPiece(Pawn, us.Other()),
				Promotion: NoPiece, Kind: EnPassant,
			})
		}
	}

	return ml
}

// castlePath lists, per side and wing, the squares that must be empty and the squares the
// king stands on or crosses, which must not be attacked.
var castlePath = [2][2]struct {
	empty   []Square
	transit []Square
	rook    Square
	right   CastlingRights
}{
	{
		{[]Square{F1, G1}, []Square{E1, F1, G1}, H1, WhiteKingSideCastle},
		{[]Square{B1, C1, D1}, []Square{E1, D1, C1}, A1, WhiteQueenSideCastle},
	},
	{
		{[]Square{F8, G8}, []Square{E8, F8, G8}, H8, BlackKingSideCastle},
		{[]Square{B8, C8, D8}, []Square{E8, D8, C8}, A8, BlackQueenSideCastle},
	},
}

func (p *Position) generateCastlingMoves(ml []Move, from Square, pc Piece) []Move {
	us := pc.Color()
	them := us.Other()

	for wing, path := range castlePath[us] {
		if p.castling&path.right == 0 || p.squares[path.rook] != NewPiece(Rook, us) {
			continue
		}
		if !p.allEmpty(path.empty) || p.anyAttacked(path.transit, them) {
			continue
		}
		kind, to := ShortCastle, path.transit[2]
		if wing == 1 {
			kind = LongCastle
		}
		ml = append(ml, Move{From: from, To: to, Piece: pc, Captured: NoPiece, Promotion: NoPiece, Kind: kind})
	}
	return ml
}

func (p *Position) allEmpty(squares []Square) bool {
	for _, sq := range squares {
		if p.squares[sq] != NoPiece {
			return false
		}
	}
	return true
}

func (p *Position) anyAttacked(squares []Square, by Color) bool {
	for _, sq := range squares {
		if p.attacks[by][sq] > 0 {
			return true
		}
	}
	return false
}
