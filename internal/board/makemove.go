package board

// Apply plays m, which must be one of LegalMoves() of this position or Resignation.
// Any other move is a caller defect and panics with *IllegalMoveError.
func (p *Position) Apply(m Move) {
	if m.Kind == Resign {
		if p.resigned {
			panic(&IllegalMoveError{Move: m.String(), FEN: p.FEN()})
		}
		p.apply(Resignation)
		return
	}
	for _, l := range p.legalMoves() {
		if l.Equal(m) {
			p.apply(l)
			return
		}
	}
	panic(&IllegalMoveError{Move: m.String(), FEN: p.FEN()})
}

// Undo takes back the most recent Apply. Undoing with no applied moves panics with ErrEmptyHistory.
func (p *Position) Undo() {
	p.undo()
}

// rookCastle returns the rook's origin and destination for a castling move by c.
func rookCastle(kind Kind, c Color) (Square, Square) {
	from, to := H1, F1
	if kind == LongCastle {
		from, to = A1, D1
	}
	if c == Black {
		from, to = from+56, to+56
	}
	return from, to
}

// enPassantVictim is the square of the pawn taken by an en-passant capture.
func enPassantVictim(m Move) Square {
	return NewSquare(m.To.File(), m.From.Rank())
}

func (p *Position) apply(m Move) {
	m.prevCastling = p.castling
	m.prevHalfMove = p.halfMove
	m.prevEnPassant = p.enPassant
	rec := undoRecord{move: m}
	p.legalValid = false

	if m.Kind == Resign {
		p.resigned = true
		p.history = append(p.history, rec)
		return
	}

	us := p.sideToMove
	p.hash ^= zobristCastling[p.castling] ^ enPassantKey(p.enPassant)

	switch {
	case m.Kind == EnPassant:
		p.removePiece(enPassantVictim(m))
	case m.Captured != NoPiece:
		p.removePiece(m.To)
	}
	p.removePiece(m.From)
	if m.Kind == Promotion {
		p.putPiece(m.Promotion, m.To)
	} else {
		p.putPiece(m.Piece, m.To)
	}
	if m.Kind == ShortCastle || m.Kind == LongCastle {
		rookFrom, rookTo := rookCastle(m.Kind, us)
		p.putPiece(p.removePiece(rookFrom), rookTo)
	}
	if m.Piece.Is(King) {
		p.kings[us] = m.To
	}

	p.castling &^= castleMask[m.From] | castleMask[m.To]

	p.enPassant = NoSquare
	if m.Piece.Is(Pawn) && (m.To-m.From == 16 || m.From-m.To == 16) {
		p.enPassant = (m.From + m.To) / 2
	}

	irreversible := m.IsIrreversible()
	if irreversible {
		p.halfMove = 0
	} else {
		p.halfMove++
	}
	if us == Black {
		p.fullMove++
	}
	p.sideToMove = us.Other()
	p.hash ^= zobristSideToMove ^ zobristCastling[p.castling] ^ enPassantKey(p.enPassant)

	p.computeAttacks()

	// Positions before an irreversible move can never recur.
	if irreversible {
		rec.reps = p.reps
		p.reps = make(map[uint64]int)
	}
	p.reps[p.hash]++
	p.history = append(p.history, rec)
}

func (p *Position) undo() {
	n := len(p.history)
	if n == 0 {
		panic(ErrEmptyHistory)
	}
	rec := p.history[n-1]
	p.history = p.history[:n-1]
	m := rec.move
	p.legalValid = false

	if m.Kind == Resign {
		p.resigned = false
		return
	}

	if c := p.reps[p.hash]; c > 1 {
		p.reps[p.hash] = c - 1
	} else {
		delete(p.reps, p.hash)
	}
	if rec.reps != nil {
		p.reps = rec.reps
	}

	p.hash ^= zobristSideToMove ^ zobristCastling[p.castling] ^ enPassantKey(p.enPassant)
	us := p.sideToMove.Other()
	p.sideToMove = us

	p.removePiece(m.To)
	p.putPiece(m.Piece, m.From)
	if m.Kind == ShortCastle || m.Kind == LongCastle {
		rookFrom, rookTo := rookCastle(m.Kind, us)
		p.putPiece(p.removePiece(rookTo), rookFrom)
	}
	switch {
	case m.Kind == EnPassant:
		p.putPiece(m.Captured, enPassantVictim(m))
	case m.Captured != NoPiece:
		p.putPiece(m.Captured, m.To)
	}
	if m.Piece.Is(King) {
		p.kings[us] = m.From
	}

	p.castling = m.prevCastling
	p.halfMove = m.prevHalfMove
	p.enPassant = m.prevEnPassant
	if us == Black {
		p.fullMove--
	}
	p.hash ^= zobristCastling[p.castling] ^ enPassantKey(p.enPassant)

	p.computeAttacks()
}
