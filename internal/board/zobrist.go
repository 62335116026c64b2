package board

// Zobrist keys. Generated once from a fixed seed so hashes are stable across processes
// and can key persisted data.
var (
	zobristPiece      [12][64]uint64
	zobristEnPassant  [8]uint64
	zobristCastling   [16]uint64
	zobristSideToMove uint64
)

func init() {
	rng := prng{state: 0x98F107A2BEEF1234}

	for p := WhitePawn; p < NoPiece; p++ {
		for sq := range zobristPiece[p] {
			zobristPiece[p][sq] = rng.next()
		}
	}
	for file := range zobristEnPassant {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// xorshift64*
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func pieceKey(p Piece, sq Square) uint64 {
	return zobristPiece[p][sq]
}

func enPassantKey(sq Square) uint64 {
	if sq == NoSquare {
		return 0
	}
	return zobristEnPassant[sq.File()]
}

// computeHash rebuilds the hash from scratch.
func (p *Position) computeHash() uint64 {
	var hash uint64
	for sq, pc := range p.squares {
		if pc != NoPiece {
			hash ^= pieceKey(pc, Square(sq))
		}
	}
	if p.sideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[p.castling]
	hash ^= enPassantKey(p.enPassant)
	return hash
}
