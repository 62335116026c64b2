package board

// Pre-computed target tables. Leapers use fixed offsets clipped at the edges; sliders use
// rays ordered outward from the origin square and are cut at the first occupied square.
var (
	knightTargets [64][]Square
	kingTargets   [64][]Square
	rays          [64][8][]Square
)

// Ray directions: the first four are orthogonal (rook), the last four diagonal (bishop).
var directions = [8][2]int{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	rookDirs      = []int{0, 1, 2, 3}
	bishopDirs    = []int{4, 5, 6, 7}
	queenDirs     = []int{0, 1, 2, 3, 4, 5, 6, 7}
)

func init() {
	for sq := Square(0); sq < 64; sq++ {
		for _, o := range knightOffsets {
			if to, ok := sq.Offset(o[0], o[1]); ok {
				knightTargets[sq] = append(knightTargets[sq], to)
			}
		}
		for d, dir := range directions {
			if to, ok := sq.Offset(dir[0], dir[1]); ok {
				kingTargets[sq] = append(kingTargets[sq], to)
			}
			for to, ok := sq.Offset(dir[0], dir[1]); ok; to, ok = to.Offset(dir[0], dir[1]) {
				rays[sq][d] = append(rays[sq][d], to)
			}
		}
	}
}

// sliderDirs returns the ray directions of a sliding piece type, nil for other types.
func sliderDirs(pt PieceType) []int {
	switch pt {
	case Bishop:
		return bishopDirs
	case Rook:
		return rookDirs
	case Queen:
		return queenDirs
	}
	return nil
}

// pawnForward is the rank step of c's pawns.
func pawnForward(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// computeAttacks rebuilds the per-side attack counters from the piece placement.
func (p *Position) computeAttacks() {
	p.attacks = [2][64]int8{}
	for i, pc := range p.squares {
		if pc == NoPiece {
			continue
		}
		sq := Square(i)
		counts := &p.attacks[pc.Color()]

		switch pt := pc.Type(); pt {
		case Pawn:
			dr := pawnForward(pc.Color())
			for _, df := range [2]int{-1, 1} {
				if to, ok := sq.Offset(df, dr); ok {
					counts[to]++
				}
			}
		case Knight:
			for _, to := range knightTargets[sq] {
				counts[to]++
			}
		case King:
			for _, to := range kingTargets[sq] {
				counts[to]++
			}
		default:
			for _, d := range sliderDirs(pt) {
				for _, to := range rays[sq][d] {
					counts[to]++
					if p.squares[to] != NoPiece {
						break
					}
				}
			}
		}
	}
}

// IsSquareAttacked returns true if any piece of byColor attacks sq.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.attacks[byColor][sq] > 0
}
