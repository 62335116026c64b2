package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// perft counts the leaf nodes at the given depth through the public apply/undo cycle.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		p.Apply(m)
		nodes += perft(p, depth-1)
		p.Undo()
	}
	return nodes
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		expected []int64
	}{
		{"starting position", StartFEN, []int64{20, 400, 8902}},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []int64{48, 2039}},
		{"position 3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []int64{14, 191, 2812}},
		{"position 4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []int64{6, 264, 9467}},
		{"position 5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []int64{44, 1486}},
		{"en passant pin", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []int64{6, 94}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			require.NoError(t, err)
			before := pos.FEN()

			for i, want := range tc.expected {
				require.Equal(t, want, perft(pos, i+1), "perft(%d)", i+1)
			}
			require.Equal(t, before, pos.FEN())
			require.Zero(t, pos.Plies())
		})
	}
}
