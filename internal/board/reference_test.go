package board

import (
	"sort"
	"strings"
	"testing"

	"github.com/freeeve/pgn/v3"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// placementKey keeps placement, side to move and castling rights, the fields both move
// generators render identically.
func placementKey(fen string) string {
	fields := strings.Fields(fen)
	return strings.Join(fields[:3], " ")
}

func referenceChildren(t *testing.T, gs *pgn.GameState) map[string]*pgn.GameState {
	t.Helper()
	packed := gs.Pack()
	children := make(map[string]*pgn.GameState)
	for _, mv := range pgn.GenerateLegalMoves(gs) {
		child := packed.Unpack()
		require.NotNil(t, child)
		require.NoError(t, pgn.ApplyMove(child, mv))
		children[placementKey(child.ToFEN())] = child
	}
	return children
}

func ownChildren(pos *Position) map[string]Move {
	children := make(map[string]Move)
	for _, m := range pos.LegalMoves() {
		pos.Apply(m)
		children[placementKey(pos.FEN())] = m
		pos.Undo()
	}
	return children
}

// TestAgainstReferenceGenerator walks random games and checks, at every ply, that the set of
// successor positions matches an independent move generator.
func TestAgainstReferenceGenerator(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))

	for g := 0; g < 12; g++ {
		pos := NewPosition()
		ref := pgn.NewStartingPosition()

		for ply := 0; ply < 60; ply++ {
			want := referenceChildren(t, ref)
			got := ownChildren(pos)

			keys := make([]string, 0, len(want))
			for k := range want {
				keys = append(keys, k)
				require.Contains(t, got, k, "missing successor of %s", pos.FEN())
			}
			require.Len(t, got, len(want), "extra successors of %s", pos.FEN())
			if len(keys) == 0 || pos.Outcome().Over() {
				break
			}

			sort.Strings(keys)
			next := keys[rng.Intn(len(keys))]
			pos.Apply(got[next])
			ref = want[next]
		}
	}
}
