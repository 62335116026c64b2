package engine

import (
	"cmp"
	"slices"
)

// MoveScorer is implemented by positions that can rank their legal moves for search order,
// higher first.
type MoveScorer[M any] interface {
	ScoreMove(M) int
}

type scoredMove[M any] struct {
	move  M
	score int
}

// orderMoves sorts moves in place by descending score. Moves with equal scores keep their
// generation order. Positions without a MoveScorer are left unchanged.
func orderMoves[M any](pos any, moves []M) {
	scorer, ok := pos.(MoveScorer[M])
	if !ok || len(moves) < 2 {
		return
	}

	scored := make([]scoredMove[M], len(moves))
	for i, m := range moves {
		scored[i] = scoredMove[M]{move: m, score: scorer.ScoreMove(m)}
	}
	slices.SortStableFunc(scored, func(a, b scoredMove[M]) int {
		return cmp.Compare(b.score, a.score)
	})
	for i := range scored {
		moves[i] = scored[i].move
	}
}
