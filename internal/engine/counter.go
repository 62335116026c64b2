package engine

import (
	"fmt"
	"time"
)

// Counter enumerates the game tree to a fixed depth and counts its leaves (perft). As a
// Player it never chooses a move.
type Counter[P Position[P, M], M any] struct {
	opts  options
	depth int
	last  SearchInfo
}

// NewCounter creates a counting agent.
func NewCounter[P Position[P, M], M any](depth int, opts ...Option) *Counter[P, M] {
	a := &Counter[P, M]{opts: defaultOptions(), depth: max(depth, 0)}
	a.opts.apply(opts, "counter(depth=%d)", a.depth)
	return a
}

// Name returns the agent's diagnostic name.
func (a *Counter[P, M]) Name() string {
	return a.opts.name
}

// Evaluator returns an evaluator that scores every position 0.
func (a *Counter[P, M]) Evaluator() Evaluator[P] {
	return EvaluatorFunc[P](neutral[P])
}

// LastSearch returns the statistics of the most recent count.
func (a *Counter[P, M]) LastSearch() SearchInfo {
	return a.last
}

// Play counts the leaves below pos and returns no move.
func (a *Counter[P, M]) Play(pos P) (M, bool) {
	var none M
	a.Count(pos)
	return none, false
}

// Count returns the number of leaf positions depth plies below pos.
func (a *Counter[P, M]) Count(pos P) int64 {
	start := time.Now()
	n := a.count(pos, a.depth)
	a.last = a.opts.report(int(n), 0, start)
	return n
}

// Divide returns the leaf count below each legal move.
func (a *Counter[P, M]) Divide(pos P) map[string]int64 {
	out := make(map[string]int64)
	if a.depth == 0 {
		return out
	}
	for _, m := range pos.LegalMoves() {
		out[fmt.Sprint(m)] = a.countAfter(pos, m, a.depth-1)
	}
	return out
}

func (a *Counter[P, M]) countAfter(pos P, m M, depth int) int64 {
	pos.Apply(m)
	defer pos.Undo()
	return a.count(pos, depth)
}

func (a *Counter[P, M]) count(pos P, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := pos.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var n int64
	for _, m := range moves {
		n += a.countAfter(pos, m, depth-1)
	}
	return n
}
