package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/hailam/gameplay/internal/game"
)

// Minimax searches to a fixed depth with alpha-beta pruning. Every root move is followed by
// depth further plies, so depth 0 scores each legal move by evaluating the position it leads to.
type Minimax[P Position[P, M], M any] struct {
	opts  options
	depth int
	eval  Evaluator[P]
	nodes int
	last  SearchInfo
}

// NewMinimax creates a depth-fixed alpha-beta agent.
func NewMinimax[P Position[P, M], M any](depth int, eval Evaluator[P], opts ...Option) *Minimax[P, M] {
	a := &Minimax[P, M]{opts: defaultOptions(), depth: max(depth, 0), eval: eval}
	a.opts.apply(opts, "minimax(depth=%d)", a.depth)
	return a
}

// NewOrdered creates a depth-fixed agent that searches the most promising moves first.
func NewOrdered[P Position[P, M], M any](depth int, eval Evaluator[P], opts ...Option) *Minimax[P, M] {
	name := fmt.Sprintf("ordered-minimax(depth=%d)", max(depth, 0))
	return NewMinimax[P, M](depth, eval, append([]Option{WithOrdering(), WithName(name)}, opts...)...)
}

// Name returns the agent's diagnostic name.
func (a *Minimax[P, M]) Name() string {
	return a.opts.name
}

// Evaluator returns the evaluator consulted at the search frontier.
func (a *Minimax[P, M]) Evaluator() Evaluator[P] {
	return a.eval
}

// Depth returns the search depth.
func (a *Minimax[P, M]) Depth() int {
	return a.depth
}

// LastSearch returns statistics of the most recent search.
func (a *Minimax[P, M]) LastSearch() SearchInfo {
	return a.last
}

// Play returns the best move for the side to move. pos is unchanged on return.
func (a *Minimax[P, M]) Play(pos P) (M, bool) {
	m, _, ok := a.Search(pos)
	return m, ok
}

// Search returns the best move together with its backed-up score.
func (a *Minimax[P, M]) Search(pos P) (best M, score float64, ok bool) {
	start := time.Now()
	a.nodes = 0

	if pos.Outcome().Over() {
		return best, 0, false
	}
	moves := a.candidates(pos)
	if len(moves) == 0 {
		return best, 0, false
	}

	maximizing := pos.Turn() == game.First
	alpha, beta := math.Inf(-1), math.Inf(1)
	score = worst(maximizing)
	best = moves[0]

	for _, m := range moves {
		v := a.child(pos, m, a.depth, alpha, beta)
		if improves(maximizing, v, score) {
			best, score = m, v
		}
		if maximizing {
			alpha = max(alpha, score)
		} else {
			beta = min(beta, score)
		}
	}

	a.last = a.opts.report(a.nodes, score, start)
	return best, score, true
}

func (a *Minimax[P, M]) child(pos P, m M, depth int, alpha, beta float64) float64 {
	pos.Apply(m)
	defer pos.Undo()
	return a.minimax(pos, depth, alpha, beta)
}

func (a *Minimax[P, M]) minimax(pos P, depth int, alpha, beta float64) float64 {
	if depth == 0 || pos.Outcome().Over() {
		a.nodes++
		return a.eval.Evaluate(pos)
	}

	maximizing := pos.Turn() == game.First
	value := worst(maximizing)
	for _, m := range a.candidates(pos) {
		v := a.child(pos, m, depth-1, alpha, beta)
		if maximizing {
			value = max(value, v)
			alpha = max(alpha, value)
		} else {
			value = min(value, v)
			beta = min(beta, value)
		}
		if a.opts.pruning && beta <= alpha {
			break
		}
	}
	return value
}

func (a *Minimax[P, M]) candidates(pos P) []M {
	moves := pos.LegalMoves()
	if a.opts.ordered {
		orderMoves[M](pos, moves)
	}
	return moves
}

// worst is the starting value of a node: the score the side would least like.
func worst(maximizing bool) float64 {
	if maximizing {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

func improves(maximizing bool, v, best float64) bool {
	if maximizing {
		return v > best
	}
	return v < best
}
