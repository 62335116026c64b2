package engine

import (
	"math"
	"time"

	"github.com/hailam/gameplay/internal/game"
)

// gainWeight is the weight gain blending gives to the difference between the static
// evaluation one level up and a child's score.
const gainWeight = 0.01

// Budget searches without a depth limit, spending a fixed number of evaluations per move.
//
// Each pass walks the tree depth-first from a nominal budget: every move receives the
// unspent budget divided by the number of moves still to be examined, so unused budget flows
// to later siblings, and a node whose share cannot give every child at least one evaluation
// is scored as a leaf. Passes are repeated with a doubled nominal budget until the allotted
// evaluations run out or a pass reaches every leaf of the tree. A pass cut short by the
// allotment is discarded; the move of the last complete pass is played.
type Budget[P Position[P, M], M any] struct {
	opts   options
	budget int
	eval   Evaluator[P]
	last   SearchInfo

	// per search
	spent     int
	limit     int
	aborted   bool
	truncated bool
}

// NewBudget creates a node-budget alpha-beta agent.
func NewBudget[P Position[P, M], M any](budget int, eval Evaluator[P], opts ...Option) *Budget[P, M] {
	a := &Budget[P, M]{opts: defaultOptions(), budget: max(budget, 1), eval: eval}
	for _, opt := range opts {
		opt(&a.opts)
	}
	format := "budget(nodes=%d)"
	if a.opts.gain {
		format = "budget-gain(nodes=%d)"
	}
	a.opts.apply(nil, format, a.budget)
	return a
}

// Name returns the agent's diagnostic name.
func (a *Budget[P, M]) Name() string {
	return a.opts.name
}

// Evaluator returns the evaluator consulted at the search frontier.
func (a *Budget[P, M]) Evaluator() Evaluator[P] {
	return a.eval
}

// Budget returns the number of evaluations allowed per move.
func (a *Budget[P, M]) Budget() int {
	return a.budget
}

// LastSearch returns statistics of the most recent search.
func (a *Budget[P, M]) LastSearch() SearchInfo {
	return a.last
}

// Play returns the best move for the side to move. pos is unchanged on return.
func (a *Budget[P, M]) Play(pos P) (M, bool) {
	m, _, ok := a.Search(pos)
	return m, ok
}

// Search returns the best move and its backed-up score. When the budget cannot pay for one
// evaluation per legal move (plus the root's own evaluation with gain blending) it is raised
// to that amount.
func (a *Budget[P, M]) Search(pos P) (best M, score float64, ok bool) {
	start := time.Now()

	if pos.Outcome().Over() {
		return best, 0, false
	}
	moves := a.candidates(pos)
	if len(moves) == 0 {
		return best, 0, false
	}

	floor := len(moves)
	if a.opts.gain {
		floor++
	}
	a.limit = max(a.budget, floor)
	a.spent = 0

	var rootEval float64
	if a.opts.gain {
		a.spent++
		rootEval = a.eval.Evaluate(pos)
	}

	passes := 0
	for nominal := len(moves); ; nominal *= 2 {
		m, v, complete := a.pass(pos, moves, nominal, rootEval)
		if !complete {
			break
		}
		best, score = m, v
		passes++
		if !a.truncated || a.spent >= a.limit || nominal > math.MaxInt/4 {
			break
		}
	}

	a.last = a.opts.report(a.spent, score, start)
	a.opts.log.Trace().Str("agent", a.opts.name).Int("passes", passes).Int("allotted", a.limit).Msg("budget spent")
	return best, score, true
}

// pass searches every root move from a nominal budget. It reports false when the allotment
// ran out before the pass finished.
func (a *Budget[P, M]) pass(pos P, moves []M, nominal int, rootEval float64) (best M, score float64, complete bool) {
	a.aborted = false
	a.truncated = false

	maximizing := pos.Turn() == game.First
	alpha, beta := math.Inf(-1), math.Inf(1)
	score = worst(maximizing)
	best = moves[0]

	remaining := nominal
	for i, m := range moves {
		before := a.spent
		v := a.child(pos, m, remaining/(len(moves)-i), alpha, beta, rootEval)
		if a.aborted {
			return best, score, false
		}
		remaining -= a.spent - before
		if improves(maximizing, v, score) {
			best, score = m, v
		}
		if maximizing {
			alpha = max(alpha, score)
		} else {
			beta = min(beta, score)
		}
	}
	return best, score, true
}

func (a *Budget[P, M]) child(pos P, m M, budget int, alpha, beta, parent float64) float64 {
	pos.Apply(m)
	defer pos.Undo()
	return a.search(pos, budget, alpha, beta, parent)
}

// search returns the node's value, spending at most budget evaluations. parent is the static
// evaluation of the node's parent, used only by gain blending.
func (a *Budget[P, M]) search(pos P, budget int, alpha, beta, parent float64) float64 {
	if a.spent >= a.limit {
		a.aborted = true
		return 0
	}
	begin := a.spent

	over := pos.Outcome().Over()
	var moves []M
	if !over {
		moves = pos.LegalMoves()
	}

	funds := budget
	if a.opts.gain {
		funds--
	}
	expand := !over && funds > 1 && funds >= len(moves)
	if a.opts.gain && !over {
		expand = funds >= len(moves)
	}

	var static float64
	if !expand || a.opts.gain {
		a.spent++
		static = a.eval.Evaluate(pos)
	}
	if !expand {
		if !over {
			a.truncated = true
		}
		return static
	}

	if a.opts.ordered {
		orderMoves[M](pos, moves)
	}

	maximizing := pos.Turn() == game.First
	value := worst(maximizing)
	for i, m := range moves {
		share := (budget - (a.spent - begin)) / (len(moves) - i)
		v := a.child(pos, m, share, alpha, beta, static)
		if a.aborted {
			return 0
		}
		if a.opts.gain {
			v = (1-gainWeight)*v + gainWeight*(parent-v)
		}
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

func (a *Budget[P, M]) candidates(pos P) []M {
	moves := pos.LegalMoves()
	if a.opts.ordered {
		orderMoves[M](pos, moves)
	}
	return moves
}
