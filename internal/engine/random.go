package engine

import "golang.org/x/exp/rand"

// Random plays a uniformly chosen legal move.
type Random[P Position[P, M], M any] struct {
	opts options
	rng  *rand.Rand
}

// NewRandom creates a random agent; equal seeds replay equal games.
func NewRandom[P Position[P, M], M any](seed uint64, opts ...Option) *Random[P, M] {
	a := &Random[P, M]{opts: defaultOptions(), rng: rand.New(rand.NewSource(seed))}
	a.opts.apply(opts, "random(seed=%d)", seed)
	return a
}

// Name returns the agent's diagnostic name.
func (a *Random[P, M]) Name() string {
	return a.opts.name
}

// Evaluator returns an evaluator that scores every position 0.
func (a *Random[P, M]) Evaluator() Evaluator[P] {
	return EvaluatorFunc[P](neutral[P])
}

// Play picks one legal move at random.
func (a *Random[P, M]) Play(pos P) (M, bool) {
	var none M
	if pos.Outcome().Over() {
		return none, false
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return none, false
	}
	m := moves[a.rng.Intn(len(moves))]
	a.opts.log.Debug().Str("agent", a.opts.name).Int("choices", len(moves)).Msg("random move")
	return m, true
}
