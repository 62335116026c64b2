package eval

import (
	"github.com/rs/zerolog"

	"github.com/hailam/gameplay/internal/engine"
)

// Store keeps evaluations between runs; *storage.Storage implements it.
type Store interface {
	GetEval(namespace string, hash uint64) (float64, bool, error)
	PutEval(namespace string, hash uint64, score float64) error
}

// Persistent looks positions up in a Store before evaluating them and writes new scores
// back. Store failures are logged and the score is computed as if the store were absent.
// Like Cache, decided positions are never stored.
type Persistent[P Hashed] struct {
	inner     engine.Evaluator[P]
	store     Store
	namespace string
	log       zerolog.Logger
}

// NewPersistent wraps inner. The namespace separates evaluators sharing one store.
func NewPersistent[P Hashed](inner engine.Evaluator[P], store Store, namespace string, log zerolog.Logger) *Persistent[P] {
	return &Persistent[P]{inner: inner, store: store, namespace: namespace, log: log}
}

// Evaluate implements engine.Evaluator.
func (p *Persistent[P]) Evaluate(pos P) float64 {
	if pos.Outcome().Over() {
		return p.inner.Evaluate(pos)
	}

	hash := pos.Hash()
	score, found, err := p.store.GetEval(p.namespace, hash)
	if err != nil {
		p.log.Warn().Err(err).Str("namespace", p.namespace).Uint64("hash", hash).Msg("eval lookup failed")
	}
	if found {
		return score
	}

	score = p.inner.Evaluate(pos)
	if err := p.store.PutEval(p.namespace, hash, score); err != nil {
		p.log.Warn().Err(err).Str("namespace", p.namespace).Uint64("hash", hash).Msg("eval store failed")
	}
	return score
}
