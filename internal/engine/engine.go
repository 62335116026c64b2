// Package engine implements game-tree search agents over any two-player position that can
// list, apply and undo its moves.
package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/gameplay/internal/game"
)

// Position is the contract a game offers to the search. Apply must only be given moves from
// LegalMoves of the same position, and every Apply is balanced by one Undo.
type Position[P any, M any] interface {
	LegalMoves() []M
	Apply(M)
	Undo()
	Outcome() game.Outcome
	Turn() game.Side
	Clone() P
}

// Evaluator scores a position; positive favors the first side. It must not change the position.
type Evaluator[P any] interface {
	Evaluate(P) float64
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc[P any] func(P) float64

// Evaluate calls f(pos).
func (f EvaluatorFunc[P]) Evaluate(pos P) float64 {
	return f(pos)
}

// Player chooses moves. Play returns false when the position has no move to play, which the
// caller treats as a decided game.
type Player[P any, M any] interface {
	Play(P) (M, bool)
	Name() string
	Evaluator() Evaluator[P]
}

// SearchInfo describes the most recent search of an agent.
type SearchInfo struct {
	Nodes   int
	Score   float64
	Elapsed time.Duration
}

// Reporter is implemented by agents that keep statistics about their last search.
type Reporter interface {
	LastSearch() SearchInfo
}

type options struct {
	name    string
	log     zerolog.Logger
	ordered bool
	pruning bool
	gain    bool
}

func defaultOptions() options {
	return options{log: zerolog.Nop(), pruning: true}
}

// Option configures an agent.
type Option func(*options)

// WithName overrides the agent's diagnostic name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger that receives one debug line per search.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithOrdering sorts moves by the position's ScoreMove before searching them, when the
// position provides one.
func WithOrdering() Option {
	return func(o *options) {
		o.ordered = true
	}
}

// WithoutPruning disables alpha-beta cut-offs, turning the search into plain minimax.
func WithoutPruning() Option {
	return func(o *options) {
		o.pruning = false
	}
}

// WithGainBlend makes the budget search evaluate interior nodes too and blend each child's
// score with the static evaluation above it: 0.99*score + 0.01*(above-score). Interior
// evaluations count against the budget. Other agents ignore it.
func WithGainBlend() Option {
	return func(o *options) {
		o.gain = true
	}
}

func (o *options) apply(opts []Option, defaultName string, args ...any) {
	for _, opt := range opts {
		opt(o)
	}
	if o.name == "" {
		o.name = fmt.Sprintf(defaultName, args...)
	}
}

// report logs the search and returns its SearchInfo.
func (o *options) report(nodes int, score float64, start time.Time) SearchInfo {
	info := SearchInfo{Nodes: nodes, Score: score, Elapsed: time.Since(start)}
	o.log.Debug().
		Str("agent", o.name).
		Int("nodes", info.Nodes).
		Float64("score", info.Score).
		Dur("elapsed", info.Elapsed).
		Msg("search done")
	return info
}

// neutral is the evaluator of agents that never score positions.
func neutral[P any](P) float64 {
	return 0
}
