// Package players builds search agents for both games from configuration.
package players

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/hailam/gameplay/internal/board"
	"github.com/hailam/gameplay/internal/config"
	"github.com/hailam/gameplay/internal/engine"
	"github.com/hailam/gameplay/internal/eval"
	"github.com/hailam/gameplay/internal/tictactoe"
)

// Env carries what agents share with the rest of the program.
type Env struct {
	Store      eval.Store // backs cache.persist; nil disables it
	Log        zerolog.Logger
	SeedOffset uint64 // added to random seeds, so parallel games differ
}

// ChessPlayer is a chess agent.
type ChessPlayer = engine.Player[*board.Position, board.Move]

// TicTacToePlayer is a tic-tac-toe agent.
type TicTacToePlayer = engine.Player[*tictactoe.Board, tictactoe.Move]

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var noClose = closerFunc(func() error { return nil })

// NewChess builds a chess agent. The closer releases an external engine, if any.
func NewChess(a config.Agent, env Env) (ChessPlayer, io.Closer, error) {
	var (
		ev     engine.Evaluator[*board.Position]
		closer io.Closer = noClose
	)

	switch a.Evaluator {
	case "", config.Material:
		ev = engine.EvaluatorFunc[*board.Position](eval.Chess)
	case config.Linear:
		lin, err := eval.NewLinear(eval.ChessFeatures, a.Weights)
		if err != nil {
			return nil, nil, err
		}
		ev = lin
	case config.UCI:
		u, err := eval.NewUCI(eval.UCIConfig{Path: a.UCI.Path, Depth: a.UCI.Depth, Logger: env.Log})
		if err != nil {
			return nil, nil, err
		}
		ev, closer = u, u
	default:
		return nil, nil, fmt.Errorf("%w: evaluator %q for chess", config.ErrInvalid, a.Evaluator)
	}

	ev = cached(ev, a, env, config.Chess)
	return strategy[*board.Position, board.Move](a, ev, env), closer, nil
}

// NewTicTacToe builds a tic-tac-toe agent.
func NewTicTacToe(a config.Agent, env Env) (TicTacToePlayer, error) {
	var ev engine.Evaluator[*tictactoe.Board]

	switch a.Evaluator {
	case "", config.Terminal:
		ev = engine.EvaluatorFunc[*tictactoe.Board](eval.TicTacToe)
	case config.Linear:
		lin, err := eval.NewLinear(eval.TicTacToeFeatures, a.Weights)
		if err != nil {
			return nil, err
		}
		ev = lin
	default:
		return nil, fmt.Errorf("%w: evaluator %q for tictactoe", config.ErrInvalid, a.Evaluator)
	}

	ev = cached(ev, a, env, config.TicTacToe)
	return strategy[*tictactoe.Board, tictactoe.Move](a, ev, env), nil
}

// cached puts the persistent store and then the in-memory table in front of ev.
func cached[P eval.Hashed](ev engine.Evaluator[P], a config.Agent, env Env, game string) engine.Evaluator[P] {
	if a.Cache.Persist && env.Store != nil {
		ev = eval.NewPersistent(ev, env.Store, Namespace(game, a), env.Log)
	}
	if a.Cache.Entries > 0 {
		ev = eval.NewCache(ev, a.Cache.Entries)
	}
	return ev
}

// Namespace names the persisted scores of an evaluator configuration. Linear evaluators are
// told apart by a hash of their weights.
func Namespace(game string, a config.Agent) string {
	name := a.Evaluator
	if name == "" {
		name = "default"
	}

	switch a.Evaluator {
	case config.Linear:
		buf := make([]byte, 0, 8*len(a.Weights))
		for _, w := range a.Weights {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(w))
		}
		return fmt.Sprintf("%s/%s/%016x", game, name, xxhash.Sum64(buf))
	case config.UCI:
		return fmt.Sprintf("%s/%s/depth=%d", game, name, a.UCI.Depth)
	}
	return game + "/" + name
}

func strategy[P engine.Position[P, M], M any](a config.Agent, ev engine.Evaluator[P], env Env) engine.Player[P, M] {
	opts := []engine.Option{engine.WithLogger(env.Log)}
	if a.Name != "" {
		opts = append(opts, engine.WithName(a.Name))
	}

	switch a.Strategy {
	case config.Ordered:
		return engine.NewOrdered[P, M](a.Depth, ev, opts...)
	case config.Budget:
		return engine.NewBudget[P, M](a.Budget, ev, opts...)
	case config.BudgetGain:
		return engine.NewBudget[P, M](a.Budget, ev, append(opts, engine.WithGainBlend())...)
	case config.Random:
		return engine.NewRandom[P, M](a.Seed+env.SeedOffset, opts...)
	default:
		return engine.NewMinimax[P, M](a.Depth, ev, opts...)
	}
}
