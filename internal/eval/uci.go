package eval

import (
	"errors"
	"fmt"
	"sync"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog"

	"github.com/hailam/gameplay/internal/board"
	"github.com/hailam/gameplay/internal/game"
)

// UCIConfig configures the external engine evaluator.
type UCIConfig struct {
	Path    string
	Depth   int // search depth per evaluation
	HashMB  int
	Threads int
	Logger  zerolog.Logger
}

// UCI evaluates chess positions with an external UCI engine such as Stockfish. Engine scores
// are converted to pawns from white's view; forced mates score WinScore. Evaluations are
// serialized on the single engine process.
type UCI struct {
	mu     sync.Mutex
	engine *uci.Engine
	cfg    UCIConfig
	log    zerolog.Logger
}

// NewUCI starts the engine at cfg.Path.
func NewUCI(cfg UCIConfig) (*UCI, error) {
	if cfg.Path == "" {
		return nil, errors.New("uci engine path required")
	}
	if cfg.Depth == 0 {
		cfg.Depth = 12
	}
	if cfg.HashMB == 0 {
		cfg.HashMB = 64
	}
	if cfg.Threads == 0 {
		cfg.Threads = 1
	}

	engine, err := uci.NewEngine(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	opts := uci.Options{
		Hash:    cfg.HashMB,
		Threads: cfg.Threads,
		MultiPV: 1,
		Ponder:  false,
		OwnBook: false,
	}
	if err := engine.SetOptions(opts); err != nil {
		engine.Close()
		return nil, fmt.Errorf("set options: %w", err)
	}

	return &UCI{engine: engine, cfg: cfg, log: cfg.Logger}, nil
}

// Close stops the engine process.
func (u *UCI) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.engine != nil {
		u.engine.Close()
		u.engine = nil
	}
	return nil
}

// Evaluate implements engine.Evaluator. When the engine fails, the position is scored by
// Chess instead and the failure is logged.
func (u *UCI) Evaluate(pos *board.Position) float64 {
	if score, over := terminal(pos.Outcome()); over {
		return score
	}

	score, err := u.Analyse(pos)
	if err != nil {
		u.log.Warn().Err(err).Str("fen", pos.FEN()).Msg("uci evaluation failed")
		return Chess(pos)
	}
	return score
}

// Analyse runs the engine to the configured depth on pos.
func (u *UCI) Analyse(pos *board.Position) (float64, error) {
	fen := pos.FEN()

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.engine == nil {
		return 0, errors.New("uci engine closed")
	}

	if err := u.engine.SetFEN(fen); err != nil {
		return 0, fmt.Errorf("set FEN: %w", err)
	}
	results, err := u.engine.GoDepth(u.cfg.Depth, uci.HighestDepthOnly)
	if err != nil {
		return 0, fmt.Errorf("engine eval: %w", err)
	}
	if len(results.Results) == 0 {
		return 0, errors.New("no results from engine")
	}

	best := results.Results[0]
	for _, r := range results.Results {
		if r.Depth > best.Depth {
			best = r
		}
	}

	score := engineScore(best.Score, best.Mate, pos.Turn())
	u.log.Debug().
		Str("fen", fen).
		Int("raw", best.Score).
		Bool("mate", best.Mate).
		Float64("score", score).
		Msg("uci evaluation")
	return score, nil
}

// engineScore converts a side-to-move engine score (centipawns, or moves to mate) to pawns
// from white's view.
func engineScore(raw int, mate bool, toMove game.Side) float64 {
	var score float64
	switch {
	case mate && raw > 0:
		score = WinScore
	case mate:
		score = -WinScore
	default:
		score = float64(raw) / 100
	}
	return score * toMove.Sign()
}
