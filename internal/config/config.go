// Package config loads the YAML configuration of the self-play and UCI binaries.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid reports a configuration value out of range.
var ErrInvalid = errors.New("invalid configuration")

// Games
const (
	Chess     = "chess"
	TicTacToe = "tictactoe"
)

// Strategies
const (
	Minimax    = "minimax"
	Ordered    = "ordered"
	Budget     = "budget"
	BudgetGain = "budget-gain"
	Random     = "random"
)

// Evaluators
const (
	Material = "material"
	Terminal = "terminal"
	Linear   = "linear"
	UCI      = "uci"
)

// Config is the top-level configuration.
type Config struct {
	Game     string  `yaml:"game"`
	Start    string  `yaml:"start"`
	Games    int     `yaml:"games"`
	Parallel int     `yaml:"parallel"`
	White    Agent   `yaml:"white"`
	Black    Agent   `yaml:"black"`
	Storage  Storage `yaml:"storage"`
	Log      Log     `yaml:"log"`
}

// Agent selects a search strategy and its evaluator.
type Agent struct {
	Name      string    `yaml:"name"`
	Strategy  string    `yaml:"strategy"`
	Depth     int       `yaml:"depth"`
	Budget    int       `yaml:"budget"`
	Seed      uint64    `yaml:"seed"`
	Evaluator string    `yaml:"evaluator"`
	Weights   []float64 `yaml:"weights"`
	UCI       UCIEngine `yaml:"uci"`
	Cache     Cache     `yaml:"cache"`
}

// UCIEngine locates the external engine of the uci evaluator.
type UCIEngine struct {
	Path  string `yaml:"path"`
	Depth int    `yaml:"depth"`
}

// Cache puts an in-memory table, and optionally the persistent store, in front of the
// evaluator. Zero entries disables the table.
type Cache struct {
	Entries int  `yaml:"entries"`
	Persist bool `yaml:"persist"`
}

// Storage locates the database. An empty Dir selects the per-user data directory.
type Storage struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
	Archive  bool   `yaml:"archive"`
}

// Log sets the log level.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns a chess match between two depth-2 minimax agents.
func Default() Config {
	agent := Agent{Strategy: Minimax, Depth: 2}
	return Config{
		Game:     Chess,
		Games:    1,
		Parallel: 1,
		White:    agent,
		Black:    agent,
		Storage:  Storage{Archive: true},
		Log:      Log{Level: "info"},
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.Game != Chess && c.Game != TicTacToe {
		return fmt.Errorf("%w: game %q", ErrInvalid, c.Game)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: games must be positive, got %d", ErrInvalid, c.Games)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("%w: parallel must be positive, got %d", ErrInvalid, c.Parallel)
	}
	if err := c.White.validate(c.Game); err != nil {
		return fmt.Errorf("white: %w", err)
	}
	if err := c.Black.validate(c.Game); err != nil {
		return fmt.Errorf("black: %w", err)
	}
	return nil
}

func (a *Agent) validate(game string) error {
	switch a.Strategy {
	case Minimax, Ordered:
		if a.Depth < 0 {
			return fmt.Errorf("%w: depth must not be negative, got %d", ErrInvalid, a.Depth)
		}
	case Budget, BudgetGain:
		if a.Budget < 1 {
			return fmt.Errorf("%w: budget must be positive, got %d", ErrInvalid, a.Budget)
		}
	case Random:
	default:
		return fmt.Errorf("%w: strategy %q", ErrInvalid, a.Strategy)
	}

	switch a.Evaluator {
	case "", Linear:
	case Material:
		if game != Chess {
			return fmt.Errorf("%w: evaluator %q needs chess", ErrInvalid, a.Evaluator)
		}
	case Terminal:
		if game != TicTacToe {
			return fmt.Errorf("%w: evaluator %q needs tictactoe", ErrInvalid, a.Evaluator)
		}
	case UCI:
		if game != Chess {
			return fmt.Errorf("%w: evaluator %q needs chess", ErrInvalid, a.Evaluator)
		}
		if a.UCI.Path == "" {
			return fmt.Errorf("%w: uci.path is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: evaluator %q", ErrInvalid, a.Evaluator)
	}

	if a.Cache.Entries < 0 {
		return fmt.Errorf("%w: cache.entries must not be negative, got %d", ErrInvalid, a.Cache.Entries)
	}
	return nil
}
