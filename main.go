// Command gameplay plays configured agents against each other at chess or tic-tac-toe and
// archives the games.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/rs/zerolog"

	"github.com/hailam/gameplay/internal/board"
	"github.com/hailam/gameplay/internal/config"
	"github.com/hailam/gameplay/internal/logx"
	"github.com/hailam/gameplay/internal/match"
	"github.com/hailam/gameplay/internal/players"
	"github.com/hailam/gameplay/internal/storage"
	"github.com/hailam/gameplay/internal/tictactoe"
)

var (
	configPath = flag.String("config", "", "YAML configuration")
	games      = flag.Int("games", 0, "number of games, overrides the configuration")
	swap       = flag.Bool("swap", true, "alternate colours between games")
	maxPlies   = flag.Int("max-plies", 0, "stop games after this many plies (0 = no limit)")
	history    = flag.Bool("history", false, "list archived games and exit")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *games > 0 {
		cfg.Games = *games
	}

	logger, err := logx.NewLogger(os.Stderr, cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("gameplay")
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	needStore := *history || cfg.Storage.Archive || cfg.White.Cache.Persist || cfg.Black.Cache.Persist

	var store *storage.Storage
	if needStore {
		opts := []storage.Option{storage.WithLogger(logger)}
		if cfg.Storage.InMemory {
			opts = append(opts, storage.InMemory())
		}
		var err error
		if store, err = storage.Open(cfg.Storage.Dir, opts...); err != nil {
			return err
		}
		defer store.Close()
	}

	if *history {
		return printHistory(os.Stdout, store)
	}

	var opts []match.Option
	opts = append(opts, match.WithLogger(logger), match.WithGameName(cfg.Game), match.WithMaxPlies(*maxPlies))
	if cfg.Storage.Archive {
		opts = append(opts, match.WithArchive(store))
	}

	env := players.Env{Log: logger}
	if store != nil {
		env.Store = store
	}

	var (
		records []match.Record
		err     error
	)
	switch cfg.Game {
	case config.TicTacToe:
		records, err = playTicTacToe(ctx, cfg, env, opts)
	default:
		records, err = playChess(ctx, cfg, env, opts)
	}
	if err != nil {
		return err
	}

	printSummary(os.Stdout, match.Summarize(records))
	return nil
}

// colours returns the agents of game i, swapped on odd games when alternating.
func colours(cfg config.Config, i int) (first, second config.Agent) {
	if *swap && i%2 == 1 {
		return cfg.Black, cfg.White
	}
	return cfg.White, cfg.Black
}

func playChess(ctx context.Context, cfg config.Config, env players.Env, opts []match.Option) ([]match.Record, error) {
	start := board.NewPosition()
	if cfg.Start != "" {
		var err error
		if start, err = board.ParseFEN(cfg.Start); err != nil {
			return nil, err
		}
	}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	// Agents are built up front; setup runs concurrently.
	setups := make([]match.Setup[*board.Position, board.Move], cfg.Games)
	for i := range setups {
		a, b := colours(cfg, i)
		gameEnv := env
		gameEnv.SeedOffset = uint64(i)

		first, c1, err := players.NewChess(a, gameEnv)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i, err)
		}
		second, c2, err := players.NewChess(b, gameEnv)
		if err != nil {
			c1.Close()
			return nil, fmt.Errorf("game %d: %w", i, err)
		}
		closers = append(closers, c1, c2)
		setups[i] = match.Setup[*board.Position, board.Move]{Start: start.Clone(), First: first, Second: second}
	}

	return match.RunMany(ctx, cfg.Games, cfg.Parallel, func(i int) (match.Setup[*board.Position, board.Move], error) {
		return setups[i], nil
	}, opts...)
}

func playTicTacToe(ctx context.Context, cfg config.Config, env players.Env, opts []match.Option) ([]match.Record, error) {
	start := tictactoe.New()
	if cfg.Start != "" {
		var err error
		if start, err = tictactoe.Parse(cfg.Start); err != nil {
			return nil, err
		}
	}

	return match.RunMany(ctx, cfg.Games, cfg.Parallel, func(i int) (match.Setup[*tictactoe.Board, tictactoe.Move], error) {
		a, b := colours(cfg, i)
		gameEnv := env
		gameEnv.SeedOffset = uint64(i)

		first, err := players.NewTicTacToe(a, gameEnv)
		if err != nil {
			return match.Setup[*tictactoe.Board, tictactoe.Move]{}, err
		}
		second, err := players.NewTicTacToe(b, gameEnv)
		if err != nil {
			return match.Setup[*tictactoe.Board, tictactoe.Move]{}, err
		}
		return match.Setup[*tictactoe.Board, tictactoe.Move]{Start: start.Clone(), First: first, Second: second}, nil
	}, opts...)
}

func printSummary(w io.Writer, s match.Summary) {
	fmt.Fprintf(w, "Games: %d  Draws: %d\n", s.Games, s.Draws)

	names := make([]string, 0, len(s.Points))
	for name := range s.Points {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return s.Points[names[i]] > s.Points[names[j]]
	})
	for _, name := range names {
		fmt.Fprintf(w, "  %-32s %5.1f\n", name, s.Points[name])
	}
}

func printHistory(w io.Writer, store *storage.Storage) error {
	games, err := store.ListGames()
	if err != nil {
		return err
	}
	for _, g := range games {
		fmt.Fprintf(w, "#%d %s %s  %s vs %s  %s (%s), %d plies\n",
			g.ID, g.Played.Format("2006-01-02 15:04"), g.Game, g.First, g.Second, g.Result, g.Reason, len(g.Moves))
	}

	stats, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d games, %d first wins, %d second wins, %.1f%% draws, %d unfinished\n",
		stats.GamesPlayed, stats.FirstWins, stats.SecondWins, stats.DrawRate(), stats.Unfinished)
	return nil
}
