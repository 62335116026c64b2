// Package match plays agents against each other and archives the games.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/gameplay/internal/engine"
	"github.com/hailam/gameplay/internal/game"
	"github.com/hailam/gameplay/internal/storage"
)

// Record is a finished (or capped) game.
type Record struct {
	Game     string
	First    string
	Second   string
	Start    string
	Moves    []string
	Outcome  game.Outcome
	Duration time.Duration
}

// Plies returns the number of moves played.
func (r *Record) Plies() int {
	return len(r.Moves)
}

// Archiver stores finished games; *storage.Storage implements it.
type Archiver interface {
	SaveGame(*storage.GameRecord) error
}

type options struct {
	log      zerolog.Logger
	archive  Archiver
	name     string
	maxPlies int
}

// Option configures Play and RunMany.
type Option func(*options)

// WithLogger sets the logger that receives one line per finished game.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithArchive saves every finished game to a.
func WithArchive(a Archiver) Option {
	return func(o *options) {
		o.archive = a
	}
}

// WithGameName labels records ("chess", "tictactoe").
func WithGameName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithMaxPlies stops a game after n plies, leaving it undecided. Zero means no limit.
func WithMaxPlies(n int) Option {
	return func(o *options) {
		o.maxPlies = n
	}
}

func newOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Play runs one game from start, which is not modified. Each agent is handed a clone of the
// current position. A player with no move ends the game, as does a decided outcome.
func Play[P engine.Position[P, M], M fmt.Stringer](ctx context.Context, start P, first, second engine.Player[P, M], opts ...Option) (Record, error) {
	o := newOptions(opts)
	began := time.Now()

	rec := Record{
		Game:   o.name,
		First:  first.Name(),
		Second: second.Name(),
		Start:  encoding(start),
	}

	pos := start.Clone()
	for {
		if err := ctx.Err(); err != nil {
			return rec, err
		}
		if pos.Outcome().Over() || (o.maxPlies > 0 && rec.Plies() >= o.maxPlies) {
			break
		}

		player := first
		if pos.Turn() == game.Second {
			player = second
		}
		m, ok := player.Play(pos.Clone())
		if !ok {
			break
		}
		pos.Apply(m)
		rec.Moves = append(rec.Moves, m.String())
	}

	rec.Outcome = pos.Outcome()
	rec.Duration = time.Since(began)

	o.log.Info().
		Str("game", rec.Game).
		Str("first", rec.First).
		Str("second", rec.Second).
		Str("result", rec.Outcome.String()).
		Str("reason", rec.Outcome.Reason.String()).
		Int("plies", rec.Plies()).
		Dur("elapsed", rec.Duration).
		Msg("game finished")

	if o.archive != nil {
		if err := o.archive.SaveGame(rec.archived()); err != nil {
			return rec, fmt.Errorf("archive game: %w", err)
		}
	}
	return rec, nil
}

func (r *Record) archived() *storage.GameRecord {
	return &storage.GameRecord{
		Game:     r.Game,
		Start:    r.Start,
		First:    r.First,
		Second:   r.Second,
		Moves:    r.Moves,
		Result:   r.Outcome.String(),
		Reason:   r.Outcome.Reason.String(),
		Played:   time.Now().Add(-r.Duration),
		Duration: r.Duration,
	}
}

// encoding returns the text form of a position, if it has one.
func encoding(pos any) string {
	switch p := pos.(type) {
	case interface{ FEN() string }:
		return p.FEN()
	case interface{ Encoding() string }:
		return p.Encoding()
	}
	return ""
}

// Setup is one game of a series: its start position and agents.
type Setup[P any, M any] struct {
	Start  P
	First  engine.Player[P, M]
	Second engine.Player[P, M]
}

// RunMany plays n games, at most parallel at a time. setup is called once per game index
// and must return agents and a position not shared with any other game. The first error
// cancels the remaining games; records of unplayed games are left zero.
func RunMany[P engine.Position[P, M], M fmt.Stringer](ctx context.Context, n, parallel int, setup func(i int) (Setup[P, M], error), opts ...Option) ([]Record, error) {
	records := make([]Record, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			s, err := setup(i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			rec, err := Play(ctx, s.Start, s.First, s.Second, opts...)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			records[i] = rec
			return nil
		})
	}

	err := g.Wait()
	return records, err
}

// Summary tallies results per agent name.
type Summary struct {
	Games  int
	Draws  int
	Points map[string]float64 // 1 per win, 0.5 per draw
}

// Summarize scores records.
func Summarize(records []Record) Summary {
	s := Summary{Points: make(map[string]float64)}
	for _, r := range records {
		if !r.Outcome.Over() {
			continue
		}
		s.Games++
		switch r.Outcome.Status {
		case game.Drawn:
			s.Draws++
			s.Points[r.First] += 0.5
			s.Points[r.Second] += 0.5
		case game.Decided:
			if r.Outcome.Winner == game.First {
				s.Points[r.First]++
			} else {
				s.Points[r.Second]++
			}
		}
	}
	return s
}
