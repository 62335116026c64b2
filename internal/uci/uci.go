// Package uci speaks the Universal Chess Interface for a configured chess agent.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/gameplay/internal/board"
	"github.com/hailam/gameplay/internal/config"
	"github.com/hailam/gameplay/internal/engine"
	"github.com/hailam/gameplay/internal/eval"
	"github.com/hailam/gameplay/internal/players"
)

// UCI implements the Universal Chess Interface protocol. Searches run synchronously, so
// "stop" has nothing to interrupt.
type UCI struct {
	out      io.Writer
	log      zerolog.Logger
	agent    config.Agent
	env      players.Env
	position *board.Position

	player    players.ChessPlayer
	closer    io.Closer
	playerKey string
}

// New creates a protocol handler that answers on out and searches with agent.
func New(out io.Writer, agent config.Agent, env players.Env) *UCI {
	return &UCI{
		out:      out,
		log:      env.Log,
		agent:    agent,
		env:      env,
		position: board.NewPosition(),
	}
}

// Close releases the current agent.
func (u *UCI) Close() error {
	if u.closer == nil {
		return nil
	}
	err := u.closer.Close()
	u.player, u.closer, u.playerKey = nil, nil, ""
	return err
}

// Run reads commands from in until "quit" or end of input.
func (u *UCI) Run(in io.Reader) error {
	defer u.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
		case "eval":
			u.printf("Evaluation: %.2f\n", eval.Chess(u.position))
		case "perft":
			u.handlePerft(args)
		default:
			u.printf("info string unknown command %s\n", cmd)
		}
	}
	return scanner.Err()
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name gameplay")
	u.println("id author gameplay authors")
	u.println("")
	u.printf("option name Strategy type combo default %s var %s var %s var %s var %s var %s\n",
		u.agent.Strategy, config.Minimax, config.Ordered, config.Budget, config.BudgetGain, config.Random)
	u.printf("option name Depth type spin default %d min 0 max 64\n", u.agent.Depth)
	u.printf("option name Nodes type spin default %d min 1 max 100000000\n", max(u.agent.Budget, 1))
	u.println("uciok")
}

// handleNewGame resets the position.
func (u *UCI) handleNewGame() {
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	moveStart := slices.Index(args, "moves")
	if moveStart < 0 {
		moveStart = len(args)
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:moveStart], " "))
		if err != nil {
			u.printf("info string invalid FEN: %v\n", err)
			return
		}
	default:
		return
	}

	if moveStart < len(args) {
		for _, s := range args[moveStart+1:] {
			m, err := pos.ParseUCI(s)
			if err != nil {
				u.printf("info string invalid move: %v\n", err)
				return
			}
			pos.Apply(m)
		}
	}
	u.position = pos
}

// GoOptions holds parsed "go" command options. Time controls are accepted and ignored.
type GoOptions struct {
	Depth int
	Nodes int
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	var opts GoOptions
	for i := 0; i+1 < len(args); i++ {
		switch args[i] {
		case "depth":
			opts.Depth, _ = strconv.Atoi(args[i+1])
			i++
		case "nodes":
			opts.Nodes, _ = strconv.Atoi(args[i+1])
			i++
		}
	}
	return opts
}

// handleGo searches the current position and answers with the best move.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)

	agent := u.agent
	switch {
	case opts.Nodes > 0:
		if agent.Strategy != config.BudgetGain {
			agent.Strategy = config.Budget
		}
		agent.Budget = opts.Nodes
	case opts.Depth > 0:
		if agent.Strategy != config.Ordered {
			agent.Strategy = config.Minimax
		}
		agent.Depth = opts.Depth
	}

	player, err := u.playerFor(agent)
	if err != nil {
		u.printf("info string %v\n", err)
		u.println("bestmove 0000")
		return
	}

	start := time.Now()
	m, ok := player.Play(u.position.Clone())
	if !ok {
		u.println("bestmove 0000")
		return
	}

	if r, isReporter := player.(engine.Reporter); isReporter {
		info := r.LastSearch()
		u.printf("info depth %d nodes %d time %d score %s\n",
			agent.Depth, info.Nodes, time.Since(start).Milliseconds(), u.formatScore(info.Score))
	}
	u.printf("bestmove %s\n", m.UCI())
}

// formatScore converts a white-relative score to the side to move's view, in centipawns or
// as a mate announcement for decided lines.
func (u *UCI) formatScore(score float64) string {
	score *= u.position.Turn().Sign()
	switch {
	case score >= eval.WinScore:
		return "mate 1"
	case score <= -eval.WinScore:
		return "mate -1"
	}
	return fmt.Sprintf("cp %d", int(score*100))
}

// playerFor returns an agent for the configuration, reusing the current one when unchanged.
func (u *UCI) playerFor(agent config.Agent) (players.ChessPlayer, error) {
	key := fmt.Sprintf("%s/%d/%d", agent.Strategy, agent.Depth, agent.Budget)
	if u.player != nil && key == u.playerKey {
		return u.player, nil
	}
	if err := u.Close(); err != nil {
		u.log.Warn().Err(err).Msg("closing previous agent")
	}

	player, closer, err := players.NewChess(agent, u.env)
	if err != nil {
		return nil, err
	}
	u.player, u.closer, u.playerKey = player, closer, key
	u.log.Debug().Str("agent", player.Name()).Msg("agent ready")
	return player, nil
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	// Handle options
	switch strings.ToLower(name) {
	case "strategy":
		agent := u.agent
		agent.Strategy = strings.ToLower(value)
		if (agent.Strategy == config.Budget || agent.Strategy == config.BudgetGain) && agent.Budget < 1 {
			agent.Budget = 1000
		}
		if err := (&config.Config{Game: config.Chess, Games: 1, Parallel: 1, White: agent, Black: agent}).Validate(); err != nil {
			u.printf("info string %v\n", err)
			return
		}
		u.agent = agent
	case "depth":
		if depth, err := strconv.Atoi(value); err == nil && depth >= 0 {
			u.agent.Depth = depth
		}
	case "nodes":
		if nodes, err := strconv.Atoi(value); err == nil && nodes >= 1 {
			u.agent.Budget = nodes
		}
	default:
		u.printf("info string unknown option %s\n", name)
	}
}

// handlePerft counts leaf positions below each legal move.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}
	if depth < 1 {
		depth = 1
	}

	start := time.Now()
	counter := engine.NewCounter[*board.Position, board.Move](depth-1, engine.WithLogger(u.log))
	pos := u.position.Clone()

	var nodes int64
	for _, m := range pos.LegalMoves() {
		pos.Apply(m)
		n := counter.Count(pos)
		pos.Undo()
		u.printf("%s: %d\n", m.UCI(), n)
		nodes += n
	}
	elapsed := time.Since(start)

	u.printf("\nNodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}
