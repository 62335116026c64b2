package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/gameplay/internal/config"
	"github.com/hailam/gameplay/internal/logx"
	"github.com/hailam/gameplay/internal/players"
	"github.com/hailam/gameplay/internal/storage"
	"github.com/hailam/gameplay/internal/uci"
)

var (
	configPath = flag.String("config", "", "YAML configuration; the white agent is used")
	logLevel   = flag.String("log", "", "log level, overrides the configuration")
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
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	// stdout belongs to the protocol
	logger, err := logx.NewLogger(os.Stderr, cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}

	env := players.Env{Log: logger}
	if cfg.White.Cache.Persist {
		store, err := storage.Open(cfg.Storage.Dir, storage.WithLogger(logger))
		if err != nil {
			logger.Fatal().Err(err).Msg("open storage")
		}
		defer store.Close()
		env.Store = store
	}

	protocol := uci.New(os.Stdout, cfg.White, env)
	if err := protocol.Run(os.Stdin); err != nil {
		logger.Error().Err(err).Msg("reading commands")
	}
}
