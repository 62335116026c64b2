package logx

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog logger configured for console output on w at the named level
// ("trace", "debug", "info", "warn", "error"; empty means info).
func NewLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(level); err != nil {
			return zerolog.Nop(), fmt.Errorf("log level: %w", err)
		}
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	zerolog.CallerMarshalFunc = shortCaller
	logger := zerolog.New(output).Level(lvl).With().Timestamp().Caller().Logger()
	return logger, nil
}

// shortCaller keeps just the file name, padded for alignment.
func shortCaller(pc uintptr, file string, line int) string {
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	return fmt.Sprintf("%-20s", fmt.Sprintf("%s:%d", short, line))
}
