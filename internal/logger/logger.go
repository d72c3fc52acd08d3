package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New constructs the service logger. Development gets a human-readable
// console writer at debug level, everything else structured JSON at info.
func New(environment string) zerolog.Logger {
	level := zerolog.InfoLevel
	if environment == "development" {
		level = zerolog.DebugLevel
	}

	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Logger()

	if environment == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return log
}
