package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger routes zerolog to logFile as JSON when given, otherwise to stderr. Without debug
// the console only carries errors so the live display stays readable.
func InitLogger(debug bool, logFile string) error {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("error opening log file: %v", err)
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return nil
	}
	if !debug {
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}
