package logging

import (
	"fmt"
	"io"

	"catalog/manager/internal/config"

	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. Logs go to out (stderr in
// main) so they never interleave with the menu on stdout.
func Setup(cfg config.LogConfig, out io.Writer) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	switch cfg.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	log.SetOutput(out)
	log.SetLevel(level)
	return nil
}
