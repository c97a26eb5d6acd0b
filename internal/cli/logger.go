package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the command logger. Output goes to w (stderr when nil) so it never
// mixes with command results on stdout.
func NewLogger(verbose bool, w io.Writer) *logrus.Logger {
	if w == nil {
		w = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       !verbose,
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})

	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// applyLevel sets a level from the settings file unless verbose already forced debug
func applyLevel(logger *logrus.Logger, level string, verbose bool) {
	if verbose || level == "" {
		return
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("log_level", level).Warn("Ignoring unknown log level")
		return
	}
	logger.SetLevel(parsed)
}
