package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process-wide logger. Level comes from LOG_LEVEL, format from
// LOG_FORMAT ("json" or text).
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(new(logrus.JSONFormatter))
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	return log
}
