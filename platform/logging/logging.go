package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init configures the process-wide logrus logger. LOG_LEVEL falls back to
// info when unset or unparseable.
func Init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
