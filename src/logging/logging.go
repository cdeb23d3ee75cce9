// Package logging centralizes log level plumbing for the namebench3
// packages. All packages log through logrus; binaries call SetLevel once
// during startup and libraries stay quiet below warn by default.
package logging

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var levelNames = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
}

// SetLevel parses and applies a global log level. Unknown or empty names are
// ignored so a bad flag value never breaks chart generation.
func SetLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	log.SetLevel(l)
}

// TimeTrack logs the elapsed time since start for a labeled phase.
// Intended for defer: defer logging.TimeTrack(time.Now(), "render")
func TimeTrack(start time.Time, label string) {
	log.Debugf("%s took %s", label, time.Since(start))
}
