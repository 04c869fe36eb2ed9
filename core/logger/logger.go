// Package logger provides the process-wide chaincode logger.
package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	envLoggingLevel  = "CORE_CHAINCODE_LOGGING_LEVEL"
	envLoggingFormat = "CORE_CHAINCODE_LOGGING_FORMAT"

	defaultLevel = logrus.WarnLevel
	formatJSON   = "json"
)

var (
	lg   *logrus.Entry
	once sync.Once
)

// Logger returns the logger for chaincode
func Logger() *logrus.Entry {
	once.Do(func() {
		lg = New(os.Getenv(envLoggingLevel), os.Getenv(envLoggingFormat)).
			WithField("module", "chaincode")
	})
	return lg
}

// New builds a stderr logger. An unknown or empty level falls back to warning,
// the format is either "json" or the text formatter.
func New(levelStr, formatStr string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		level = defaultLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(formatStr, formatJSON) {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000 MST"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000 MST"})
	}

	return l
}
