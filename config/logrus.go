package config

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
)

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(parseLogLevel(os.Getenv("LOG_LEVEL")))
	logg.SetOutput(os.Stdout)
}

func parseLogLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

// LogError records an absorbed failure. The correlation id, when the
// request context carries one, is attached so degraded reads and swallowed
// writes stay traceable to the request that hit them.
func LogError(ctx context.Context, logger *logrus.Logger, moduleName string, funcName string, logContext string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  logContext,
	}
	if ctx != nil {
		if cid, ok := GetCorrelationIdFromContext(ctx); ok {
			fields["correlation_id"] = cid
		}
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
