// Package logger provides structured logging with zap.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New creates a zap.Logger for the given environment.
// "production"/"prod" yields JSON output at info level, anything else the development console encoder.
func New(env string) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		log, err = zap.NewProduction()
	default:
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}
