// Package logging builds the process-wide zap logger and sanitizes
// sensitive values before they reach startup logs.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger creates the root zap logger for the given environment.
// "local" gets the human-readable development encoder; everything else
// logs production JSON.
func NewLogger(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
