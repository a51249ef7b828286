package config

import "go.uber.org/zap"

// NewLogger builds the process logger for the configured environment.
// "prod" gets JSON output with sampling; anything else gets the
// human-readable development logger.
func NewLogger(cfg AppConfig) (*zap.Logger, error) {
	if cfg.Env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
