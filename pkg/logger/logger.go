// Package logger builds the zap loggers used by the server and the
// user-movies view-model.
package logger

import (
	"go.uber.org/zap"
)

// NOOPLogger discards everything. It is the default for servers built
// without a logger option and for tests.
var NOOPLogger = zap.NewNop().Sugar()

// New builds a SugaredLogger at the given level. Local environments get the
// human readable development encoder, everything else gets JSON.
func New(level, appEnv string) (*zap.SugaredLogger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if appEnv == "" || appEnv == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zl.Sugar(), nil
}
