package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init replaces the global zap logger; call sites use zap.L().
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch environment {
	case "production", "staging":
		l, err = zap.NewProduction()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build %s logger -> %w", environment, err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
