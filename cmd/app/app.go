package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stunor/origo-organiser/internal/config"
	"github.com/stunor/origo-organiser/internal/db"
	"github.com/stunor/origo-organiser/internal/logger"
)

const defaultConfigPath = "./cmd/app/config.yml"

func Start() error {
	return newRootCmd().Execute()
}

// bootstrap loads the config, the global logger and the database handle every command needs.
func bootstrap(configPath string) (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	zap.L().Debug("bootstrap done", zap.String("config", configPath))

	return conf, postgresDB, nil
}
