package main

import (
	"os"
	"strings"

	"github.com/nimasrn/storefront-backoffice/internal/config"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
)

// main.go --env=.env --dir=./migrations
func main() {
	if err := config.Load(getEnvPath()); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Get()
	pgConf := pg.Config{
		User:     cfg.PostgresWriteUser,
		Host:     cfg.PostgresWriteHost,
		Port:     cfg.PostgresWritePort,
		Password: cfg.PostgresWritePassword,
		Database: cfg.PostgresWriteDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	}
	if err := pg.Migrate(pgConf, getMigrationPath()); err != nil {
		logger.Error("migration: error running migrations", "error", err)
		os.Exit(1)
	}
}

func argValue(name string) string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--"+name+"=") {
			return strings.TrimPrefix(v, "--"+name+"=")
		}
	}
	return ""
}

func getEnvPath() string {
	path := argValue("env")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn("env file not found, using process environment", "path", path)
		return ""
	}
	return path
}

func getMigrationPath() string {
	if dir := argValue("dir"); dir != "" {
		return dir
	}
	return "./migrations"
}
