package main

import (
	"os"
	"strings"

	"github.com/nimasrn/school-finance/internal/config"
	"github.com/nimasrn/school-finance/pkg/logger"
	"github.com/nimasrn/school-finance/pkg/pg"
)

// main applies the goose migrations to the write database.
//
//	cli --env=.env --dir=./migrations
func main() {
	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err = pg.Migrate(config.Get().PostgresWrite(), getMigrationPath()); err != nil {
		logger.Error("migration: error running migrations", "error", err)
		os.Exit(1)
	}
}

func flagValue(name string) (string, bool) {
	for _, v := range os.Args[1:] {
		if strings.HasPrefix(v, name+"=") {
			return strings.TrimPrefix(v, name+"="), true
		}
	}
	return "", false
}

// getEnvPath falls back to ./.env when present.
func getEnvPath() string {
	path, ok := flagValue("--env")
	if !ok {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if ok {
			logger.Error("failed to open the passed env file", "path", path, "error", err)
		}
		return ""
	}
	return path
}

func getMigrationPath() string {
	if path, ok := flagValue("--dir"); ok {
		return path
	}
	return "./migrations"
}
