package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/fuelatlas/fuelatlas/internal/store"
)

// initStore opens the configured store backend with migrations applied.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "fuelatlas.db"
		}
		st, err = store.NewSQLite(path)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// parseYears parses a comma-separated year list such as "2015,2020,2023".
// An empty string means every configured vintage.
func parseYears(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return cfg.Years(), nil
	}
	var years []int
	for _, part := range strings.Split(s, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, eris.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	return years, nil
}
