package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/shape"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS tracts (
	year            SMALLINT NOT NULL,
	gisjoin         TEXT NOT NULL,
	geoid           TEXT NOT NULL,
	fips            TEXT NOT NULL,
	state_fips      TEXT NOT NULL,
	county_fips     TEXT NOT NULL,
	tract_code      TEXT NOT NULL,
	state_abbr      TEXT NOT NULL,
	state_name      TEXT NOT NULL,
	county_name     TEXT NOT NULL,
	total_units     BIGINT NOT NULL,
	total_missing   BOOLEAN NOT NULL DEFAULT FALSE,
	count_natural_gas  BIGINT NOT NULL DEFAULT 0,
	count_propane      BIGINT NOT NULL DEFAULT 0,
	count_electricity  BIGINT NOT NULL DEFAULT 0,
	count_fuel_oil     BIGINT NOT NULL DEFAULT 0,
	count_coal         BIGINT NOT NULL DEFAULT 0,
	count_wood         BIGINT NOT NULL DEFAULT 0,
	count_solar        BIGINT NOT NULL DEFAULT 0,
	count_other        BIGINT NOT NULL DEFAULT 0,
	count_no_fuel      BIGINT NOT NULL DEFAULT 0,
	quality         TEXT NOT NULL,
	has_tie         BOOLEAN NOT NULL DEFAULT FALSE,
	dominant        TEXT NOT NULL,
	dominant_count  BIGINT,
	dominant_share  DOUBLE PRECISION,
	pct_natural_gas  DOUBLE PRECISION,
	pct_propane      DOUBLE PRECISION,
	pct_electricity  DOUBLE PRECISION,
	pct_fuel_oil     DOUBLE PRECISION,
	pct_coal         DOUBLE PRECISION,
	pct_wood         DOUBLE PRECISION,
	pct_solar        DOUBLE PRECISION,
	pct_other        DOUBLE PRECISION,
	pct_no_fuel      DOUBLE PRECISION,
	PRIMARY KEY (year, gisjoin)
);

CREATE TABLE IF NOT EXISTS tract_geoms (
	year    SMALLINT NOT NULL,
	gisjoin TEXT NOT NULL,
	geom    BYTEA NOT NULL,
	PRIMARY KEY (year, gisjoin)
);

CREATE TABLE IF NOT EXISTS load_log (
	id          UUID PRIMARY KEY,
	year        SMALLINT NOT NULL,
	kind        TEXT NOT NULL,
	rows        BIGINT NOT NULL,
	source      TEXT NOT NULL,
	duration_ms BIGINT NOT NULL,
	loaded_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracts_state ON tracts(year, state_abbr);
CREATE INDEX IF NOT EXISTS idx_tracts_dominant ON tracts(year, dominant);
CREATE INDEX IF NOT EXISTS idx_load_log_year ON load_log(year, loaded_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ReplaceTracts(ctx context.Context, year int, tracts []model.Tract) (int64, error) {
	if err := validateVintage(year, tracts); err != nil {
		return 0, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM tracts WHERE year = $1`, year); err != nil {
		return 0, eris.Wrapf(err, "postgres: delete tracts year %d", year)
	}

	rows := make([][]any, len(tracts))
	for i, t := range tracts {
		rows[i] = tractValues(t)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"tracts"}, tractColumns(), pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrap(err, "postgres: copy tracts")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit tracts")
	}
	return n, nil
}

func (s *PostgresStore) ReplaceGeometries(ctx context.Context, year int, tracts []shape.Tract) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM tract_geoms WHERE year = $1`, year); err != nil {
		return 0, eris.Wrapf(err, "postgres: delete geometries year %d", year)
	}

	var rows [][]any
	for _, t := range tracts {
		wkb, err := shape.EncodeWKB(t.Geom)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: encode geometry %s", t.GISJOIN)
		}
		if wkb == nil {
			continue
		}
		rows = append(rows, []any{year, t.GISJOIN, wkb})
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"tract_geoms"}, []string{"year", "gisjoin", "geom"}, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrap(err, "postgres: copy geometries")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit geometries")
	}
	return n, nil
}

func (s *PostgresStore) Tracts(ctx context.Context, filter TractFilter) ([]model.Tract, error) {
	query := fmt.Sprintf(`SELECT %s FROM tracts WHERE TRUE`, strings.Join(tractColumns(), ", "))
	var args []any

	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(` AND year = $%d`, len(args))
	}
	if filter.StateAbbr != "" {
		args = append(args, filter.StateAbbr)
		query += fmt.Sprintf(` AND state_abbr = $%d`, len(args))
	}
	if filter.Dominant != "" {
		args = append(args, string(filter.Dominant))
		query += fmt.Sprintf(` AND dominant = $%d`, len(args))
	}
	query += ` ORDER BY gisjoin`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query tracts")
	}
	defer rows.Close()

	var tracts []model.Tract
	for rows.Next() {
		t, err := scanTract(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan tract")
		}
		tracts = append(tracts, t)
	}
	return tracts, eris.Wrap(rows.Err(), "postgres: iterate tracts")
}

func (s *PostgresStore) Geometries(ctx context.Context, year int) ([]shape.Tract, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT gisjoin, geom FROM tract_geoms WHERE year = $1 ORDER BY gisjoin`, year)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query geometries")
	}
	defer rows.Close()

	var out []shape.Tract
	for rows.Next() {
		var gisjoin string
		var wkb []byte
		if err := rows.Scan(&gisjoin, &wkb); err != nil {
			return nil, eris.Wrap(err, "postgres: scan geometry")
		}
		mp, err := shape.DecodeWKB(wkb)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: decode geometry %s", gisjoin)
		}
		out = append(out, shape.Tract{GISJOIN: gisjoin, Geom: mp})
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate geometries")
}

func (s *PostgresStore) YearStatuses(ctx context.Context) ([]model.YearStatus, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.year,
			COUNT(*),
			COUNT(*) FILTER (WHERE t.quality = 'valid'),
			COUNT(*) FILTER (WHERE t.has_tie),
			COUNT(*) FILTER (WHERE t.dominant = 'No_Data'),
			(SELECT COUNT(*) FROM tract_geoms g WHERE g.year = t.year),
			(SELECT MAX(loaded_at) FROM load_log l WHERE l.year = t.year)
		FROM tracts t
		GROUP BY t.year
		ORDER BY t.year`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query year statuses")
	}
	defer rows.Close()

	var statuses []model.YearStatus
	for rows.Next() {
		var st model.YearStatus
		var loaded *time.Time
		if err := rows.Scan(&st.Year, &st.Tracts, &st.Valid, &st.Ties, &st.NoData, &st.Geometries, &loaded); err != nil {
			return nil, eris.Wrap(err, "postgres: scan year status")
		}
		if loaded != nil {
			st.LastLoadedAt = *loaded
		}
		statuses = append(statuses, st)
	}
	return statuses, eris.Wrap(rows.Err(), "postgres: iterate year statuses")
}

func (s *PostgresStore) AppendLoad(ctx context.Context, rec model.LoadRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO load_log (id, year, kind, rows, source, duration_ms, loaded_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Year, rec.Kind, rec.Rows, rec.Source, rec.Duration.Milliseconds(), rec.LoadedAt.UTC(),
	)
	return eris.Wrap(err, "postgres: append load log")
}

func (s *PostgresStore) Loads(ctx context.Context, limit int) ([]model.LoadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, year, kind, rows, source, duration_ms, loaded_at FROM load_log ORDER BY loaded_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query load log")
	}
	defer rows.Close()

	var recs []model.LoadRecord
	for rows.Next() {
		var rec model.LoadRecord
		var durMS int64
		if err := rows.Scan(&rec.ID, &rec.Year, &rec.Kind, &rec.Rows, &rec.Source, &durMS, &rec.LoadedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan load log")
		}
		rec.Duration = time.Duration(durMS) * time.Millisecond
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: iterate load log")
}
