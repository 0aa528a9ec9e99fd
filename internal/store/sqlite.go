package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/fuelatlas/fuelatlas/internal/model"
	"github.com/fuelatlas/fuelatlas/internal/shape"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS tracts (
	year            INTEGER NOT NULL,
	gisjoin         TEXT NOT NULL,
	geoid           TEXT NOT NULL,
	fips            TEXT NOT NULL,
	state_fips      TEXT NOT NULL,
	county_fips     TEXT NOT NULL,
	tract_code      TEXT NOT NULL,
	state_abbr      TEXT NOT NULL,
	state_name      TEXT NOT NULL,
	county_name     TEXT NOT NULL,
	total_units     INTEGER NOT NULL,
	total_missing   INTEGER NOT NULL DEFAULT 0,
	count_natural_gas  INTEGER NOT NULL DEFAULT 0,
	count_propane      INTEGER NOT NULL DEFAULT 0,
	count_electricity  INTEGER NOT NULL DEFAULT 0,
	count_fuel_oil     INTEGER NOT NULL DEFAULT 0,
	count_coal         INTEGER NOT NULL DEFAULT 0,
	count_wood         INTEGER NOT NULL DEFAULT 0,
	count_solar        INTEGER NOT NULL DEFAULT 0,
	count_other        INTEGER NOT NULL DEFAULT 0,
	count_no_fuel      INTEGER NOT NULL DEFAULT 0,
	quality         TEXT NOT NULL,
	has_tie         INTEGER NOT NULL DEFAULT 0,
	dominant        TEXT NOT NULL,
	dominant_count  INTEGER,
	dominant_share  REAL,
	pct_natural_gas  REAL,
	pct_propane      REAL,
	pct_electricity  REAL,
	pct_fuel_oil     REAL,
	pct_coal         REAL,
	pct_wood         REAL,
	pct_solar        REAL,
	pct_other        REAL,
	pct_no_fuel      REAL,
	PRIMARY KEY (year, gisjoin)
);

CREATE TABLE IF NOT EXISTS tract_geoms (
	year    INTEGER NOT NULL,
	gisjoin TEXT NOT NULL,
	geom    BLOB NOT NULL,
	PRIMARY KEY (year, gisjoin)
);

CREATE TABLE IF NOT EXISTS load_log (
	id          TEXT PRIMARY KEY,
	year        INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	rows        INTEGER NOT NULL,
	source      TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	loaded_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracts_state ON tracts(year, state_abbr);
CREATE INDEX IF NOT EXISTS idx_tracts_dominant ON tracts(year, dominant);
CREATE INDEX IF NOT EXISTS idx_load_log_year ON load_log(year, loaded_at);
`

// sqliteTimeLayout is fixed-width UTC so lexicographic order in ORDER BY and
// MAX() matches chronological order. modernc/sqlite only decodes time.Time
// for columns with a datetime decltype, which an aggregate result loses, so
// timestamps round-trip as strings.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ReplaceTracts(ctx context.Context, year int, tracts []model.Tract) (int64, error) {
	if err := validateVintage(year, tracts); err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tracts WHERE year = ?`, year); err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete tracts year %d", year)
	}

	cols := tractColumns()
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO tracts (%s) VALUES (%s)`,
		strings.Join(cols, ", "),
		placeholders(len(cols)),
	))
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare tract insert")
	}
	defer func() { _ = stmt.Close() }()

	var n int64
	for _, t := range tracts {
		if _, err := stmt.ExecContext(ctx, tractValues(t)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert tract %s", t.GISJOIN)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tracts")
	}
	return n, nil
}

func (s *SQLiteStore) ReplaceGeometries(ctx context.Context, year int, tracts []shape.Tract) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tract_geoms WHERE year = ?`, year); err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete geometries year %d", year)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tract_geoms (year, gisjoin, geom) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare geometry insert")
	}
	defer func() { _ = stmt.Close() }()

	var n int64
	for _, t := range tracts {
		wkb, err := shape.EncodeWKB(t.Geom)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: encode geometry %s", t.GISJOIN)
		}
		if wkb == nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx, year, t.GISJOIN, wkb); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert geometry %s", t.GISJOIN)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit geometries")
	}
	return n, nil
}

func (s *SQLiteStore) Tracts(ctx context.Context, filter TractFilter) ([]model.Tract, error) {
	query := fmt.Sprintf(`SELECT %s FROM tracts WHERE 1=1`, strings.Join(tractColumns(), ", "))
	var args []any

	if filter.Year != 0 {
		query += ` AND year = ?`
		args = append(args, filter.Year)
	}
	if filter.StateAbbr != "" {
		query += ` AND state_abbr = ?`
		args = append(args, filter.StateAbbr)
	}
	if filter.Dominant != "" {
		query += ` AND dominant = ?`
		args = append(args, string(filter.Dominant))
	}
	query += ` ORDER BY gisjoin`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query tracts")
	}
	defer func() { _ = rows.Close() }()

	var tracts []model.Tract
	for rows.Next() {
		t, err := scanTract(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan tract")
		}
		tracts = append(tracts, t)
	}
	return tracts, eris.Wrap(rows.Err(), "sqlite: iterate tracts")
}

func (s *SQLiteStore) Geometries(ctx context.Context, year int) ([]shape.Tract, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT gisjoin, geom FROM tract_geoms WHERE year = ? ORDER BY gisjoin`, year)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query geometries")
	}
	defer func() { _ = rows.Close() }()

	var out []shape.Tract
	for rows.Next() {
		var gisjoin string
		var wkb []byte
		if err := rows.Scan(&gisjoin, &wkb); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan geometry")
		}
		mp, err := shape.DecodeWKB(wkb)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode geometry %s", gisjoin)
		}
		out = append(out, shape.Tract{GISJOIN: gisjoin, Geom: mp})
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate geometries")
}

func (s *SQLiteStore) YearStatuses(ctx context.Context) ([]model.YearStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
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
		return nil, eris.Wrap(err, "sqlite: query year statuses")
	}
	defer func() { _ = rows.Close() }()

	var statuses []model.YearStatus
	for rows.Next() {
		var st model.YearStatus
		var loaded sql.NullString
		if err := rows.Scan(&st.Year, &st.Tracts, &st.Valid, &st.Ties, &st.NoData, &st.Geometries, &loaded); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan year status")
		}
		if loaded.Valid {
			ts, err := time.Parse(sqliteTimeLayout, loaded.String)
			if err != nil {
				return nil, eris.Wrapf(err, "sqlite: parse last load time %q", loaded.String)
			}
			st.LastLoadedAt = ts
		}
		statuses = append(statuses, st)
	}
	return statuses, eris.Wrap(rows.Err(), "sqlite: iterate year statuses")
}

func (s *SQLiteStore) AppendLoad(ctx context.Context, rec model.LoadRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO load_log (id, year, kind, rows, source, duration_ms, loaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Year, rec.Kind, rec.Rows, rec.Source, rec.Duration.Milliseconds(),
		rec.LoadedAt.UTC().Format(sqliteTimeLayout),
	)
	return eris.Wrap(err, "sqlite: append load log")
}

func (s *SQLiteStore) Loads(ctx context.Context, limit int) ([]model.LoadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, year, kind, rows, source, duration_ms, loaded_at FROM load_log ORDER BY loaded_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query load log")
	}
	defer func() { _ = rows.Close() }()

	var recs []model.LoadRecord
	for rows.Next() {
		var rec model.LoadRecord
		var durMS int64
		var loaded string
		if err := rows.Scan(&rec.ID, &rec.Year, &rec.Kind, &rec.Rows, &rec.Source, &durMS, &loaded); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan load log")
		}
		rec.LoadedAt, err = time.Parse(sqliteTimeLayout, loaded)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse load time %q", loaded)
		}
		rec.Duration = time.Duration(durMS) * time.Millisecond
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: iterate load log")
}

// placeholders returns n comma-separated "?" placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
