// Package regression is the "testing collaborator" that config.Options'
// RegressionErrorThreshold is for: it is never consulted by the quantizer
// itself, only by whatever harness compares one run's achieved error against
// a prior baseline. Results are recorded in a SQLite database migrated with
// golang-migrate, keyed by a fresh uuid per recorded run so repeated runs of
// the same clip accumulate a history instead of overwriting each other.
package regression

import (
	"database/sql"
	"embed"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding the recorded history of
// quantization runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and brings
// its schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "regression.Open: opening database")
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "regression.migrateUp: sub filesystem")
	}
	sourceDriver, err := iofs.New(src, ".")
	if err != nil {
		return errors.Wrap(err, "regression.migrateUp: iofs source")
	}
	dbDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return errors.Wrap(err, "regression.migrateUp: sqlite driver")
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return errors.Wrap(err, "regression.migrateUp: migrate instance")
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "regression.migrateUp: applying migrations")
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run is one recorded quantization attempt.
type Run struct {
	ClipID                   uuid.UUID
	AchievedError            float64
	ErrorThreshold           float64
	RegressionErrorThreshold float64
	TotalBytes               int64
	Passed                   bool
}

// Record inserts a new run, deriving Passed from whether achievedError
// stayed within regressionErrorThreshold — the stricter, CI-facing bound
// distinct from the quantizer's own errorThreshold.
func (s *Store) Record(achievedError, errorThreshold, regressionErrorThreshold float64, totalBytes int64) (Run, error) {
	run := Run{
		ClipID:                   uuid.New(),
		AchievedError:            achievedError,
		ErrorThreshold:           errorThreshold,
		RegressionErrorThreshold: regressionErrorThreshold,
		TotalBytes:               totalBytes,
		Passed:                   achievedError <= regressionErrorThreshold,
	}
	_, err := s.db.Exec(
		`INSERT INTO quantization_runs
			(clip_id, achieved_error, error_threshold, regression_error_threshold, total_bytes, passed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ClipID.String(), run.AchievedError, run.ErrorThreshold, run.RegressionErrorThreshold, run.TotalBytes, boolInt(run.Passed),
	)
	if err != nil {
		return Run{}, errors.Wrap(err, "regression.Record: inserting run")
	}
	return run, nil
}

// History returns every recorded run, most recent first, up to limit rows
// (0 means unlimited).
func (s *Store) History(limit int) ([]Run, error) {
	query := `SELECT clip_id, achieved_error, error_threshold, regression_error_threshold, total_bytes, passed
		FROM quantization_runs ORDER BY recorded_at DESC, rowid DESC`
	if limit > 0 {
		query += " LIMIT ?"
	}

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, errors.Wrap(err, "regression.History: querying runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var clipID string
		var passed int
		if err := rows.Scan(&clipID, &run.AchievedError, &run.ErrorThreshold, &run.RegressionErrorThreshold, &run.TotalBytes, &passed); err != nil {
			return nil, errors.Wrap(err, "regression.History: scanning row")
		}
		run.ClipID, err = uuid.Parse(clipID)
		if err != nil {
			return nil, errors.Wrap(err, "regression.History: parsing clip id")
		}
		run.Passed = passed != 0
		out = append(out, run)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
