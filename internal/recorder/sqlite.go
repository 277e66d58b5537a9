package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL UNIQUE,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT,
			source        TEXT,
			window_days   INTEGER,
			observations  INTEGER,
			mu            REAL,
			omega         REAL,
			alpha         REAL,
			beta          REAL,
			forecast_vol  REAL,
			threshold     REAL,
			label         TEXT,
			warnings      TEXT,
			status        TEXT NOT NULL,
			error         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts a run summary. A missing run ID is generated.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO runs
		(run_id, timestamp, symbol, source, window_days, observations,
		 mu, omega, alpha, beta, forecast_vol, threshold, label,
		 warnings, status, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, rec.Timestamp.UnixNano(), rec.Symbol, rec.Source, rec.WindowDays, rec.Observations,
		rec.Mu, rec.Omega, rec.Alpha, rec.Beta, rec.ForecastVol, rec.Threshold, rec.Label,
		joinWarnings(rec.Warnings), rec.Status, rec.Error,
	)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, timestamp, symbol, source, window_days, observations,
		mu, omega, alpha, beta, forecast_vol, threshold, label, warnings, status, error
		FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec      RunRecord
			ts       int64
			warnings string
		)
		if err := rows.Scan(&rec.RunID, &ts, &rec.Symbol, &rec.Source, &rec.WindowDays, &rec.Observations,
			&rec.Mu, &rec.Omega, &rec.Alpha, &rec.Beta, &rec.ForecastVol, &rec.Threshold, &rec.Label,
			&warnings, &rec.Status, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Timestamp = time.Unix(0, ts)
		rec.Warnings = splitWarnings(warnings)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
