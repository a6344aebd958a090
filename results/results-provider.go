// Package results archives harness runs to a SQLite database, so timing
// samples survive the process and runs can be compared later.
package results

import (
	"database/sql"
	"time"

	_ "github.com/glebarez/go-sqlite"

	proxybench "github.com/proxy-bench/proxy-bench"
)

type SQLiteResults struct {
	db *sql.DB
}

// RunInfo describes one archived run.
type RunInfo struct {
	ID        string
	StartedAt time.Time
	Samples   int
}

// NewSQLiteResults opens (and if needed initializes) the results db with the
// given filename. If the filename is empty, a new in-memory db is opened.
func NewSQLiteResults(filename string) (SQLiteResults, error) {
	if filename == "" {
		filename = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return SQLiteResults{}, err
	}
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS samples (
			run_id TEXT,
			seq INTEGER,
			operation TEXT,
			response_time REAL,
			status_code INTEGER,
			timestamp INTEGER,
			cache_hit INTEGER,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS samples_run_idx ON samples (run_id)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return SQLiteResults{}, err
		}
	}
	return SQLiteResults{db: db}, nil
}

// SaveRun stores all samples of a completed run under the given run id.
// Samples keep their append order via the seq column.
func (s SQLiteResults) SaveRun(runID string, startedAt time.Time, samples []proxybench.Sample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO runs (id, started_at) VALUES (?, ?)", runID, startedAt.UnixNano()); err != nil {
		tx.Rollback()
		return err
	}
	for i, sm := range samples {
		cacheHit := 0
		if sm.CacheHit {
			cacheHit = 1
		}
		_, err := tx.Exec(`INSERT INTO samples
			(run_id, seq, operation, response_time, status_code, timestamp, cache_hit)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, sm.Operation, sm.ResponseTime, sm.StatusCode, sm.Timestamp.UnixNano(), cacheHit)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Runs lists all archived runs, oldest first.
func (s SQLiteResults) Runs() ([]RunInfo, error) {
	rows, err := s.db.Query(`SELECT r.id, r.started_at, COUNT(sa.seq)
		FROM runs r LEFT JOIN samples sa ON sa.run_id = r.id
		GROUP BY r.id, r.started_at
		ORDER BY r.started_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunInfo, 0)
	for rows.Next() {
		var info RunInfo
		var startedAt int64
		if err := rows.Scan(&info.ID, &startedAt, &info.Samples); err != nil {
			return runs, err
		}
		info.StartedAt = time.Unix(0, startedAt)
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// RunSamples returns one run's samples in their original append order.
func (s SQLiteResults) RunSamples(runID string) ([]proxybench.Sample, error) {
	rows, err := s.db.Query(`SELECT operation, response_time, status_code, timestamp, cache_hit
		FROM samples WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := make([]proxybench.Sample, 0)
	for rows.Next() {
		var sm proxybench.Sample
		var timestamp int64
		var cacheHit int
		if err := rows.Scan(&sm.Operation, &sm.ResponseTime, &sm.StatusCode, &timestamp, &cacheHit); err != nil {
			return samples, err
		}
		sm.Timestamp = time.Unix(0, timestamp)
		sm.CacheHit = cacheHit == 1
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}

func (s SQLiteResults) Close() error {
	return s.db.Close()
}
