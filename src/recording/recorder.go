// Package recording stores simulation runs in SQLite: run parameters, the
// free-energy trace, progress lines and resumable field snapshots.
package recording

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	// Pure Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
)

const defaultBatchSize = 10000

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	nx         INTEGER NOT NULL,
	ny         INTEGER NOT NULL,
	dx         REAL NOT NULL,
	dy         REAL NOT NULL,
	avg        REAL NOT NULL,
	mobility   REAL NOT NULL,
	kappa      REAL NOT NULL,
	barrier    REAL NOT NULL,
	time_step  REAL NOT NULL,
	noise      REAL NOT NULL,
	seed       INTEGER NOT NULL,
	created_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS energy (
	run_id TEXT NOT NULL,
	step   INTEGER NOT NULL,
	time   REAL NOT NULL,
	energy REAL NOT NULL,
	delta  REAL NOT NULL,
	drift  INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS progress (
	run_id TEXT NOT NULL,
	step   INTEGER NOT NULL,
	time   REAL NOT NULL,
	energy REAL NOT NULL,
	mean   REAL NOT NULL,
	min    REAL NOT NULL,
	max    REAL NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
	run_id TEXT NOT NULL,
	step   INTEGER NOT NULL,
	time   REAL NOT NULL,
	data   BLOB NOT NULL
)`,
}

// RunInfo describes one simulation run.
type RunInfo struct {
	ID        string
	Grid      cahnhilliard.Grid
	Material  cahnhilliard.Material
	TimeStep  float64
	Noise     float64
	Seed      int64
	CreatedAt time.Time
}

type energyRow struct {
	runID string
	s     cahnhilliard.EnergySample
}

type progressRow struct {
	runID string
	p     cahnhilliard.Progress
}

// Recorder writes run data to a SQLite database. Energy and progress rows
// are buffered and written in one transaction per Flush.
type Recorder struct {
	db        *sql.DB
	path      string
	batchSize int

	energy   []energyRow
	progress []progressRow
}

// Open creates a new database file at path + ".sqlite3". An empty path picks
// a unique name. Opening an existing file is an error so runs never mix.
// Buffered rows are flushed when the program exits through atexit.
func Open(path string) (*Recorder, error) {
	if path == "" {
		path = "spinodal_" + xid.New().String()
	}
	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("recording: file %s already exists", filename)
	}

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("recording: open %s: %w", filename, err)
	}

	r, err := NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	r.path = filename

	atexit.Register(func() { _ = r.Flush(context.Background()) })

	return r, nil
}

// NewWithDB uses an already opened database and creates missing tables.
func NewWithDB(db *sql.DB) (*Recorder, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("recording: create schema: %w", err)
		}
	}
	return &Recorder{db: db, batchSize: defaultBatchSize}, nil
}

// Path is the database file name, empty for NewWithDB recorders.
func (r *Recorder) Path() string { return r.path }

// DB exposes the underlying connection for ad-hoc queries.
func (r *Recorder) DB() *sql.DB { return r.db }

// StartRun inserts the run parameters and returns the run id.
func (r *Recorder) StartRun(ctx context.Context, info RunInfo) (string, error) {
	if info.ID == "" {
		info.ID = xid.New().String()
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.ID,
		info.Grid.NX, info.Grid.NY, info.Grid.DX, info.Grid.DY,
		info.Material.AverageConcentration, info.Material.Mobility,
		info.Material.GradientPenalty, info.Material.BarrierHeight,
		info.TimeStep, info.Noise, info.Seed, info.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("recording: insert run: %w", err)
	}
	return info.ID, nil
}

// Run loads the parameters of a run.
func (r *Recorder) Run(ctx context.Context, runID string) (RunInfo, error) {
	var (
		info    RunInfo
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nx, ny, dx, dy, avg, mobility, kappa, barrier, time_step, noise, seed, created_at
		FROM runs WHERE id = ?`, runID,
	).Scan(
		&info.ID,
		&info.Grid.NX, &info.Grid.NY, &info.Grid.DX, &info.Grid.DY,
		&info.Material.AverageConcentration, &info.Material.Mobility,
		&info.Material.GradientPenalty, &info.Material.BarrierHeight,
		&info.TimeStep, &info.Noise, &info.Seed, &created,
	)
	if err != nil {
		return RunInfo{}, fmt.Errorf("recording: load run %s: %w", runID, err)
	}
	info.CreatedAt = time.Unix(0, created)
	return info, nil
}

// RecordEnergy buffers one energy checkpoint.
func (r *Recorder) RecordEnergy(runID string, s cahnhilliard.EnergySample) error {
	r.energy = append(r.energy, energyRow{runID: runID, s: s})
	return r.maybeFlush()
}

// RecordProgress buffers one progress line.
func (r *Recorder) RecordProgress(runID string, p cahnhilliard.Progress) error {
	r.progress = append(r.progress, progressRow{runID: runID, p: p})
	return r.maybeFlush()
}

func (r *Recorder) maybeFlush() error {
	if len(r.energy)+len(r.progress) >= r.batchSize {
		return r.Flush(context.Background())
	}
	return nil
}

// Flush writes every buffered row in a single transaction.
func (r *Recorder) Flush(ctx context.Context) error {
	if len(r.energy) == 0 && len(r.progress) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recording: begin: %w", err)
	}
	defer tx.Rollback()

	if len(r.energy) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO energy VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("recording: prepare energy: %w", err)
		}
		for _, row := range r.energy {
			if _, err := stmt.ExecContext(ctx, row.runID, row.s.Step, row.s.Time, row.s.Energy, row.s.Delta, row.s.Drift); err != nil {
				stmt.Close()
				return fmt.Errorf("recording: insert energy: %w", err)
			}
		}
		stmt.Close()
	}

	if len(r.progress) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO progress VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("recording: prepare progress: %w", err)
		}
		for _, row := range r.progress {
			p := row.p
			if _, err := stmt.ExecContext(ctx, row.runID, p.Step, p.Time, p.Energy, p.Mean, p.Min, p.Max); err != nil {
				stmt.Close()
				return fmt.Errorf("recording: insert progress: %w", err)
			}
		}
		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recording: commit: %w", err)
	}
	r.energy = r.energy[:0]
	r.progress = r.progress[:0]
	return nil
}

// Energies returns the recorded energy trace of a run ordered by step.
// Buffered rows are flushed first.
func (r *Recorder) Energies(ctx context.Context, runID string) ([]cahnhilliard.EnergySample, error) {
	if err := r.Flush(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT step, time, energy, delta, drift FROM energy WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("recording: query energy: %w", err)
	}
	defer rows.Close()

	var out []cahnhilliard.EnergySample
	for rows.Next() {
		var s cahnhilliard.EnergySample
		if err := rows.Scan(&s.Step, &s.Time, &s.Energy, &s.Delta, &s.Drift); err != nil {
			return nil, fmt.Errorf("recording: scan energy: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecordSnapshot stores the current field and clock of a run.
func (r *Recorder) RecordSnapshot(ctx context.Context, runID string, f *cahnhilliard.Field, c *cahnhilliard.Clock) error {
	var buf bytes.Buffer
	if err := cahnhilliard.WriteSnapshot(&buf, f, c); err != nil {
		return fmt.Errorf("recording: %w", err)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots VALUES (?, ?, ?, ?)`, runID, c.Step, c.Time, buf.Bytes())
	if err != nil {
		return fmt.Errorf("recording: insert snapshot: %w", err)
	}
	return nil
}

// ErrNoSnapshot is returned by LatestSnapshot for runs without snapshots.
var ErrNoSnapshot = errors.New("recording: no snapshot")

// LatestSnapshot returns the snapshot with the highest step of a run.
func (r *Recorder) LatestSnapshot(ctx context.Context, runID string) (*cahnhilliard.Snapshot, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE run_id = ? ORDER BY step DESC LIMIT 1`, runID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for run %s", ErrNoSnapshot, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("recording: query snapshot: %w", err)
	}
	return cahnhilliard.ReadSnapshot(bytes.NewReader(data))
}

// Close flushes buffered rows and closes the database.
func (r *Recorder) Close() error {
	if err := r.Flush(context.Background()); err != nil {
		r.db.Close()
		return err
	}
	return r.db.Close()
}
