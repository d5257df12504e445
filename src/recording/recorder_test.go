package recording

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
)

func setupRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "test"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func testRun(t *testing.T) (RunInfo, *cahnhilliard.Field, *cahnhilliard.Clock) {
	t.Helper()
	g, err := cahnhilliard.NewGrid(8, 6, 1, 1)
	require.NoError(t, err)
	m, err := cahnhilliard.NewMaterial(0.4, 1, 0.5, 1)
	require.NoError(t, err)
	f, err := cahnhilliard.NewMicrostructure(g, m, 0.1, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	c, err := cahnhilliard.NewClock(20, 10, 0.01, 0)
	require.NoError(t, err)

	info := RunInfo{
		Grid:      g,
		Material:  m,
		TimeStep:  c.TimeStep,
		Noise:     0.1,
		Seed:      8,
		CreatedAt: time.Unix(1700000000, 42),
	}
	return info, f, c
}

func TestOpenCreatesFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "run")
	r, err := Open(base)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, base+".sqlite3", r.Path())
	_, err = os.Stat(r.Path())
	require.NoError(t, err)

	var name string
	err = r.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='energy'`).Scan(&name)
	require.NoError(t, err, "energy table should be created")
	assert.Equal(t, "energy", name)
}

func TestOpenRejectsExistingFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "run")
	require.NoError(t, os.WriteFile(base+".sqlite3", nil, 0o644))

	_, err := Open(base)
	assert.Error(t, err)
}

func TestStartRunRoundTrip(t *testing.T) {
	r := setupRecorder(t)
	info, _, _ := testRun(t)
	ctx := context.Background()

	id, err := r.StartRun(ctx, info)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := r.Run(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, info.Grid, got.Grid)
	assert.Equal(t, info.Material, got.Material)
	assert.Equal(t, info.TimeStep, got.TimeStep)
	assert.Equal(t, info.Seed, got.Seed)
	assert.True(t, info.CreatedAt.Equal(got.CreatedAt))

	_, err = r.Run(ctx, "missing")
	assert.Error(t, err)
}

func TestObserverRecordsDriverDiagnostics(t *testing.T) {
	r := setupRecorder(t)
	info, f, c := testRun(t)
	ctx := context.Background()

	id, err := r.StartRun(ctx, info)
	require.NoError(t, err)

	d, err := cahnhilliard.NewDriver(f, c, cahnhilliard.Options{
		EnergyCheckInterval: 5,
		EnergyTolerance:     1,
		Observer:            r.Observer(id),
	})
	require.NoError(t, err)
	require.NoError(t, d.Run(ctx))

	got, err := r.Energies(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, d.EnergyTrace(), got)

	var n int
	require.NoError(t, r.DB().QueryRow(`SELECT COUNT(*) FROM progress WHERE run_id = ?`, id).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestFlushInBatches(t *testing.T) {
	r := setupRecorder(t)
	r.batchSize = 3

	for step := 0; step < 7; step++ {
		require.NoError(t, r.RecordEnergy("run", cahnhilliard.EnergySample{Step: step, Energy: float64(10 - step)}))
	}

	var n int
	require.NoError(t, r.DB().QueryRow(`SELECT COUNT(*) FROM energy`).Scan(&n))
	assert.Equal(t, 6, n, "two full batches should be written")
	assert.Len(t, r.energy, 1)

	require.NoError(t, r.Flush(context.Background()))
	require.NoError(t, r.DB().QueryRow(`SELECT COUNT(*) FROM energy`).Scan(&n))
	assert.Equal(t, 7, n)
}

func TestSnapshots(t *testing.T) {
	r := setupRecorder(t)
	info, f, c := testRun(t)
	ctx := context.Background()

	id, err := r.StartRun(ctx, info)
	require.NoError(t, err)

	_, err = r.LatestSnapshot(ctx, id)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, r.RecordSnapshot(ctx, id, f, c))

	d, err := cahnhilliard.NewDriver(f, c, cahnhilliard.Options{})
	require.NoError(t, err)
	require.NoError(t, d.Run(ctx))
	require.NoError(t, r.RecordSnapshot(ctx, id, f, c))

	snap, err := r.LatestSnapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 20, snap.Step)
	assert.InDelta(t, 0.2, snap.Time, 1e-12)

	restored, err := snap.Restore()
	require.NoError(t, err)
	assert.True(t, mat.Equal(f.Value(), restored.Value()))
}
