package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
	"github.com/mohammadijoo/CahnHilliard_Go/src/config"
	"github.com/mohammadijoo/CahnHilliard_Go/src/plotting"
	"github.com/mohammadijoo/CahnHilliard_Go/src/recording"
)

// session owns one field/clock pair and its output directory.
type session struct {
	cfg   config.Config
	runID string
	dir   string

	field *cahnhilliard.Field
	clock *cahnhilliard.Clock
	rec   *recording.Recorder
}

func newSession(ctx context.Context, cfg config.Config, runID string, field *cahnhilliard.Field, clock *cahnhilliard.Clock, info recording.RunInfo) (*session, error) {
	dir := filepath.Join(cfg.OutputDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create output dir: %w", err)
	}

	s := &session{cfg: cfg, runID: runID, dir: dir, field: field, clock: clock}
	if !cfg.Record {
		return s, nil
	}

	rec, err := recording.Open(filepath.Join(dir, "run"))
	if err != nil {
		return nil, err
	}
	info.ID = runID
	if _, err := rec.StartRun(ctx, info); err != nil {
		rec.Close()
		return nil, err
	}
	s.rec = rec
	return s, nil
}

// close releases the recorder. Buffered rows that still fail to write are
// logged; the run's own outputs are already on disk by then.
func (s *session) close() {
	if s.rec == nil {
		return
	}
	if err := s.rec.Close(); err != nil {
		log.Printf("warning: closing recorder: %v", err)
	}
}

// run evolves the field by steps, pausing every SnapshotInterval steps to
// save a heatmap and record a snapshot. Outputs are written even if the run
// is interrupted so it can be resumed.
func (s *session) run(ctx context.Context, steps int) error {
	opts := s.cfg.DriverOptions()
	if s.rec != nil {
		opts.Observer = s.rec.Observer(s.runID)
	}

	chunk := s.cfg.SnapshotInterval
	if chunk <= 0 || chunk > steps {
		chunk = steps
	}
	s.clock.TotalSteps = chunk

	driver, err := cahnhilliard.NewDriver(s.field, s.clock, opts)
	if err != nil {
		return err
	}
	log.Printf("Run %s: %dx%d grid, dt=%g (stable up to %g), %d steps",
		s.runID, s.field.Grid().NX, s.field.Grid().NY, s.clock.TimeStep,
		cahnhilliard.StableTimeStep(s.field.Grid(), s.field.Material()), steps)

	// Ctrl-C must not cut a checkpoint or the final outputs short.
	outCtx := context.WithoutCancel(ctx)
	if err := s.checkpoint(outCtx); err != nil {
		return err
	}

	var runErr error
	for done := 0; done < steps; done += s.clock.TotalSteps {
		s.clock.TotalSteps = min(chunk, steps-done)
		if runErr = driver.Run(ctx); runErr != nil {
			break
		}
		if err := s.checkpoint(outCtx); err != nil {
			return err
		}
	}

	if errors.Is(runErr, cahnhilliard.ErrNonFinite) || errors.Is(runErr, cahnhilliard.ErrDriverFailed) {
		// A blown-up field is not worth a snapshot.
		return runErr
	}
	if err := s.finish(outCtx, driver.EnergyTrace()); err != nil {
		return err
	}
	return runErr
}

func (s *session) checkpoint(ctx context.Context) error {
	name := filepath.Join(s.dir, fmt.Sprintf("c_%06d.png", s.clock.Step))
	title := fmt.Sprintf("Concentration, t = %.2f", s.clock.Time)
	if err := plotting.SaveFieldHeatMap(name, title, s.field.Grid(), s.field.Snapshot()); err != nil {
		return fmt.Errorf("cannot save heatmap: %w", err)
	}
	log.Printf("Saved snapshot: %s", name)

	if s.rec != nil {
		if err := s.rec.RecordSnapshot(ctx, s.runID, s.field, s.clock); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) finish(ctx context.Context, trace []cahnhilliard.EnergySample) error {
	if len(trace) > 0 {
		if err := plotting.WriteEnergyCSV(filepath.Join(s.dir, "energy.csv"), trace); err != nil {
			log.Printf("warning: %v", err)
		}
		if err := plotting.SaveEnergyPlot(filepath.Join(s.dir, "energy.png"), trace); err != nil {
			return fmt.Errorf("cannot save energy plot: %w", err)
		}
	}
	if err := plotting.WriteFieldCSV(filepath.Join(s.dir, "field_final.csv"), s.field.Value()); err != nil {
		log.Printf("warning: %v", err)
	}

	f, err := os.Create(filepath.Join(s.dir, "snapshot.json"))
	if err != nil {
		return fmt.Errorf("cannot create snapshot: %w", err)
	}
	defer f.Close()
	if err := cahnhilliard.WriteSnapshot(f, s.field, s.clock); err != nil {
		return err
	}

	if s.rec != nil {
		if err := s.rec.Flush(ctx); err != nil {
			return err
		}
	}

	log.Printf("Spinodal run finished at t=%.4f (step %d). Results are in: %s", s.clock.Time, s.clock.Step, s.dir)
	return nil
}
