package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mohammadijoo/CahnHilliard_Go/src/config"
)

// loadConfig reads the environment (and --env-file), then applies every flag
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}

	o := overrider{cmd: cmd}
	o.setInt("nx", &cfg.NX)
	o.setInt("ny", &cfg.NY)
	o.setFloat("dx", &cfg.DX)
	o.setFloat("dy", &cfg.DY)
	o.setFloat("avg", &cfg.AverageConcentration)
	o.setFloat("mobility", &cfg.Mobility)
	o.setFloat("kappa", &cfg.GradientPenalty)
	o.setFloat("barrier", &cfg.BarrierHeight)
	o.setFloat("noise", &cfg.Noise)
	o.setInt64("seed", &cfg.Seed)
	o.setInt("steps", &cfg.TotalSteps)
	o.setInt("print-interval", &cfg.PrintInterval)
	o.setFloat("dt", &cfg.TimeStep)
	o.setInt("energy-interval", &cfg.EnergyCheckInterval)
	o.setFloat("energy-tolerance", &cfg.EnergyTolerance)
	o.setBool("allow-unstable", &cfg.AllowUnstable)
	o.setString("output", &cfg.OutputDir)
	o.setInt("snapshot-interval", &cfg.SnapshotInterval)
	o.setBool("record", &cfg.Record)
	return cfg, o.err
}

func addModelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("nx", 0, "grid points along x (SPINODAL_NX)")
	f.Int("ny", 0, "grid points along y (SPINODAL_NY)")
	f.Float64("dx", 0, "grid spacing along x (SPINODAL_DX)")
	f.Float64("dy", 0, "grid spacing along y (SPINODAL_DY)")
	f.Float64("avg", 0, "average concentration (SPINODAL_AVERAGE_CONCENTRATION)")
	f.Float64("mobility", 0, "mobility M (SPINODAL_MOBILITY)")
	f.Float64("kappa", 0, "gradient penalty κ (SPINODAL_GRADIENT_PENALTY)")
	f.Float64("barrier", 0, "double-well barrier height A (SPINODAL_BARRIER_HEIGHT)")
	f.Float64("noise", 0, "initial noise amplitude (SPINODAL_NOISE)")
	f.Int64("seed", 0, "random seed, 0 for a fresh one (SPINODAL_SEED)")
	f.Float64("dt", 0, "time step (SPINODAL_TIME_STEP)")
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("steps", 0, "number of steps to run (SPINODAL_TOTAL_STEPS)")
	f.Int("print-interval", 0, "steps between progress lines (SPINODAL_PRINT_INTERVAL)")
	f.Int("energy-interval", 0, "steps between free-energy checks, 0 disables (SPINODAL_ENERGY_CHECK_INTERVAL)")
	f.Float64("energy-tolerance", 0, "free-energy change that triggers a warning (SPINODAL_ENERGY_TOLERANCE)")
	f.Bool("allow-unstable", false, "skip the explicit stability check (SPINODAL_ALLOW_UNSTABLE)")
	f.String("output", "", "output root directory (SPINODAL_OUTPUT_DIR)")
	f.Int("snapshot-interval", 0, "steps between heatmaps and recorded snapshots, 0 for start/end only (SPINODAL_SNAPSHOT_INTERVAL)")
	f.Bool("record", false, "record the run in SQLite (SPINODAL_RECORD)")
}

// overrider copies explicitly set flags into config fields and keeps the
// first lookup error.
type overrider struct {
	cmd *cobra.Command
	err error
}

func (o *overrider) changed(name string) bool {
	if o.err != nil {
		return false
	}
	f := o.cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func (o *overrider) setInt(name string, dst *int) {
	if o.changed(name) {
		*dst, o.err = o.cmd.Flags().GetInt(name)
	}
}

func (o *overrider) setInt64(name string, dst *int64) {
	if o.changed(name) {
		*dst, o.err = o.cmd.Flags().GetInt64(name)
	}
}

func (o *overrider) setFloat(name string, dst *float64) {
	if o.changed(name) {
		*dst, o.err = o.cmd.Flags().GetFloat64(name)
	}
}

func (o *overrider) setBool(name string, dst *bool) {
	if o.changed(name) {
		*dst, o.err = o.cmd.Flags().GetBool(name)
	}
}

func (o *overrider) setString(name string, dst *string) {
	if o.changed(name) {
		*dst, o.err = o.cmd.Flags().GetString(name)
	}
}
