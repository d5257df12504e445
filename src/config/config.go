// Package config loads simulation settings from the environment.
//
// Values come from SPINODAL_* variables (optionally preloaded from a .env
// file) with the defaults below; the CLI overrides them with flags.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
)

// Config is the full set of run settings.
type Config struct {
	// Grid
	NX int     `env:"SPINODAL_NX" envDefault:"64"`
	NY int     `env:"SPINODAL_NY" envDefault:"64"`
	DX float64 `env:"SPINODAL_DX" envDefault:"1.0"`
	DY float64 `env:"SPINODAL_DY" envDefault:"1.0"`

	// Material
	AverageConcentration float64 `env:"SPINODAL_AVERAGE_CONCENTRATION" envDefault:"0.4"`
	Mobility             float64 `env:"SPINODAL_MOBILITY" envDefault:"1.0"`
	GradientPenalty      float64 `env:"SPINODAL_GRADIENT_PENALTY" envDefault:"0.5"`
	BarrierHeight        float64 `env:"SPINODAL_BARRIER_HEIGHT" envDefault:"1.0"`

	// Initial microstructure. Seed 0 draws a fresh seed.
	Noise float64 `env:"SPINODAL_NOISE" envDefault:"0.02"`
	Seed  int64   `env:"SPINODAL_SEED" envDefault:"0"`

	// Clock
	TotalSteps    int     `env:"SPINODAL_TOTAL_STEPS" envDefault:"10000"`
	PrintInterval int     `env:"SPINODAL_PRINT_INTERVAL" envDefault:"1000"`
	TimeStep      float64 `env:"SPINODAL_TIME_STEP" envDefault:"0.01"`
	InitialTime   float64 `env:"SPINODAL_INITIAL_TIME" envDefault:"0"`

	// Diagnostics
	EnergyCheckInterval int     `env:"SPINODAL_ENERGY_CHECK_INTERVAL" envDefault:"100"`
	EnergyTolerance     float64 `env:"SPINODAL_ENERGY_TOLERANCE" envDefault:"1.0"`
	AllowUnstable       bool    `env:"SPINODAL_ALLOW_UNSTABLE" envDefault:"false"`

	// Output
	OutputDir        string `env:"SPINODAL_OUTPUT_DIR" envDefault:"output/spinodal"`
	SnapshotInterval int    `env:"SPINODAL_SNAPSHOT_INTERVAL" envDefault:"2000"`
	Record           bool   `env:"SPINODAL_RECORD" envDefault:"true"`
}

// Load reads envFile (if not empty) into the process environment and then
// parses the SPINODAL_* variables. Variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Grid builds the grid descriptor.
func (c Config) Grid() (cahnhilliard.Grid, error) {
	return cahnhilliard.NewGrid(c.NX, c.NY, c.DX, c.DY)
}

// Material builds the material parameters.
func (c Config) Material() (cahnhilliard.Material, error) {
	return cahnhilliard.NewMaterial(c.AverageConcentration, c.Mobility, c.GradientPenalty, c.BarrierHeight)
}

// Clock builds a fresh simulation clock.
func (c Config) Clock() (*cahnhilliard.Clock, error) {
	return cahnhilliard.NewClock(c.TotalSteps, c.PrintInterval, c.TimeStep, c.InitialTime)
}

// DriverOptions returns the diagnostic settings. Logger and observer are
// left for the caller.
func (c Config) DriverOptions() cahnhilliard.Options {
	return cahnhilliard.Options{
		EnergyCheckInterval: c.EnergyCheckInterval,
		EnergyTolerance:     c.EnergyTolerance,
		AllowUnstable:       c.AllowUnstable,
	}
}

// Build returns the grid, material and clock of a new run after checking
// everything that can be checked before it starts: noise, snapshot interval
// and, unless AllowUnstable is set, the explicit stability bound.
func (c Config) Build() (cahnhilliard.Grid, cahnhilliard.Material, *cahnhilliard.Clock, error) {
	g, err := c.Grid()
	if err != nil {
		return cahnhilliard.Grid{}, cahnhilliard.Material{}, nil, err
	}
	m, err := c.Material()
	if err != nil {
		return cahnhilliard.Grid{}, cahnhilliard.Material{}, nil, err
	}
	clock, err := c.Clock()
	if err != nil {
		return cahnhilliard.Grid{}, cahnhilliard.Material{}, nil, err
	}

	if c.Noise < 0 {
		return cahnhilliard.Grid{}, cahnhilliard.Material{}, nil,
			fmt.Errorf("%w: %g is negative", cahnhilliard.ErrInvalidNoise, c.Noise)
	}
	if c.SnapshotInterval < 0 {
		return cahnhilliard.Grid{}, cahnhilliard.Material{}, nil,
			fmt.Errorf("snapshot interval %d is negative", c.SnapshotInterval)
	}
	if !c.AllowUnstable {
		if err := cahnhilliard.CheckStability(g, m, c.TimeStep); err != nil {
			return cahnhilliard.Grid{}, cahnhilliard.Material{}, nil, err
		}
	}
	return g, m, clock, nil
}

// Validate reports the first error Build would return.
func (c Config) Validate() error {
	_, _, _, err := c.Build()
	return err
}
