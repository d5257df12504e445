package cmd

import (
	"math/rand"
	"os"
	"os/signal"

	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
	"github.com/mohammadijoo/CahnHilliard_Go/src/recording"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a new simulation from a noisy uniform mixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			grid, material, clock, err := cfg.Build()
			if err != nil {
				return err
			}

			seed := cfg.Seed
			if seed == 0 {
				if seed, err = cahnhilliard.NewSeed(); err != nil {
					return err
				}
			}
			field, err := cahnhilliard.NewMicrostructure(grid, material, cfg.Noise, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := newSession(ctx, cfg, xid.New().String(), field, clock, recording.RunInfo{
				Grid:     grid,
				Material: material,
				TimeStep: clock.TimeStep,
				Noise:    cfg.Noise,
				Seed:     seed,
			})
			if err != nil {
				return err
			}
			defer s.close()

			return s.run(ctx, cfg.TotalSteps)
		},
	}
	addModelFlags(cmd)
	addRunFlags(cmd)
	return cmd
}
