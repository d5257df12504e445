package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
	"github.com/mohammadijoo/CahnHilliard_Go/src/recording"
)

func newResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume <snapshot.json>",
		Short: "Continue a simulation from a snapshot for more steps",
		Long: `resume restores the grid, material, field and clock stored in a ` +
			`snapshot and keeps evolving it. Simulated time carries over; --steps ` +
			`counts the additional steps. Output goes to a new run directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("cannot open snapshot: %w", err)
			}
			snap, err := cahnhilliard.ReadSnapshot(f)
			f.Close()
			if err != nil {
				return err
			}

			field, err := snap.Restore()
			if err != nil {
				return err
			}
			clock, err := snap.Clock(cfg.TotalSteps, cfg.PrintInterval)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := newSession(ctx, cfg, xid.New().String(), field, clock, recording.RunInfo{
				Grid:     snap.Grid,
				Material: snap.Material,
				TimeStep: snap.TimeStep,
			})
			if err != nil {
				return err
			}
			defer s.close()

			return s.run(ctx, cfg.TotalSteps)
		},
	}
	addRunFlags(cmd)
	return cmd
}
