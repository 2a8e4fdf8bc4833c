package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/libreshelf/circulation-go/features/command/expirememberships"
	"github.com/libreshelf/circulation-go/features/command/expirereservations"
	"github.com/libreshelf/circulation-go/shell"
)

func newSweepCommand(flags *rootFlags) *cobra.Command {
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the periodic maintenance sweeps",
	}

	var pickupDays int

	reservationsCmd := &cobra.Command{
		Use:   "reservations",
		Short: "Expire stale pending reservations and unclaimed pickups",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			handler := expirereservations.NewCommandHandler(
				e.store,
				expirereservations.WithPolicy(expirereservations.Policy{
					PickupWindowDays: pickupDays,
					BatchSize:        expirereservations.DefaultBatchSize,
				}),
				expirereservations.WithAuditRecorder(e.recorder),
				expirereservations.WithLogger(shell.NewSlogLogger(e.logger)),
			)

			result, err := handler.Handle(cmd.Context(), expirereservations.BuildCommand(time.Now()))
			if err != nil {
				return err
			}

			cmd.Printf("expired pending: %d, expired pickups: %d, skipped: %d\n",
				result.ExpiredPending, result.ExpiredPickups, result.Skipped)

			return nil
		},
	}

	reservationsCmd.Flags().IntVar(&pickupDays, "pickup-days", expirereservations.DefaultPickupWindowDays, "pickup window in days")

	sweepCmd.AddCommand(reservationsCmd)

	sweepCmd.AddCommand(&cobra.Command{
		Use:   "memberships",
		Short: "Expire memberships past their expiry date",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			handler := expirememberships.NewCommandHandler(
				e.store,
				expirememberships.WithAuditRecorder(e.recorder),
				expirememberships.WithLogger(shell.NewSlogLogger(e.logger)),
			)

			result, err := handler.Handle(cmd.Context(), expirememberships.BuildCommand(time.Now()))
			if err != nil {
				return err
			}

			cmd.Printf("expired memberships: %d, skipped: %d\n", result.Expired, result.Skipped)

			return nil
		},
	})

	return sweepCmd
}
