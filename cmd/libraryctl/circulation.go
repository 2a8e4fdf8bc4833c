package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/libreshelf/circulation-go/features/command/cancelreservation"
	"github.com/libreshelf/circulation-go/features/command/checkoutcopy"
	"github.com/libreshelf/circulation-go/features/command/reservebook"
	"github.com/libreshelf/circulation-go/features/command/returncopy"
)

func newCheckoutCommand(flags *rootFlags) *cobra.Command {
	var loanDays int

	checkoutCmd := &cobra.Command{
		Use:   "checkout <copy-id> <member-id>",
		Short: "Check a copy out to a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			copyID, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			memberID, err := uuid.Parse(args[1])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			command := checkoutcopy.BuildCommand(copyID, memberID, loanDays, time.Now())

			handler := checkoutcopy.NewCommandHandler(e.store, checkoutcopy.WithAuditRecorder(e.recorder))
			if _, err = handler.Handle(cmd.Context(), command); err != nil {
				return err
			}

			cmd.Printf("loan created: %s\n", command.LoanID)

			return nil
		},
	}

	checkoutCmd.Flags().IntVar(&loanDays, "days", checkoutcopy.DefaultLoanPeriodDays, "loan period in days")

	return checkoutCmd
}

func newReturnCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "return <loan-id>",
		Short: "Return a checked-out copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loanID, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			command := returncopy.BuildCommand(loanID, time.Now())

			handler := returncopy.NewCommandHandler(e.store, returncopy.WithAuditRecorder(e.recorder))
			if _, err = handler.Handle(cmd.Context(), command); err != nil {
				return err
			}

			cmd.Printf("loan closed: %s\n", loanID)

			return nil
		},
	}
}

func newReserveCommand(flags *rootFlags) *cobra.Command {
	var windowDays int

	reserveCmd := &cobra.Command{
		Use:   "reserve <book-id> <member-id>",
		Short: "Reserve a book for a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			memberID, err := uuid.Parse(args[1])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			command := reservebook.BuildCommand(bookID, memberID, windowDays, time.Now())

			handler := reservebook.NewCommandHandler(e.store, reservebook.WithAuditRecorder(e.recorder))
			if _, err = handler.Handle(cmd.Context(), command); err != nil {
				return err
			}

			cmd.Printf("reservation created: %s\n", command.ReservationID)

			return nil
		},
	}

	reserveCmd.Flags().IntVar(&windowDays, "window-days", reservebook.DefaultReservationWindowDays, "reservation window in days")

	return reserveCmd
}

func newCancelReservationCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-reservation <reservation-id>",
		Short: "Cancel a pending reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reservationID, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			command := cancelreservation.BuildCommand(reservationID, time.Now())

			handler := cancelreservation.NewCommandHandler(e.store, cancelreservation.WithAuditRecorder(e.recorder))
			if _, err = handler.Handle(cmd.Context(), command); err != nil {
				return err
			}

			cmd.Printf("reservation cancelled: %s\n", reservationID)

			return nil
		},
	}
}
