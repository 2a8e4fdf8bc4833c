package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/features/command/payfine"
	"github.com/libreshelf/circulation-go/features/command/waivefine"
	"github.com/libreshelf/circulation-go/features/query/outstandingfines"
)

func newFineCommand(flags *rootFlags) *cobra.Command {
	fineCmd := &cobra.Command{
		Use:   "fine",
		Short: "Manage fines",
	}

	var amount string

	payCmd := &cobra.Command{
		Use:   "pay <fine-id>",
		Short: "Pay an outstanding fine in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fineID, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			cents, err := core.ParseCents(amount)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			command := payfine.BuildCommand(fineID, cents, time.Now())

			handler := payfine.NewCommandHandler(e.store, payfine.WithAuditRecorder(e.recorder))
			result, err := handler.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			if result.Idempotent {
				cmd.Println("fine already paid")
				return nil
			}

			cmd.Printf("fine paid: %s\n", fineID)

			return nil
		},
	}

	payCmd.Flags().StringVar(&amount, "amount", "", "tendered amount, e.g. 1.50")
	_ = payCmd.MarkFlagRequired("amount")

	fineCmd.AddCommand(payCmd)

	var staffID string

	waiveCmd := &cobra.Command{
		Use:   "waive <fine-id>",
		Short: "Waive an outstanding fine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fineID, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			actor, err := uuid.Parse(staffID)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			command := waivefine.BuildCommand(fineID, actor, time.Now())

			handler := waivefine.NewCommandHandler(e.store, waivefine.WithAuditRecorder(e.recorder))
			result, err := handler.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			if result.Idempotent {
				cmd.Println("fine already waived")
				return nil
			}

			cmd.Printf("fine waived: %s\n", fineID)

			return nil
		},
	}

	waiveCmd.Flags().StringVar(&staffID, "staff", "", "acting staff id")
	_ = waiveCmd.MarkFlagRequired("staff")

	fineCmd.AddCommand(waiveCmd)

	fineCmd.AddCommand(&cobra.Command{
		Use:   "list <member-id>",
		Short: "List a member's outstanding fines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			handler := outstandingfines.NewQueryHandler(e.store)

			result, err := handler.Handle(cmd.Context(), outstandingfines.BuildQuery(memberID))
			if err != nil {
				return err
			}

			for _, fine := range result.Fines {
				cmd.Printf("%s  %8s  %s  %s\n", fine.ID, fine.Amount, fine.Reason, fine.IssuedAt.Format(time.RFC3339))
			}

			cmd.Printf("total outstanding: %s\n", result.Total)

			return nil
		},
	})

	return fineCmd
}
