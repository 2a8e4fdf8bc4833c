package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/libreshelf/circulation-go/features/query/openloansbymember"
	"github.com/libreshelf/circulation-go/features/query/pendingreservationsforbook"
)

func newLoansCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "loans <member-id>",
		Short: "List a member's open loans",
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

			handler := openloansbymember.NewQueryHandler(e.store)

			result, err := handler.Handle(cmd.Context(), openloansbymember.BuildQuery(memberID, time.Now()))
			if err != nil {
				return err
			}

			for _, loan := range result.Loans {
				marker := " "
				if loan.Overdue {
					marker = "!"
				}

				cmd.Printf("%s %s  %-40s  due %s\n",
					marker, loan.LoanID, loan.BookTitle, loan.DueDate.Format("2006-01-02"))
			}

			return nil
		},
	}
}

func newQueueCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "queue <book-id>",
		Short: "Show a book's pending reservation queue in fulfillment order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			handler := pendingreservationsforbook.NewQueryHandler(e.store)

			result, err := handler.Handle(cmd.Context(), pendingreservationsforbook.BuildQuery(bookID))
			if err != nil {
				return err
			}

			for _, entry := range result.Queue {
				cmd.Printf("%2d. %s  member %s  reserved %s  expires %s\n",
					entry.Position,
					entry.ReservationID,
					entry.MemberID,
					entry.ReservationDate.Format("2006-01-02"),
					entry.ExpirationDate.Format("2006-01-02"),
				)
			}

			return nil
		},
	}
}
