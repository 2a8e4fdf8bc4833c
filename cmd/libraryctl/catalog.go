package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/features/command/addbook"
	"github.com/libreshelf/circulation-go/features/command/addbookcopy"
	"github.com/libreshelf/circulation-go/features/command/reportcopy"
)

func newBookCommand(flags *rootFlags) *cobra.Command {
	bookCmd := &cobra.Command{
		Use:   "book",
		Short: "Manage the catalog",
	}

	var (
		isbn      string
		year      int
		publisher string
		authors   []string
		birthYear int
	)

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			authorInputs := make([]addbook.AuthorInput, 0, len(authors))
			for _, name := range authors {
				authorInputs = append(authorInputs, addbook.AuthorInput{Name: name, BirthYear: birthYear})
			}

			command := addbook.BuildCommand(args[0], isbn, year, publisher, authorInputs, time.Now())

			handler := addbook.NewCommandHandler(e.store, addbook.WithAuditRecorder(e.recorder))
			if _, err = handler.Handle(cmd.Context(), command); err != nil {
				return err
			}

			cmd.Printf("book added: %s\n", command.BookID)

			return nil
		},
	}

	addCmd.Flags().StringVar(&isbn, "isbn", "", "ISBN (at least 10 characters)")
	addCmd.Flags().IntVar(&year, "year", 0, "publication year")
	addCmd.Flags().StringVar(&publisher, "publisher", "", "publisher name")
	addCmd.Flags().StringSliceVar(&authors, "author", nil, "author name (repeatable)")
	addCmd.Flags().IntVar(&birthYear, "author-birth-year", 0, "birth year applied to all --author values")

	bookCmd.AddCommand(addCmd)

	return bookCmd
}

func newCopyCommand(flags *rootFlags) *cobra.Command {
	copyCmd := &cobra.Command{
		Use:   "copy",
		Short: "Manage physical copies",
	}

	copyCmd.AddCommand(&cobra.Command{
		Use:   "add <book-id>",
		Short: "Add a physical copy of a book",
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

			command := addbookcopy.BuildCommand(bookID, time.Now())

			handler := addbookcopy.NewCommandHandler(e.store, addbookcopy.WithAuditRecorder(e.recorder))
			if _, err = handler.Handle(cmd.Context(), command); err != nil {
				return err
			}

			cmd.Printf("copy added: %s\n", command.CopyID)

			return nil
		},
	})

	var staffID string

	reportCmd := &cobra.Command{
		Use:   "report <copy-id> <Lost|Damaged|Available>",
		Short: "Report a copy lost or damaged, or reset it to Available",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			copyID, err := uuid.Parse(args[0])
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

			command := reportcopy.BuildCommand(copyID, actor, core.CopyStatus(args[1]), time.Now())

			handler := reportcopy.NewCommandHandler(e.store, reportcopy.WithAuditRecorder(e.recorder))
			result, err := handler.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			if result.Idempotent {
				cmd.Println("copy already in reported status")
				return nil
			}

			cmd.Printf("copy %s reported %s\n", copyID, args[1])

			return nil
		},
	}

	reportCmd.Flags().StringVar(&staffID, "staff", "", "acting staff id")
	_ = reportCmd.MarkFlagRequired("staff")

	copyCmd.AddCommand(reportCmd)

	return copyCmd
}
