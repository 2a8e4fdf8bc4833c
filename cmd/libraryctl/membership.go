package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/features/command/enrollmember"
	"github.com/libreshelf/circulation-go/features/command/registerstaff"
	"github.com/libreshelf/circulation-go/features/command/updatemembership"
)

func newMemberCommand(flags *rootFlags) *cobra.Command {
	memberCmd := &cobra.Command{
		Use:   "member",
		Short: "Manage memberships",
	}

	var (
		email      string
		periodDays int
	)

	enrollCmd := &cobra.Command{
		Use:   "enroll <name>",
		Short: "Enroll a new member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			command := enrollmember.BuildCommand(args[0], email, periodDays, time.Now())

			handler := enrollmember.NewCommandHandler(e.store, enrollmember.WithAuditRecorder(e.recorder))
			if _, err = handler.Handle(cmd.Context(), command); err != nil {
				return err
			}

			cmd.Printf("member enrolled: %s\n", command.MemberID)

			return nil
		},
	}

	enrollCmd.Flags().StringVar(&email, "email", "", "member email")
	enrollCmd.Flags().IntVar(&periodDays, "period-days", enrollmember.DefaultMembershipPeriodDays, "membership period in days")
	_ = enrollCmd.MarkFlagRequired("email")

	memberCmd.AddCommand(enrollCmd)

	var staffID string

	statusCmd := &cobra.Command{
		Use:   "set-status <member-id> <Active|Expired|Suspended>",
		Short: "Change a membership status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := uuid.Parse(args[0])
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

			command := updatemembership.BuildCommand(memberID, actor, core.MembershipStatus(args[1]), time.Now())

			handler := updatemembership.NewCommandHandler(e.store, updatemembership.WithAuditRecorder(e.recorder))
			result, err := handler.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			if result.Idempotent {
				cmd.Println("membership already in that status")
				return nil
			}

			cmd.Printf("membership %s set to %s\n", memberID, args[1])

			return nil
		},
	}

	statusCmd.Flags().StringVar(&staffID, "staff", "", "acting staff id")
	_ = statusCmd.MarkFlagRequired("staff")

	memberCmd.AddCommand(statusCmd)

	return memberCmd
}

func newStaffCommand(flags *rootFlags) *cobra.Command {
	staffCmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}

	var (
		email    string
		password string
	)

	registerCmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a staff account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			command := registerstaff.BuildCommand(args[0], email, password, time.Now())

			handler := registerstaff.NewCommandHandler(e.store, registerstaff.WithAuditRecorder(e.recorder))
			if _, err = handler.Handle(cmd.Context(), command); err != nil {
				return err
			}

			cmd.Printf("staff registered: %s\n", command.StaffID)

			return nil
		},
	}

	registerCmd.Flags().StringVar(&email, "email", "", "staff email")
	registerCmd.Flags().StringVar(&password, "password", "", "password (at least 8 characters)")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	staffCmd.AddCommand(registerCmd)

	return staffCmd
}
