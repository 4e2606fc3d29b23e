package main

import (
	"fmt"
	"os"
	"time"

	"github.com/anjiri1684/eduplatform/database"
	"github.com/anjiri1684/eduplatform/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func migrateCmd(env *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := env.connect()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func reconcileCmd(env *env) *cobra.Command {
	var (
		olderThan time.Duration
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Re-poll gateways for card payments stuck in Pending or Processing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := env.connect()
			if err != nil {
				return err
			}
			svc := services.NewPaymentService(db, env.gateways(cfg))
			updated, err := svc.ReconcileStale(cmd.Context(), olderThan, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %d payments\n", updated)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 15*time.Minute, "only payments last updated before this long ago")
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "maximum payments to check")
	return cmd
}

func reportCmd(env *env) *cobra.Command {
	var from, to, out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export succeeded payments as CSV",
		Long: `Export succeeded payments created between --from and --to (inclusive).

Examples:
  eductl report --from 2025-05-01 --to 2025-05-31
  eductl report --from 2025-05-01 --to 2025-05-31 -o may.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fmt.Errorf("invalid --from %q: use YYYY-MM-DD", from)
			}
			end, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fmt.Errorf("invalid --to %q: use YYYY-MM-DD", to)
			}

			cfg, db, err := env.connect()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			svc := services.NewPaymentService(db, env.gateways(cfg))
			return svc.TransactionReport(cmd.Context(), start, end.Add(24*time.Hour-time.Nanosecond), w)
		},
	}

	now := time.Now()
	cmd.Flags().StringVar(&from, "from", now.AddDate(0, -1, 0).Format("2006-01-02"), "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", now.Format("2006-01-02"), "last day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func verifyTransferCmd(env *env) *cobra.Command {
	var (
		reject bool
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "verify-transfer [transaction-id]",
		Short: "Verify (or reject with --reject) a pending bank transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := env.connect()
			if err != nil {
				return err
			}
			payments := services.NewPaymentService(db, env.gateways(cfg))
			transfers := services.NewBankTransferService(db, payments)

			transfer, err := transfers.VerifyBankTransfer(cmd.Context(), args[0], !reject, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transfer %s is %s\n", transfer.ReferenceNumber, transfer.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reject, "reject", false, "reject instead of verify")
	cmd.Flags().StringVar(&notes, "notes", "", "verification notes")
	return cmd
}

func approveCourseCmd(env *env) *cobra.Command {
	return &cobra.Command{
		Use:   "approve-course [course-id]",
		Short: "Publish a course waiting for approval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid course id %q", args[0])
			}
			_, db, err := env.connect()
			if err != nil {
				return err
			}
			course, err := services.NewCourseService(db).ApproveCourse(cmd.Context(), courseID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Course %q is %s\n", course.Title, course.Status)
			return nil
		},
	}
}
