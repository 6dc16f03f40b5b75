package cmd

import (
	"fmt"

	"youthworks-db/core/schema"
	"youthworks-db/feature/leadership"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCmd is the parent command for one-time seeding operations.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run one-time, flag-gated seeding actions",
	Long: `Seeding actions are guarded by migration flags: each runs at most
once across any number of process restarts.`,
}

// leadershipCmd seeds the leadership accounts and roles.
var leadershipCmd = &cobra.Command{
	Use:   "leadership",
	Short: "Seed leadership accounts and roles (runs at most once)",
	RunE:  runSeedLeadership,
}

func init() {
	seedCmd.AddCommand(leadershipCmd)
	RootCmd.AddCommand(seedCmd)
}

func runSeedLeadership(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, l, db, err := setupRuntime()
	if err != nil {
		return err
	}

	flags := schema.NewFlagStore(db)
	if err := flags.EnsureTable(ctx); err != nil {
		return fmt.Errorf("failed to ensure migration_flags table: %w", err)
	}

	svc := leadership.NewService(db, flags, l)
	seeded, err := svc.Seed(ctx)
	if err != nil {
		return fmt.Errorf("leadership seeding failed: %w", err)
	}

	if seeded {
		l.Info("Leadership accounts created", zap.String("flag", leadership.SeedFlag))
	} else {
		l.Info("Nothing to do, leadership accounts already seeded")
	}
	return nil
}
