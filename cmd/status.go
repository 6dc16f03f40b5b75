package cmd

import (
	"fmt"

	"youthworks-db/feature/program"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// statusCmd reports schema drift without executing any DDL.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report schema drift against the target shape",
	Long: `Compare the live database schema with the builtin target shape.

Executes catalog queries only, never DDL. Exits non-zero when the schema
has drifted (missing tables or columns), which makes the command usable
as a deployment gate.`,
	RunE: runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, l, db, err := setupRuntime()
	if err != nil {
		return err
	}

	svc := program.NewService(db, l)
	result, err := svc.Drift(cmd.Context(), program.TargetSpecs())
	if err != nil {
		return fmt.Errorf("status check could not start: %w", err)
	}

	if !result.OK() {
		return fmt.Errorf("status check failed for tables: %v", result.FailedTables())
	}

	if result.Summary.PlannedActions > 0 {
		for _, table := range result.Tables {
			for _, stmt := range table.Planned {
				l.Warn("Pending schema change", zap.String("table", table.Table), zap.String("statement", stmt))
			}
		}
		return fmt.Errorf("schema has drifted: %d pending changes", result.Summary.PlannedActions)
	}

	l.Info("Schema matches the target shape")
	return nil
}
