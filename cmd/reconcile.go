package cmd

import (
	"fmt"
	"strings"

	"youthworks-db/core/schema"
	"youthworks-db/core/storage"
	"youthworks-db/feature/program"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	manifestPath   string
	manifestObject string
	dryRun         bool
)

// reconcileCmd brings the live schema into conformance with the target shape.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the database schema against the target shape",
	Long: `Reconcile the live database schema against the declared target shape.

Missing tables are created, missing columns are added with their declared
definitions, and existing columns are never altered. Failures are isolated
per table; the command exits non-zero if any table failed.

Examples:
  # Reconcile against the builtin target schema
  youthworks-db reconcile

  # Reconcile against a local manifest
  youthworks-db reconcile --manifest schemas/target.yaml

  # Reconcile against a manifest in the operations bucket
  youthworks-db reconcile --manifest-object schemas/target.yaml

  # Report intended statements without executing them
  youthworks-db reconcile --dry-run`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&manifestPath, "manifest", "", "Path to a local YAML schema manifest")
	reconcileCmd.Flags().StringVar(&manifestObject, "manifest-object", "", "Object key of a YAML schema manifest in the operations bucket")
	reconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan and log statements without executing DDL")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, l, db, err := setupRuntime()
	if err != nil {
		return err
	}

	specs := program.TargetSpecs()
	switch {
	case manifestPath != "" && manifestObject != "":
		return fmt.Errorf("--manifest and --manifest-object are mutually exclusive")
	case manifestPath != "":
		specs, err = schema.LoadManifestFile(manifestPath)
		if err != nil {
			return err
		}
		l.Info("Loaded schema manifest", zap.String("path", manifestPath), zap.Int("specs", len(specs)))
	case manifestObject != "":
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		specs, err = schema.LoadManifestObject(ctx, client, cfg.Storage.Bucket, manifestObject)
		if err != nil {
			return err
		}
		l.Info("Loaded schema manifest from bucket",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("object", manifestObject),
			zap.Int("specs", len(specs)),
		)
	}

	l.Info("Starting schema reconciliation", zap.Bool("dry_run", dryRun))

	svc := program.NewService(db, l)
	result, err := svc.Reconcile(ctx, specs, schema.Options{DryRun: dryRun})
	if err != nil {
		return fmt.Errorf("reconciliation could not start: %w", err)
	}

	if !result.OK() {
		return fmt.Errorf("reconciliation finished with failures: %s", strings.Join(result.FailedTables(), ", "))
	}

	l.Info("Schema reconciliation completed successfully",
		zap.Int("ddl_statements", result.Summary.DDLStatements),
	)
	return nil
}
