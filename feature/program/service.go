package program

import (
	"context"

	"youthworks-db/core/schema"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs schema reconciliation for the program database and reports
// the outcome.
type Service struct {
	reconciler *schema.Reconciler
	logger     *zap.Logger
}

// NewService creates a new program maintenance service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		reconciler: schema.NewReconciler(db, logger),
		logger:     logger,
	}
}

// Reconcile runs the reconciler over the given specs and logs a structured
// report. The returned Result carries per-table outcomes; callers decide the
// process exit code from Result.OK().
func (s *Service) Reconcile(ctx context.Context, specs []schema.ColumnSpec, opts schema.Options) (*schema.Result, error) {
	result, err := s.reconciler.Reconcile(ctx, specs, opts)
	if err != nil {
		return nil, err
	}

	s.printReport(result, opts)
	return result, nil
}

// Drift reports what a reconciliation run would change without executing
// any DDL.
func (s *Service) Drift(ctx context.Context, specs []schema.ColumnSpec) (*schema.Result, error) {
	return s.Reconcile(ctx, specs, schema.Options{DryRun: true})
}

// printReport logs the aggregate outcome plus one line per failed table.
func (s *Service) printReport(result *schema.Result, opts schema.Options) {
	sum := result.Summary

	s.logger.Info("Reconciliation report",
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("tables_processed", sum.TablesProcessed),
		zap.Int("tables_created", sum.TablesCreated),
		zap.Int("tables_failed", sum.TablesFailed),
		zap.Int("columns_added", sum.ColumnsAdded),
		zap.Int("columns_skipped", sum.ColumnsSkipped),
		zap.Int("constraints_relaxed", sum.ConstraintsRelaxed),
		zap.Int("defaults_filled", sum.DefaultsFilled),
		zap.Int("planned_actions", sum.PlannedActions),
		zap.Int("ddl_statements", sum.DDLStatements),
	)

	for _, table := range result.Tables {
		if table.OK() {
			continue
		}
		s.logger.Error("Table failed",
			zap.String("table", table.Table),
			zap.Error(table.Err),
		)
	}
}
