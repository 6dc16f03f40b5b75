package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"youthworks-db/core/database"
	"youthworks-db/core/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// identPattern is the safelist for table and column identifiers. Specs are
// static, but their names end up interpolated into DDL text, so anything
// outside this pattern is rejected before any SQL is issued.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Reconciler brings a live database into conformance with a declared set of
// column specifications using additive-only DDL. It never alters or drops
// existing columns.
type Reconciler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewReconciler creates a reconciler bound to the given database handle.
func NewReconciler(db *gorm.DB, l *zap.Logger) *Reconciler {
	return &Reconciler{
		db:     db,
		logger: l,
	}
}

// Reconcile ensures every declared table exists and every declared column
// exists on its table. Tables are processed independently: a failure on one
// table is recorded in the Result and the run continues with the next table.
// The only error returned directly is a failure to start at all (invalid
// specs or an unreachable database).
//
// Running Reconcile twice with the same specs executes zero DDL statements
// on the second run; every existence check short-circuits its action.
func (r *Reconciler) Reconcile(ctx context.Context, specs []ColumnSpec, opts Options) (*Result, error) {
	result := &Result{}
	if len(specs) == 0 {
		return result, nil
	}

	if err := validateSpecs(specs); err != nil {
		return nil, fmt.Errorf("invalid column specifications: %w", err)
	}

	// Connectivity failures abort the whole run; everything past this point
	// is caught and recorded per table.
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	for _, tableSpecs := range groupByTable(specs) {
		tr := r.reconcileTable(ctx, tableSpecs, opts)
		if tr.Err != nil {
			r.logger.Error("Table reconciliation failed",
				zap.String("table", tr.Table),
				zap.Error(tr.Err),
			)
		}
		result.Tables = append(result.Tables, tr)
	}

	result.Summary = summarize(result.Tables)
	return result, nil
}

// reconcileTable processes all specs for one table. Any failure is recorded
// in the returned TableResult instead of propagating.
func (r *Reconciler) reconcileTable(ctx context.Context, specs []ColumnSpec, opts Options) TableResult {
	table := specs[0].Table
	tr := TableResult{Table: table}
	l := logger.WithTable(r.logger, table)
	db := r.db.WithContext(ctx)

	exists, err := database.TableExists(db, table)
	if err != nil {
		tr.Err = &TableError{Table: table, Err: err}
		return tr
	}

	if !exists {
		stmt := r.createTableSQL(table)
		if opts.DryRun {
			tr.Planned = append(tr.Planned, stmt)
			l.Info("Would create table")
		} else {
			if err := db.Exec(stmt).Error; err != nil {
				tr.Err = &TableError{Table: table, Err: fmt.Errorf("failed to create table: %w", err)}
				return tr
			}
			tr.Created = true
			tr.DDLCount++
			l.Info("Created table")
		}
	}

	// One catalog pass per table; every declared column is checked against it.
	// A freshly created (or dry-run planned) table has none of the declared
	// columns yet.
	existing := map[string]database.ColumnInfo{}
	if exists {
		columns, err := database.GetTableColumns(db, table)
		if err != nil {
			tr.Err = &TableError{Table: table, Err: err}
			return tr
		}
		for _, col := range columns {
			existing[col.Field] = col
		}
	}

	for _, spec := range specs {
		info, present := existing[strings.ToLower(spec.Column)]
		if !present {
			stmt := r.addColumnSQL(spec)
			if opts.DryRun {
				tr.Planned = append(tr.Planned, stmt)
				l.Info("Would add column", zap.String("column", spec.Column), zap.String("definition", spec.Definition))
				continue
			}
			if err := db.Exec(stmt).Error; err != nil {
				tr.Err = &TableError{Table: table, Err: fmt.Errorf("failed to add column %s: %w", spec.Column, err)}
				return tr
			}
			tr.Added = append(tr.Added, spec.Column)
			tr.DDLCount++
			l.Info("Added column", zap.String("column", spec.Column), zap.String("definition", spec.Definition))
			continue
		}

		// Existing columns are never redefined; type and constraints stay as
		// they are, so existing data is never touched.
		tr.Skipped = append(tr.Skipped, spec.Column)
		l.Info("Column already present, skipping", zap.String("column", spec.Column))

		if spec.RelaxNotNull && info.NotNull() {
			if err := r.relaxNotNull(ctx, l, spec, info, opts, &tr); err != nil {
				tr.Err = &TableError{Table: table, Err: err}
				return tr
			}
		}
	}

	return tr
}

// relaxNotNull attempts to drop a legacy NOT NULL constraint. If the ALTER
// fails (or the dialect cannot express it), it falls back to backfilling
// NULL rows with the spec's fill value so the run does not abort. A failed
// fallback escalates to the caller as the table's error.
func (r *Reconciler) relaxNotNull(ctx context.Context, l *zap.Logger, spec ColumnSpec, info database.ColumnInfo, opts Options, tr *TableResult) error {
	db := r.db.WithContext(ctx)

	stmt, stmtErr := r.dropNotNullSQL(spec.Table, spec.Column, info)
	if opts.DryRun {
		if stmtErr == nil {
			tr.Planned = append(tr.Planned, stmt)
			l.Info("Would relax NOT NULL constraint", zap.String("column", spec.Column))
		} else {
			// The dialect cannot drop the constraint, so a live run would
			// take the backfill path; report that instead of nothing.
			tr.Planned = append(tr.Planned, r.fillDefaultSQL(spec))
			l.Info("Would backfill NULL rows with default", zap.String("column", spec.Column))
		}
		return nil
	}

	if stmtErr == nil {
		stmtErr = db.Exec(stmt).Error
		if stmtErr == nil {
			tr.Relaxed = append(tr.Relaxed, spec.Column)
			tr.DDLCount++
			l.Info("Relaxed NOT NULL constraint", zap.String("column", spec.Column))
			return nil
		}
	}

	l.Warn("Could not relax NOT NULL constraint, falling back to default fill",
		zap.String("column", spec.Column),
		zap.Error(stmtErr),
	)

	fill := db.Exec(r.fillDefaultSQL(spec), spec.FillDefault)
	if fill.Error != nil {
		return fmt.Errorf("failed to backfill column %s after relax failure: %w", spec.Column, fill.Error)
	}

	tr.Filled = append(tr.Filled, spec.Column)
	l.Info("Filled NULL rows with default",
		zap.String("column", spec.Column),
		zap.Int64("rows", fill.RowsAffected),
	)
	return nil
}

// createTableSQL builds the minimal table statement: an integer primary key
// only. Declared columns are added right after by the regular column path.
func (r *Reconciler) createTableSQL(table string) string {
	if r.db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf(`CREATE TABLE %s (%s INTEGER PRIMARY KEY AUTOINCREMENT)`,
			r.quoteIdent(table), r.quoteIdent("id"))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s INT UNSIGNED AUTO_INCREMENT PRIMARY KEY)",
		r.quoteIdent(table), r.quoteIdent("id"))
}

func (r *Reconciler) addColumnSQL(spec ColumnSpec) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
		r.quoteIdent(spec.Table), r.quoteIdent(spec.Column), spec.Definition)
}

// dropNotNullSQL builds the dialect statement that drops a NOT NULL
// constraint. MySQL's MODIFY restates the whole column definition, so the
// introspected type and any existing DEFAULT are carried over; only the
// NOT NULL bit changes. SQLite cannot alter a column in place, which routes
// callers to the fill fallback.
func (r *Reconciler) dropNotNullSQL(table, column string, info database.ColumnInfo) (string, error) {
	if r.db.Dialector.Name() == "sqlite" {
		return "", fmt.Errorf("sqlite does not support dropping NOT NULL in place")
	}
	stmt := fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s %s NULL",
		r.quoteIdent(table), r.quoteIdent(column), info.Type)
	if info.Default != nil {
		stmt += " DEFAULT " + quoteDefaultLiteral(*info.Default)
	}
	return stmt, nil
}

// fillDefaultSQL builds the parameterized backfill statement used when the
// constraint cannot be dropped. The fill value itself is bound, not
// interpolated.
func (r *Reconciler) fillDefaultSQL(spec ColumnSpec) string {
	return fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s IS NULL",
		r.quoteIdent(spec.Table), r.quoteIdent(spec.Column), r.quoteIdent(spec.Column))
}

// quoteDefaultLiteral renders a SHOW COLUMNS default for reuse in DDL.
// Expression defaults like CURRENT_TIMESTAMP pass through; everything else
// is a literal and gets quoted.
func quoteDefaultLiteral(value string) string {
	upper := strings.ToUpper(value)
	if upper == "CURRENT_TIMESTAMP" || strings.HasPrefix(upper, "CURRENT_TIMESTAMP(") {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func (r *Reconciler) quoteIdent(name string) string {
	if r.db.Dialector.Name() == "sqlite" {
		return `"` + name + `"`
	}
	return "`" + name + "`"
}

// validateSpecs rejects identifiers outside the safelist pattern and
// definitions carrying statement separators, before any SQL is built.
func validateSpecs(specs []ColumnSpec) error {
	for _, spec := range specs {
		if !identPattern.MatchString(spec.Table) {
			return fmt.Errorf("invalid table identifier: %q", spec.Table)
		}
		if !identPattern.MatchString(spec.Column) {
			return fmt.Errorf("invalid column identifier: %q", spec.Column)
		}
		if strings.TrimSpace(spec.Definition) == "" {
			return fmt.Errorf("empty definition for %s.%s", spec.Table, spec.Column)
		}
		if strings.ContainsAny(spec.Definition, ";") || strings.Contains(spec.Definition, "--") {
			return fmt.Errorf("definition for %s.%s contains forbidden characters", spec.Table, spec.Column)
		}
	}
	return nil
}

// groupByTable splits specs into per-table groups, preserving first-seen
// table order and in-table declaration order.
func groupByTable(specs []ColumnSpec) [][]ColumnSpec {
	var order []string
	grouped := make(map[string][]ColumnSpec)
	for _, spec := range specs {
		if _, seen := grouped[spec.Table]; !seen {
			order = append(order, spec.Table)
		}
		grouped[spec.Table] = append(grouped[spec.Table], spec)
	}

	result := make([][]ColumnSpec, 0, len(order))
	for _, table := range order {
		result = append(result, grouped[table])
	}
	return result
}
