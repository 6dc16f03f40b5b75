package schema

import "fmt"

// ColumnSpec declares a column that must exist on a table after a
// reconciliation run. Specs are declared once per (table, column) pair;
// applying the same spec twice is a no-op the second time.
type ColumnSpec struct {
	// Table is the identifier of the target relational table.
	Table string

	// Column is the identifier of the column within that table.
	Column string

	// Definition is the data-type clause plus optional default/constraint
	// text, e.g. "TEXT DEFAULT ''" or "BOOLEAN DEFAULT FALSE".
	Definition string

	// RelaxNotNull marks a legacy column whose NOT NULL constraint should
	// be dropped if the catalog still reports it.
	RelaxNotNull bool

	// FillDefault is the value used to backfill NULL rows when the
	// constraint relax fails. An empty string is a valid fill value.
	FillDefault string
}

// Options controls reconcile behavior.
type Options struct {
	// DryRun plans and logs intended statements without executing any DDL.
	DryRun bool
}

// TableResult represents the reconciliation outcome for a single table.
type TableResult struct {
	// Table is the table name.
	Table string `json:"table"`

	// Created indicates the table was created during this run.
	Created bool `json:"created"`

	// Added lists columns added during this run.
	Added []string `json:"added"`

	// Skipped lists declared columns that already existed and were left untouched.
	Skipped []string `json:"skipped"`

	// Relaxed lists columns whose NOT NULL constraint was dropped.
	Relaxed []string `json:"relaxed"`

	// Filled lists columns whose NULL rows were backfilled after a failed relax.
	Filled []string `json:"filled"`

	// Planned lists the statements a dry run would have executed.
	Planned []string `json:"planned"`

	// DDLCount is the number of DDL statements executed for this table.
	DDLCount int `json:"ddl_count"`

	// Err records the failure for this table, if any. A failed table does
	// not stop the run; subsequent tables are still attempted.
	Err error `json:"-"`
}

// OK reports whether the table reconciled without error.
func (r TableResult) OK() bool {
	return r.Err == nil
}

// Result aggregates per-table outcomes for one reconciliation pass.
type Result struct {
	// Tables contains per-table outcomes in processing order.
	Tables []TableResult `json:"tables"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a reconciliation run.
type Summary struct {
	// TablesProcessed is the number of tables attempted.
	TablesProcessed int `json:"tables_processed"`

	// TablesFailed counts tables that recorded an error.
	TablesFailed int `json:"tables_failed"`

	// TablesCreated counts tables created during the run.
	TablesCreated int `json:"tables_created"`

	// ColumnsAdded counts columns added during the run.
	ColumnsAdded int `json:"columns_added"`

	// ColumnsSkipped counts declared columns that already existed.
	ColumnsSkipped int `json:"columns_skipped"`

	// ConstraintsRelaxed counts NOT NULL constraints dropped.
	ConstraintsRelaxed int `json:"constraints_relaxed"`

	// DefaultsFilled counts fallback backfills of NULL rows.
	DefaultsFilled int `json:"defaults_filled"`

	// PlannedActions counts statements a dry run would have executed.
	PlannedActions int `json:"planned_actions"`

	// DDLStatements counts DDL statements actually executed. A second run
	// with the same specs must report zero here.
	DDLStatements int `json:"ddl_statements"`
}

// OK reports whether every table reconciled without error.
func (r *Result) OK() bool {
	for _, t := range r.Tables {
		if !t.OK() {
			return false
		}
	}
	return true
}

// FailedTables returns the names of tables that recorded an error.
func (r *Result) FailedTables() []string {
	var failed []string
	for _, t := range r.Tables {
		if !t.OK() {
			failed = append(failed, t.Table)
		}
	}
	return failed
}

func summarize(tables []TableResult) Summary {
	var s Summary
	s.TablesProcessed = len(tables)
	for _, t := range tables {
		if !t.OK() {
			s.TablesFailed++
		}
		if t.Created {
			s.TablesCreated++
		}
		s.ColumnsAdded += len(t.Added)
		s.ColumnsSkipped += len(t.Skipped)
		s.ConstraintsRelaxed += len(t.Relaxed)
		s.DefaultsFilled += len(t.Filled)
		s.PlannedActions += len(t.Planned)
		s.DDLStatements += t.DDLCount
	}
	return s
}

// TableError records a reconciliation failure scoped to a single table.
type TableError struct {
	// Table is the table the failure occurred on.
	Table string
	// Err is the underlying cause.
	Err error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %s: %v", e.Table, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}
