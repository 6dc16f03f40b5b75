package schema

import (
	"context"
	"testing"

	"youthworks-db/core/database"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return db
}

func TestReconcile_CreatesMissingTable(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())

	specs := []ColumnSpec{
		{Table: "makerspaces", Column: "name", Definition: "TEXT DEFAULT ''"},
		{Table: "makerspaces", Column: "capacity", Definition: "INTEGER DEFAULT 0"},
	}

	result, err := r.Reconcile(context.Background(), specs, Options{})
	assert.NoError(t, err)
	assert.True(t, result.OK())
	assert.Len(t, result.Tables, 1)
	assert.True(t, result.Tables[0].Created)
	assert.Equal(t, []string{"name", "capacity"}, result.Tables[0].Added)
	// CREATE TABLE plus two ADD COLUMN
	assert.Equal(t, 3, result.Summary.DDLStatements)

	columns, err := database.GetTableColumns(db, "makerspaces")
	assert.NoError(t, err)
	assert.Len(t, columns, 3) // id + declared columns
}

func TestReconcile_AddsColumnWithDefaultForExistingRows(t *testing.T) {
	db := newTestDB(t)

	// Pre-existing table with rows but without the declared column.
	assert.NoError(t, db.Exec("CREATE TABLE youth_profiles (id INTEGER PRIMARY KEY, full_name TEXT)").Error)
	assert.NoError(t, db.Exec("INSERT INTO youth_profiles (full_name) VALUES ('Jordan'), ('Alex')").Error)

	r := NewReconciler(db, zap.NewNop())
	specs := []ColumnSpec{
		{Table: "youth_profiles", Column: "transition_status", Definition: "TEXT DEFAULT 'Not Started'"},
	}

	result, err := r.Reconcile(context.Background(), specs, Options{})
	assert.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, 1, result.Summary.DDLStatements)
	assert.Equal(t, []string{"transition_status"}, result.Tables[0].Added)

	// Pre-existing rows read the declared default.
	var statuses []string
	assert.NoError(t, db.Raw("SELECT transition_status FROM youth_profiles ORDER BY id").Scan(&statuses).Error)
	assert.Equal(t, []string{"Not Started", "Not Started"}, statuses)

	// Second run with identical specs issues no DDL.
	again, err := r.Reconcile(context.Background(), specs, Options{})
	assert.NoError(t, err)
	assert.True(t, again.OK())
	assert.Equal(t, 0, again.Summary.DDLStatements)
	assert.Equal(t, []string{"transition_status"}, again.Tables[0].Skipped)
}

func TestReconcile_Idempotence(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())

	specs := []ColumnSpec{
		{Table: "businesses", Column: "name", Definition: "TEXT DEFAULT ''"},
		{Table: "businesses", Column: "stage", Definition: "TEXT DEFAULT 'Idea'"},
		{Table: "mentors", Column: "expertise", Definition: "TEXT DEFAULT ''"},
	}

	first, err := r.Reconcile(context.Background(), specs, Options{})
	assert.NoError(t, err)
	assert.True(t, first.OK())
	assert.NotZero(t, first.Summary.DDLStatements)

	second, err := r.Reconcile(context.Background(), specs, Options{})
	assert.NoError(t, err)
	assert.True(t, second.OK())
	assert.Zero(t, second.Summary.DDLStatements)
	assert.Zero(t, second.Summary.ColumnsAdded)
	assert.Equal(t, 3, second.Summary.ColumnsSkipped)
}

func TestReconcile_NeverTouchesExistingColumns(t *testing.T) {
	db := newTestDB(t)

	assert.NoError(t, db.Exec("CREATE TABLE resources (id INTEGER PRIMARY KEY, title TEXT, url TEXT)").Error)
	assert.NoError(t, db.Exec("INSERT INTO resources (title, url) VALUES ('Pitch deck guide', 'https://example.org/deck')").Error)

	r := NewReconciler(db, zap.NewNop())
	// Declared definition differs from the live column; it must be skipped,
	// not redefined.
	specs := []ColumnSpec{
		{Table: "resources", Column: "title", Definition: "VARCHAR(10) DEFAULT 'x'"},
		{Table: "resources", Column: "category", Definition: "TEXT DEFAULT 'General'"},
	}

	result, err := r.Reconcile(context.Background(), specs, Options{})
	assert.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, []string{"title"}, result.Tables[0].Skipped)
	assert.Equal(t, []string{"category"}, result.Tables[0].Added)

	var title string
	assert.NoError(t, db.Raw("SELECT title FROM resources WHERE id = 1").Scan(&title).Error)
	assert.Equal(t, "Pitch deck guide", title)
}

func TestReconcile_RelaxFallbackOnSQLite(t *testing.T) {
	db := newTestDB(t)

	// SQLite cannot drop NOT NULL in place, so the relax path must fall
	// through to the default fill without failing the table.
	assert.NoError(t, db.Exec("CREATE TABLE businesses (id INTEGER PRIMARY KEY, description TEXT NOT NULL DEFAULT '')").Error)
	assert.NoError(t, db.Exec("INSERT INTO businesses (description) VALUES ('Bike repair co-op')").Error)

	r := NewReconciler(db, zap.NewNop())
	specs := []ColumnSpec{
		{Table: "businesses", Column: "description", Definition: "TEXT DEFAULT ''", RelaxNotNull: true, FillDefault: ""},
	}

	result, err := r.Reconcile(context.Background(), specs, Options{})
	assert.NoError(t, err)
	assert.True(t, result.OK())
	assert.Empty(t, result.Tables[0].Relaxed)
	assert.Equal(t, []string{"description"}, result.Tables[0].Filled)

	// No NULL values remain and existing data is untouched.
	var nulls int64
	assert.NoError(t, db.Raw("SELECT COUNT(*) FROM businesses WHERE description IS NULL").Scan(&nulls).Error)
	assert.Zero(t, nulls)
	var desc string
	assert.NoError(t, db.Raw("SELECT description FROM businesses WHERE id = 1").Scan(&desc).Error)
	assert.Equal(t, "Bike repair co-op", desc)
}

func TestReconcile_DryRun(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Exec("CREATE TABLE permissions (id INTEGER PRIMARY KEY)").Error)

	r := NewReconciler(db, zap.NewNop())
	specs := []ColumnSpec{
		{Table: "permissions", Column: "scope", Definition: "TEXT DEFAULT '*'"},
		{Table: "audit_log", Column: "action", Definition: "TEXT DEFAULT ''"},
	}

	result, err := r.Reconcile(context.Background(), specs, Options{DryRun: true})
	assert.NoError(t, err)
	assert.True(t, result.OK())
	assert.Zero(t, result.Summary.DDLStatements)
	assert.Equal(t, 3, result.Summary.PlannedActions) // add column, create table, add column

	// Nothing was executed.
	columns, err := database.GetTableColumns(db, "permissions")
	assert.NoError(t, err)
	assert.Len(t, columns, 1)
	exists, err := database.TableExists(db, "audit_log")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestReconcile_DryRunPlansBackfillWhenRelaxUnavailable(t *testing.T) {
	db := newTestDB(t)

	// SQLite cannot drop NOT NULL, so a live run would take the backfill
	// path; the dry run must surface that as a pending change instead of
	// reporting nothing.
	assert.NoError(t, db.Exec("CREATE TABLE businesses (id INTEGER PRIMARY KEY, description TEXT NOT NULL DEFAULT '')").Error)

	r := NewReconciler(db, zap.NewNop())
	specs := []ColumnSpec{
		{Table: "businesses", Column: "description", Definition: "TEXT DEFAULT ''", RelaxNotNull: true, FillDefault: ""},
	}

	result, err := r.Reconcile(context.Background(), specs, Options{DryRun: true})
	assert.NoError(t, err)
	assert.True(t, result.OK())
	assert.Zero(t, result.Summary.DDLStatements)
	assert.Equal(t, []string{`UPDATE "businesses" SET "description" = ? WHERE "description" IS NULL`}, result.Tables[0].Planned)
}

func TestReconcile_RejectsInvalidIdentifiers(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())

	tests := []struct {
		name  string
		specs []ColumnSpec
	}{
		{"table with quote", []ColumnSpec{{Table: `youth"profiles`, Column: "a", Definition: "TEXT"}}},
		{"column with space", []ColumnSpec{{Table: "youth_profiles", Column: "drop table", Definition: "TEXT"}}},
		{"definition with separator", []ColumnSpec{{Table: "youth_profiles", Column: "a", Definition: "TEXT; DROP TABLE users"}}},
		{"empty definition", []ColumnSpec{{Table: "youth_profiles", Column: "a", Definition: "  "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Reconcile(context.Background(), tt.specs, Options{})
			assert.Error(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestReconcile_ConnectivityErrorIsFatal(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	assert.NoError(t, sqlDB.Close())

	r := NewReconciler(db, zap.NewNop())
	specs := []ColumnSpec{{Table: "businesses", Column: "name", Definition: "TEXT"}}

	result, err := r.Reconcile(context.Background(), specs, Options{})
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestReconcile_EmptySpecs(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())

	result, err := r.Reconcile(context.Background(), nil, Options{})
	assert.NoError(t, err)
	assert.True(t, result.OK())
	assert.Empty(t, result.Tables)
}

func TestGroupByTable_PreservesOrder(t *testing.T) {
	specs := []ColumnSpec{
		{Table: "b", Column: "one", Definition: "TEXT"},
		{Table: "a", Column: "two", Definition: "TEXT"},
		{Table: "b", Column: "three", Definition: "TEXT"},
	}

	grouped := groupByTable(specs)
	assert.Len(t, grouped, 2)
	assert.Equal(t, "b", grouped[0][0].Table)
	assert.Equal(t, []string{"one", "three"}, []string{grouped[0][0].Column, grouped[0][1].Column})
	assert.Equal(t, "a", grouped[1][0].Table)
}
