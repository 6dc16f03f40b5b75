// Package schema brings a live relational database into conformance with a
// declared target shape without destructive side effects.
//
// # Reconciler
//
// The Reconciler consumes a list of ColumnSpec values (table, column,
// definition) and, per table, checks the catalog for the table and each
// declared column. Missing tables are created with a minimal primary key;
// missing columns are added with their declared definition; existing columns
// are never altered. All DDL is additive, and a second run with the same
// specs performs no DDL at all.
//
// Tables are processed independently and sequentially. A failure on one
// table is recorded in the Result and the run continues, so a bad table
// never blocks the rest of the schema. The only fatal path is failing to
// reach the database at all.
//
// A known legacy case is handled explicitly: a column that should become
// nullable but still carries NOT NULL gets the constraint dropped, and if
// the dialect or the data refuses, its NULL rows are backfilled with the
// declared default instead.
//
// # Migration Flags
//
// FlagStore persists one-time markers in the migration_flags table. A
// guarded action (such as seeding leadership accounts) checks IsCompleted
// before running and calls MarkCompleted after; the completed write is an
// upsert so concurrent processes converge on one flag row.
//
// # Manifests
//
// The target schema can be declared in code or loaded from a YAML manifest,
// either a local file or an object in the operations bucket.
package schema
