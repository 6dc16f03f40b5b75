// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL and SQLite connections based on the application's configuration.
//
// # Connect
//
// The generic Connect function establishes a connection to the database. The connection
// carries sane pool defaults and is verified with a ping before being handed out, so a
// reconciliation run fails fast on connectivity problems instead of halfway through.
//
// # Schema Inspection
//
// The package includes the catalog queries the Schema Reconciler relies on: table
// existence checks and per-table column listings, normalized across dialects into
// a single ColumnInfo shape.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "youth_profiles")
package database
