package program

import "youthworks-db/core/schema"

// TargetSpecs returns the builtin target schema for the program database.
// Everything here is additive: the reconciler only creates what is missing
// and never redefines a column that already exists.
//
// The businesses.description entry covers a legacy deployment quirk: early
// databases created the column NOT NULL, which blocks the nullable default
// the application now expects. The reconciler relaxes the constraint where
// the dialect allows it and backfills empty strings otherwise.
func TargetSpecs() []schema.ColumnSpec {
	return []schema.ColumnSpec{
		// Youth profiles
		{Table: "youth_profiles", Column: "full_name", Definition: "VARCHAR(120) DEFAULT ''"},
		{Table: "youth_profiles", Column: "email", Definition: "VARCHAR(190) DEFAULT ''"},
		{Table: "youth_profiles", Column: "school", Definition: "VARCHAR(120) DEFAULT ''"},
		{Table: "youth_profiles", Column: "graduation_year", Definition: "INT DEFAULT 0"},
		{Table: "youth_profiles", Column: "transition_status", Definition: "TEXT DEFAULT 'Not Started'"},
		{Table: "youth_profiles", Column: "mentor_id", Definition: "INT UNSIGNED DEFAULT 0"},

		// Businesses
		{Table: "businesses", Column: "name", Definition: "VARCHAR(190) DEFAULT ''"},
		{Table: "businesses", Column: "owner_profile_id", Definition: "INT UNSIGNED DEFAULT 0"},
		{Table: "businesses", Column: "stage", Definition: "VARCHAR(32) DEFAULT 'Idea'"},
		{Table: "businesses", Column: "description", Definition: "TEXT DEFAULT ''", RelaxNotNull: true, FillDefault: ""},
		{Table: "businesses", Column: "is_active", Definition: "BOOLEAN DEFAULT TRUE"},

		// Mentors
		{Table: "mentors", Column: "full_name", Definition: "VARCHAR(120) DEFAULT ''"},
		{Table: "mentors", Column: "email", Definition: "VARCHAR(190) DEFAULT ''"},
		{Table: "mentors", Column: "expertise", Definition: "VARCHAR(190) DEFAULT ''"},
		{Table: "mentors", Column: "max_mentees", Definition: "INT DEFAULT 5"},

		// Makerspaces
		{Table: "makerspaces", Column: "name", Definition: "VARCHAR(190) DEFAULT ''"},
		{Table: "makerspaces", Column: "location", Definition: "VARCHAR(190) DEFAULT ''"},
		{Table: "makerspaces", Column: "capacity", Definition: "INT DEFAULT 0"},
		{Table: "makerspaces", Column: "requires_waiver", Definition: "BOOLEAN DEFAULT FALSE"},

		// Resources
		{Table: "resources", Column: "title", Definition: "VARCHAR(190) DEFAULT ''"},
		{Table: "resources", Column: "url", Definition: "TEXT DEFAULT ''"},
		{Table: "resources", Column: "category", Definition: "VARCHAR(64) DEFAULT 'General'"},

		// Accounts and permissions
		{Table: "users", Column: "public_id", Definition: "VARCHAR(36) DEFAULT ''"},
		{Table: "users", Column: "username", Definition: "VARCHAR(64) DEFAULT ''"},
		{Table: "users", Column: "email", Definition: "VARCHAR(190) DEFAULT ''"},
		{Table: "users", Column: "display_name", Definition: "VARCHAR(120) DEFAULT ''"},
		{Table: "roles", Column: "name", Definition: "VARCHAR(64) DEFAULT ''"},
		{Table: "roles", Column: "description", Definition: "VARCHAR(190) DEFAULT ''"},
		{Table: "user_roles", Column: "user_id", Definition: "INT UNSIGNED DEFAULT 0"},
		{Table: "user_roles", Column: "role_id", Definition: "INT UNSIGNED DEFAULT 0"},
		{Table: "permissions", Column: "role_id", Definition: "INT UNSIGNED DEFAULT 0"},
		{Table: "permissions", Column: "scope", Definition: "VARCHAR(120) DEFAULT ''"},
		{Table: "permissions", Column: "allowed", Definition: "BOOLEAN DEFAULT TRUE"},
	}
}
