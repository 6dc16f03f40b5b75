package program

import (
	"context"
	"testing"

	"youthworks-db/core/database"
	"youthworks-db/core/schema"

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

func TestService_ReconcileBuiltinSchema(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop())

	result, err := svc.Reconcile(context.Background(), TargetSpecs(), schema.Options{})
	assert.NoError(t, err)
	assert.True(t, result.OK())
	assert.NotZero(t, result.Summary.TablesCreated)

	for _, table := range []string{"youth_profiles", "businesses", "mentors", "makerspaces", "resources", "users", "roles", "user_roles", "permissions"} {
		exists, err := database.TableExists(db, table)
		assert.NoError(t, err)
		assert.True(t, exists, "expected table %s to exist", table)
	}

	// A fully converged database needs no further DDL.
	again, err := svc.Reconcile(context.Background(), TargetSpecs(), schema.Options{})
	assert.NoError(t, err)
	assert.True(t, again.OK())
	assert.Zero(t, again.Summary.DDLStatements)
}

func TestService_DriftReportsWithoutDDL(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop())

	result, err := svc.Drift(context.Background(), TargetSpecs())
	assert.NoError(t, err)
	assert.True(t, result.OK())
	assert.NotZero(t, result.Summary.PlannedActions)
	assert.Zero(t, result.Summary.DDLStatements)

	exists, err := database.TableExists(db, "youth_profiles")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestTargetSpecs_DeclaredOncePerColumn(t *testing.T) {
	seen := make(map[string]bool)
	for _, spec := range TargetSpecs() {
		key := spec.Table + "." + spec.Column
		assert.False(t, seen[key], "duplicate spec for %s", key)
		seen[key] = true
		assert.NotEmpty(t, spec.Definition, "empty definition for %s", key)
	}
}
