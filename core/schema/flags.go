package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"youthworks-db/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MigrationFlag is a persisted marker preventing re-execution of a one-time
// seeding action. NOT_SEEDED -> SEEDED is the only transition; nothing
// exposes the reverse.
type MigrationFlag struct {
	// Name identifies the guarded action.
	Name string `gorm:"column:name;primaryKey;size:191"`
	// Completed is true once the action has run to completion.
	Completed bool `gorm:"column:completed"`
	// CompletedAt is the completion timestamp.
	CompletedAt time.Time `gorm:"column:completed_at"`
}

// TableName ensures consistent table naming.
func (MigrationFlag) TableName() string {
	return "migration_flags"
}

// FlagStore reads and writes migration flags.
type FlagStore struct {
	db *gorm.DB
}

// NewFlagStore creates a flag store bound to the given database handle.
func NewFlagStore(db *gorm.DB) *FlagStore {
	return &FlagStore{db: db}
}

// EnsureTable creates the migration_flags table if it does not exist. The
// flags table uses the flag name as its primary key, so it is created in one
// statement rather than through the minimal-key reconciler path.
func (s *FlagStore) EnsureTable(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	exists, err := database.TableExists(db, MigrationFlag{}.TableName())
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	var stmt string
	if s.db.Dialector.Name() == "sqlite" {
		stmt = `CREATE TABLE "migration_flags" ("name" TEXT PRIMARY KEY, "completed" BOOLEAN NOT NULL DEFAULT 0, "completed_at" DATETIME NULL)`
	} else {
		stmt = "CREATE TABLE `migration_flags` (`name` VARCHAR(191) PRIMARY KEY, `completed` BOOLEAN NOT NULL DEFAULT FALSE, `completed_at` DATETIME NULL)"
	}
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to create migration_flags table: %w", err)
	}
	return nil
}

// IsCompleted reports whether the named flag has been marked completed.
// A missing row means the guarded action has not run yet.
func (s *FlagStore) IsCompleted(ctx context.Context, name string) (bool, error) {
	var flag MigrationFlag
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read migration flag %s: %w", name, err)
	}
	return flag.Completed, nil
}

// Claim inserts the flag row if absent and reports whether this caller
// created it. The insert is insert-or-ignore on the primary key, so when
// several processes race past IsCompleted exactly one claim succeeds.
// Callers run Claim inside the same transaction as the guarded action: a
// rolled-back action releases the claim with it.
func (s *FlagStore) Claim(ctx context.Context, name string) (bool, error) {
	flag := MigrationFlag{Name: name}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&flag)
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim migration flag %s: %w", name, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MarkCompleted upserts the named flag as completed. The upsert converges
// on a single flag row whether or not a claim row already exists.
func (s *FlagStore) MarkCompleted(ctx context.Context, name string) error {
	flag := MigrationFlag{
		Name:        name,
		Completed:   true,
		CompletedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at"}),
	}).Create(&flag).Error
	if err != nil {
		return fmt.Errorf("failed to mark migration flag %s: %w", name, err)
	}
	return nil
}
