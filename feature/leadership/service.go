package leadership

import (
	"context"
	"fmt"

	"youthworks-db/core/schema"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedFlag is the migration flag guarding the one-time leadership seed.
const SeedFlag = "leadership_accounts_seeded"

// seedEntry pairs a leadership account with the role it receives.
type seedEntry struct {
	account Account
	role    Role
}

// seedEntries is the fixed leadership roster created on first run.
func seedEntries() []seedEntry {
	return []seedEntry{
		{
			account: Account{Username: "program.director", Email: "director@youthworks.org", DisplayName: "Program Director"},
			role:    Role{Name: "program_director", Description: "Full administrative access to the program"},
		},
		{
			account: Account{Username: "mentor.coordinator", Email: "mentors@youthworks.org", DisplayName: "Mentor Coordinator"},
			role:    Role{Name: "mentor_coordinator", Description: "Manages mentor onboarding and matching"},
		},
		{
			account: Account{Username: "makerspace.admin", Email: "makerspace@youthworks.org", DisplayName: "Makerspace Admin"},
			role:    Role{Name: "makerspace_admin", Description: "Manages makerspace scheduling and waivers"},
		},
	}
}

// Service seeds the leadership accounts and roles exactly once across any
// number of process restarts.
type Service struct {
	db     *gorm.DB
	flags  *schema.FlagStore
	logger *zap.Logger
}

// NewService creates a new leadership seeding service.
func NewService(db *gorm.DB, flags *schema.FlagStore, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		flags:  flags,
		logger: logger,
	}
}

// Seed creates the leadership roles and accounts unless the migration flag
// says they already exist. It returns true when this invocation performed
// the seeding.
//
// The whole seed runs in one transaction that starts by claiming the flag
// row: when two processes race past IsCompleted, the flag's primary key
// lets exactly one claim land, and the loser inserts nothing. A failed seed
// rolls the claim back with it, so the next start retries cleanly. The
// inserts themselves are existence-guarded, which keeps re-runs over
// manually provisioned rows from duplicating them.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	done, err := s.flags.IsCompleted(ctx, SeedFlag)
	if err != nil {
		return false, err
	}
	if done {
		s.logger.Info("Leadership accounts already seeded, skipping", zap.String("flag", SeedFlag))
		return false, nil
	}

	seeded := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claimed, err := schema.NewFlagStore(tx).Claim(ctx, SeedFlag)
		if err != nil {
			return err
		}
		if !claimed {
			s.logger.Warn("Leadership seed already claimed by another process, skipping",
				zap.String("flag", SeedFlag))
			return nil
		}

		for _, entry := range seedEntries() {
			role := entry.role
			if err := tx.Where(Role{Name: role.Name}).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", entry.role.Name, err)
			}

			account := entry.account
			account.PublicID = uuid.NewString()
			if err := tx.Where(Account{Username: entry.account.Username}).FirstOrCreate(&account).Error; err != nil {
				return fmt.Errorf("failed to seed account %s: %w", entry.account.Username, err)
			}

			link := AccountRole{UserID: account.ID, RoleID: role.ID}
			if err := tx.Where(AccountRole{UserID: account.ID, RoleID: role.ID}).FirstOrCreate(&link).Error; err != nil {
				return fmt.Errorf("failed to link account %s to role %s: %w", entry.account.Username, entry.role.Name, err)
			}

			s.logger.Info("Seeded leadership account",
				zap.String("username", account.Username),
				zap.String("role", role.Name),
			)
		}

		if err := schema.NewFlagStore(tx).MarkCompleted(ctx, SeedFlag); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		s.logger.Info("Leadership seeding completed", zap.String("flag", SeedFlag))
	}
	return seeded, nil
}
