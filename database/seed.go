package database

import (
	"context"
	"errors"
	"fmt"

	"tourdesk/logging"
	"tourdesk/models"
	"tourdesk/repository"
	"tourdesk/utils"
)

// SeedSuperAdmin creates the initial super_admin when none exists yet. It is a
// no-op without credentials or once any super_admin is present.
func SeedSuperAdmin(ctx context.Context, users repository.UserRepository, name, email, password string, cost int) error {
	if email == "" || password == "" {
		logging.Info().Msg("skip seeding super admin: SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set")
		return nil
	}

	count, err := users.CountByRole(ctx, models.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("count super admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	err = users.Create(ctx, &models.AdminUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return fmt.Errorf("seed email %s belongs to an existing non-super admin", email)
	}
	if err != nil {
		return err
	}

	logging.Info().Str("email", repository.NormalizeEmail(email)).Msg("super admin seeded")
	return nil
}
