package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tourdesk/models"
	"tourdesk/repository"
	"tourdesk/utils"
)

func TestSeedSuperAdmin_CreatesOnce(t *testing.T) {
	db, err := OpenMemory("seed_creates_once")
	require.NoError(t, err)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, SeedSuperAdmin(ctx, users, "Owner", "Owner@Example.com", "s3cret-pass", bcrypt.MinCost))
	require.NoError(t, SeedSuperAdmin(ctx, users, "Owner", "owner@example.com", "s3cret-pass", bcrypt.MinCost))

	all, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "owner@example.com", all[0].Email)
	assert.Equal(t, models.RoleSuperAdmin, all[0].Role)
	assert.True(t, utils.CheckPassword("s3cret-pass", all[0].PasswordHash))
}

func TestSeedSuperAdmin_SkipsWithoutCredentials(t *testing.T) {
	db, err := OpenMemory("seed_without_credentials")
	require.NoError(t, err)
	users := repository.NewUserRepository(db)

	require.NoError(t, SeedSuperAdmin(context.Background(), users, "Owner", "", "", bcrypt.MinCost))

	count, err := users.CountByRole(context.Background(), models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSeedSuperAdmin_EmailTakenByAdmin(t *testing.T) {
	db, err := OpenMemory("seed_email_taken")
	require.NoError(t, err)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &models.AdminUser{Name: "Ed", Email: "owner@example.com", PasswordHash: "x", Role: models.RoleAdmin}))

	err = SeedSuperAdmin(ctx, users, "Owner", "owner@example.com", "s3cret-pass", bcrypt.MinCost)
	assert.Error(t, err)
}
