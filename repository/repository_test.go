package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tourdesk/database"
	"tourdesk/models"
	"tourdesk/repository"
)

func openDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory("repository_" + name)
	require.NoError(t, err)
	return db
}

func TestUserRepository_EmailUniqueness(t *testing.T) {
	users := repository.NewUserRepository(openDB(t, "users_unique"))
	ctx := context.Background()

	first := &models.AdminUser{Name: "Ed", Email: " Ed@Example.com", PasswordHash: "h", Role: models.RoleAdmin}
	require.NoError(t, users.Create(ctx, first))
	assert.Equal(t, "ed@example.com", first.Email)

	err := users.Create(ctx, &models.AdminUser{Name: "Ed 2", Email: "ED@example.com", PasswordHash: "h", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	second := &models.AdminUser{Name: "Flo", Email: "flo@example.com", PasswordHash: "h", Role: models.RoleAdmin}
	require.NoError(t, users.Create(ctx, second))

	second.Email = "ed@example.com"
	assert.ErrorIs(t, users.Update(ctx, second), repository.ErrDuplicateEmail)

	// Keeping your own email is not a conflict.
	first.Name = "Edward"
	require.NoError(t, users.Update(ctx, first))

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, users.Delete(ctx, 999), repository.ErrNotFound)
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	users := repository.NewUserRepository(openDB(t, "users_touch"))
	ctx := context.Background()

	user := &models.AdminUser{Name: "Ed", Email: "ed@example.com", PasswordHash: "h", Role: models.RoleSuperAdmin}
	require.NoError(t, users.Create(ctx, user))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, users.TouchLastLogin(ctx, user.ID, at))

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, at.Equal(*stored.LastLoginAt))

	count, err := users.CountByRole(ctx, models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestTourRepository_ToggleTwiceRestores(t *testing.T) {
	tours := repository.NewTourRepository(openDB(t, "tours_toggle"))
	ctx := context.Background()

	tour := &models.Tour{Title: "Paris", Price: 199, Currency: "EUR", Category: models.TourCategoryHot}
	require.NoError(t, tours.Create(ctx, tour))

	toggled, err := tours.TogglePublished(ctx, tour.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Published)

	toggled, err = tours.TogglePublished(ctx, tour.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Published)

	_, err = tours.TogglePublished(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTourRepository_ListFilter(t *testing.T) {
	tours := repository.NewTourRepository(openDB(t, "tours_list"))
	ctx := context.Background()

	for i, published := range []bool{true, false, true} {
		require.NoError(t, tours.Create(ctx, &models.Tour{
			Title:     "Trip",
			Price:     float64(100 + i),
			Currency:  "EUR",
			Category:  models.TourCategories[i],
			Published: published,
		}))
	}

	yes := true
	list, err := tours.List(ctx, &yes)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := tours.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.NotNil(t, all[0].Highlights)
}

func TestReviewRepository_Counts(t *testing.T) {
	reviews := repository.NewReviewRepository(openDB(t, "reviews_counts"))
	ctx := context.Background()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	seed := []struct {
		status models.ReviewStatus
		at     time.Time
	}{
		{models.ReviewStatusPending, day.Add(-48 * time.Hour)},
		{models.ReviewStatusPending, day.Add(2 * time.Hour)},
		{models.ReviewStatusPublished, day.Add(3 * time.Hour)},
	}
	for _, s := range seed {
		require.NoError(t, reviews.Create(ctx, &models.Review{Author: "A", Text: "T", Status: s.status, CreatedAt: s.at}))
	}

	pending, err := reviews.CountByStatus(ctx, models.ReviewStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 2, pending)

	since, err := reviews.CountSince(ctx, day)
	require.NoError(t, err)
	assert.EqualValues(t, 2, since)

	assert.ErrorIs(t, reviews.UpdateStatus(ctx, 999, models.ReviewStatusPublished), repository.ErrNotFound)
}
