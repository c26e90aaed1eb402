package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/models"
)

const legacyTours = `{
  "hot": [
    {"title": "Paris", "description": "Three nights", "price": "199", "image": "/img/paris.jpg"},
    {"title": "Rome", "price": 349.5, "highlights": ["Colosseum"]}
  ],
  "popular": [
    {"title": "Lisbon", "price": "0"}
  ],
  "weekend": [
    {"title": "Prague", "price": 120}
  ]
}`

const legacyReviews = `[
  {"id": 17, "name": "Anna", "text": "Great trip", "rating": 5, "status": "published", "createdAt": "2024-03-01T10:00:00Z"},
  {"author": "Ben", "text": "Good", "status": "APPROVED", "createdAt": 1709287200000},
  {"name": "Cleo", "text": "Waiting", "status": "PENDING", "createdAt": "2024-03-02T08:30:00Z"},
  {"name": "Cleo", "text": "Waiting", "status": "PENDING", "createdAt": "2024-03-02T08:30:00Z"},
  {"name": "Dan", "text": "Spam", "status": "REJECTED", "rating": 9, "createdAt": "2024-03-03T00:00:00Z"},
  {"name": "Eve", "text": "No date"}
]`

func writeLegacy(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	tours := filepath.Join(dir, "tours.json")
	reviews := filepath.Join(dir, "reviews.json")
	require.NoError(t, os.WriteFile(tours, []byte(legacyTours), 0o644))
	require.NoError(t, os.WriteFile(reviews, []byte(legacyReviews), 0o644))
	return tours, reviews
}

func TestImportLegacy(t *testing.T) {
	db, err := OpenMemory("legacy_import")
	require.NoError(t, err)
	toursPath, reviewsPath := writeLegacy(t)

	report, err := ImportLegacy(db, toursPath, reviewsPath)
	require.NoError(t, err)
	assert.Equal(t, 2, report.ToursImported)
	assert.Equal(t, 2, report.ToursSkipped) // zero price, unknown category
	assert.Equal(t, 4, report.ReviewsImported)
	assert.Equal(t, 2, report.ReviewsSkipped) // duplicate, missing date

	var tours []models.Tour
	require.NoError(t, db.Order("id").Find(&tours).Error)
	require.Len(t, tours, 2)
	assert.Equal(t, "Paris", tours[0].Title)
	assert.Equal(t, 199.0, tours[0].Price)
	assert.Equal(t, "EUR", tours[0].Currency)
	assert.True(t, tours[0].Published)
	assert.Equal(t, models.TourCategoryHot, tours[1].Category)
	assert.Equal(t, []string{"Colosseum"}, []string(tours[1].Highlights))

	statuses := map[string]models.ReviewStatus{}
	var reviews []models.Review
	require.NoError(t, db.Find(&reviews).Error)
	for _, r := range reviews {
		statuses[r.Author] = r.Status
		if r.Author == "Dan" {
			assert.Nil(t, r.Rating)
		}
	}
	assert.Equal(t, map[string]models.ReviewStatus{
		"Anna": models.ReviewStatusPublished,
		"Ben":  models.ReviewStatusPublished,
		"Cleo": models.ReviewStatusPending,
		"Dan":  models.ReviewStatusRejected,
	}, statuses)
}

func TestImportLegacy_Idempotent(t *testing.T) {
	db, err := OpenMemory("legacy_import_twice")
	require.NoError(t, err)
	toursPath, reviewsPath := writeLegacy(t)

	_, err = ImportLegacy(db, toursPath, reviewsPath)
	require.NoError(t, err)
	report, err := ImportLegacy(db, toursPath, reviewsPath)
	require.NoError(t, err)

	assert.Zero(t, report.ToursImported)
	assert.Zero(t, report.ReviewsImported)

	var tours, reviews int64
	require.NoError(t, db.Model(&models.Tour{}).Count(&tours).Error)
	require.NoError(t, db.Model(&models.Review{}).Count(&reviews).Error)
	assert.EqualValues(t, 2, tours)
	assert.EqualValues(t, 4, reviews)
}

func TestLegacyReviewID(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "17", LegacyReviewID("17", at))
	assert.Equal(t, "1709287200000", LegacyReviewID("", at))
}

func TestParseLegacyTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, raw := range []string{`"2024-03-01T10:00:00Z"`, `1709287200000`, `"1709287200000"`} {
		got, err := parseLegacyTime([]byte(raw))
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}

	_, err := parseLegacyTime(nil)
	assert.Error(t, err)
	_, err = parseLegacyTime([]byte(`"yesterday"`))
	assert.Error(t, err)
}
