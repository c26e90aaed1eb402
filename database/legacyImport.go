package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"tourdesk/logging"
	"tourdesk/models"
)

// The flat-file store kept tours as a category -> list document and reviews
// as one array. These shapes exist only to read those files once.

type legacyTour struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       models.FlexString `json:"price"`
	Currency    string            `json:"currency"`
	Image       string            `json:"image"`
	Highlights  []string          `json:"highlights"`
	Published   *bool             `json:"published"`
}

type legacyReview struct {
	ID        models.FlexString `json:"id"`
	Name      string            `json:"name"`
	Author    string            `json:"author"`
	Text      string            `json:"text"`
	Rating    *int              `json:"rating"`
	Status    string            `json:"status"`
	CreatedAt json.RawMessage   `json:"createdAt"`
}

// ImportReport counts what an import did.
type ImportReport struct {
	ToursImported   int `json:"toursImported"`
	ToursSkipped    int `json:"toursSkipped"`
	ReviewsImported int `json:"reviewsImported"`
	ReviewsSkipped  int `json:"reviewsSkipped"`
}

// ImportLegacy loads the legacy tours and reviews documents into db. Either
// path may be empty to skip that file. Re-running is safe: tours already
// present by (category, title) and reviews by (author, createdAt) are skipped.
func ImportLegacy(db *gorm.DB, toursPath, reviewsPath string) (ImportReport, error) {
	var report ImportReport

	if toursPath != "" {
		data, err := os.ReadFile(toursPath)
		if err != nil {
			return report, fmt.Errorf("read tours: %w", err)
		}
		if err := importTours(db, data, &report); err != nil {
			return report, err
		}
	}

	if reviewsPath != "" {
		data, err := os.ReadFile(reviewsPath)
		if err != nil {
			return report, fmt.Errorf("read reviews: %w", err)
		}
		if err := importReviews(db, data, &report); err != nil {
			return report, err
		}
	}

	return report, nil
}

func importTours(db *gorm.DB, data []byte, report *ImportReport) error {
	var doc map[string][]legacyTour
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse tours: %w", err)
	}

	for key, tours := range doc {
		if !models.TourCategory(strings.ToLower(key)).Valid() {
			logging.Warn().Str("category", key).Int("tours", len(tours)).Msg("legacy tours in unknown category skipped")
			report.ToursSkipped += len(tours)
		}
	}

	// Categories in display order, records in file order, so ids follow the
	// order the site used to render.
	for _, category := range models.TourCategories {
		for _, lt := range toursFor(doc, category) {
			title := strings.TrimSpace(lt.Title)
			price, err := lt.Price.Float()
			if title == "" || err != nil || price <= 0 {
				logging.Warn().Str("category", string(category)).Str("title", title).Msg("legacy tour without title or valid price skipped")
				report.ToursSkipped++
				continue
			}

			var existing int64
			if err := db.Model(&models.Tour{}).Where("category = ? AND title = ?", category, title).Count(&existing).Error; err != nil {
				return fmt.Errorf("check tour %q: %w", title, err)
			}
			if existing > 0 {
				report.ToursSkipped++
				continue
			}

			tour := models.Tour{
				Title:       title,
				Description: lt.Description,
				Price:       price,
				Currency:    strings.ToUpper(lt.Currency),
				Category:    category,
				Image:       lt.Image,
				Highlights:  lt.Highlights,
				// The flat file only held what the site showed.
				Published: lt.Published == nil || *lt.Published,
			}
			if tour.Currency == "" {
				tour.Currency = "EUR"
			}
			if tour.Highlights == nil {
				tour.Highlights = []string{}
			}
			if err := db.Create(&tour).Error; err != nil {
				return fmt.Errorf("import tour %q: %w", title, err)
			}
			report.ToursImported++
		}
	}
	return nil
}

func toursFor(doc map[string][]legacyTour, category models.TourCategory) []legacyTour {
	var out []legacyTour
	for key, tours := range doc {
		if strings.ToLower(key) == string(category) {
			out = append(out, tours...)
		}
	}
	return out
}

func importReviews(db *gorm.DB, data []byte, report *ImportReport) error {
	var doc []legacyReview
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse reviews: %w", err)
	}

	seen := make(map[string]bool, len(doc))
	for i, lr := range doc {
		createdAt, err := parseLegacyTime(lr.CreatedAt)
		if err != nil {
			logging.Warn().Int("index", i).Err(err).Msg("legacy review without usable createdAt skipped")
			report.ReviewsSkipped++
			continue
		}

		id := LegacyReviewID(lr.ID, createdAt)
		if seen[id] {
			report.ReviewsSkipped++
			continue
		}
		seen[id] = true

		author := strings.TrimSpace(lr.Name)
		if author == "" {
			author = strings.TrimSpace(lr.Author)
		}
		text := strings.TrimSpace(lr.Text)
		if author == "" || text == "" {
			logging.Warn().Str("legacyId", id).Msg("legacy review without author or text skipped")
			report.ReviewsSkipped++
			continue
		}

		status := models.ReviewStatusPending
		if lr.Status != "" {
			parsed, ok := models.ParseReviewStatus(lr.Status)
			if !ok {
				logging.Warn().Str("legacyId", id).Str("status", lr.Status).Msg("legacy review with unknown status skipped")
				report.ReviewsSkipped++
				continue
			}
			status = parsed
		}

		rating := lr.Rating
		if rating != nil && (*rating < 1 || *rating > 5) {
			rating = nil
		}

		var existing int64
		if err := db.Model(&models.Review{}).Where("author = ? AND created_at = ?", author, createdAt).Count(&existing).Error; err != nil {
			return fmt.Errorf("check review %s: %w", id, err)
		}
		if existing > 0 {
			report.ReviewsSkipped++
			continue
		}

		review := models.Review{
			Author:    author,
			Text:      text,
			Rating:    rating,
			Status:    status,
			CreatedAt: createdAt,
		}
		if err := db.Create(&review).Error; err != nil {
			return fmt.Errorf("import review %s: %w", id, err)
		}
		report.ReviewsImported++
	}
	return nil
}

// LegacyReviewID is the identifier the flat-file store used: the explicit id
// when present, otherwise the creation time in Unix milliseconds.
func LegacyReviewID(explicit models.FlexString, createdAt time.Time) string {
	if explicit != "" {
		return string(explicit)
	}
	return strconv.FormatInt(createdAt.UnixMilli(), 10)
}

// parseLegacyTime accepts RFC 3339 strings and Unix millisecond numbers.
func parseLegacyTime(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, errors.New("missing createdAt")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC(), nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("unrecognised createdAt %q", s)
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("unrecognised createdAt %s", raw)
	}
	return time.UnixMilli(ms).UTC(), nil
}
