package models

import (
	"time"

	"gorm.io/datatypes"
)

// TourCategory groups tours on the public site.
type TourCategory string

const (
	TourCategoryHot     TourCategory = "hot"
	TourCategoryPopular TourCategory = "popular"
	TourCategorySpecial TourCategory = "special"
)

// TourCategories lists every category in display order.
var TourCategories = []TourCategory{TourCategoryHot, TourCategoryPopular, TourCategorySpecial}

// Valid reports whether c is one of the known categories.
func (c TourCategory) Valid() bool {
	for _, known := range TourCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Tour struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"type:varchar(200);not null" json:"title"`
	Description string                      `gorm:"type:text" json:"description"`
	Price       float64                     `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency    string                      `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`
	Category    TourCategory                `gorm:"type:varchar(20);not null;index" json:"category"`
	Image       string                      `gorm:"type:varchar(500)" json:"image"`
	Highlights  datatypes.JSONSlice[string] `json:"highlights"`
	Published   bool                        `gorm:"not null;default:false;index" json:"published"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

// ToursByCategory is the grouped shape the site renders: one list per category.
type ToursByCategory map[TourCategory][]Tour

// GroupTours keeps the input order inside each category and always emits
// every category key, empty or not.
func GroupTours(tours []Tour) ToursByCategory {
	grouped := make(ToursByCategory, len(TourCategories))
	for _, c := range TourCategories {
		grouped[c] = []Tour{}
	}
	for _, t := range tours {
		grouped[t.Category] = append(grouped[t.Category], t)
	}
	return grouped
}
