package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tourdesk/models"
)

type TourRepository interface {
	List(ctx context.Context, published *bool) ([]models.Tour, error)
	FindByID(ctx context.Context, id uint) (*models.Tour, error)
	Create(ctx context.Context, tour *models.Tour) error
	Update(ctx context.Context, tour *models.Tour) error
	Delete(ctx context.Context, id uint) error
	TogglePublished(ctx context.Context, id uint) (*models.Tour, error)
}

type tourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) TourRepository {
	return &tourRepository{db: db}
}

func (r *tourRepository) List(ctx context.Context, published *bool) ([]models.Tour, error) {
	var tours []models.Tour
	q := r.db.WithContext(ctx)
	if published != nil {
		q = q.Where("published = ?", *published)
	}
	if err := q.Order("id ASC").Find(&tours).Error; err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	return tours, nil
}

func (r *tourRepository) FindByID(ctx context.Context, id uint) (*models.Tour, error) {
	var tour models.Tour
	if err := r.db.WithContext(ctx).First(&tour, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find tour %d: %w", id, err)
	}
	return &tour, nil
}

func (r *tourRepository) Create(ctx context.Context, tour *models.Tour) error {
	if tour.Highlights == nil {
		tour.Highlights = []string{}
	}
	if err := r.db.WithContext(ctx).Create(tour).Error; err != nil {
		return fmt.Errorf("create tour: %w", err)
	}
	return nil
}

// Update replaces every mutable field of the stored tour with tour's values.
func (r *tourRepository) Update(ctx context.Context, tour *models.Tour) error {
	if tour.Highlights == nil {
		tour.Highlights = []string{}
	}
	res := r.db.WithContext(ctx).
		Model(&models.Tour{ID: tour.ID}).
		Select("Title", "Description", "Price", "Currency", "Category", "Image", "Highlights", "Published", "UpdatedAt").
		Updates(tour)
	if res.Error != nil {
		return fmt.Errorf("update tour %d: %w", tour.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tourRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Tour{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete tour %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TogglePublished flips the flag in a single statement so concurrent toggles
// cannot both read the same old value.
func (r *tourRepository) TogglePublished(ctx context.Context, id uint) (*models.Tour, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Tour{}).
		Where("id = ?", id).
		Update("published", gorm.Expr("NOT published"))
	if res.Error != nil {
		return nil, fmt.Errorf("toggle tour %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}
