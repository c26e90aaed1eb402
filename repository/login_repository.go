package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tourdesk/models"
)

type LoginTrackingRepository interface {
	Record(ctx context.Context, entry *models.LoginTracking) error
	ListByUser(ctx context.Context, userID uint, page, limit int) ([]models.LoginTracking, int64, error)
}

type loginTrackingRepository struct {
	db *gorm.DB
}

func NewLoginTrackingRepository(db *gorm.DB) LoginTrackingRepository {
	return &loginTrackingRepository{db: db}
}

func (r *loginTrackingRepository) Record(ctx context.Context, entry *models.LoginTracking) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// ListByUser returns one page of the user's sign-ins, newest first, plus the
// total count.
func (r *loginTrackingRepository) ListByUser(ctx context.Context, userID uint, page, limit int) ([]models.LoginTracking, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&models.LoginTracking{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count logins: %w", err)
	}

	entries := []models.LoginTracking{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list logins: %w", err)
	}
	return entries, total, nil
}
