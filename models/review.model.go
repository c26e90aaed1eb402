package models

import (
	"strings"
	"time"
)

// ReviewStatus is the moderation state of a review.
type ReviewStatus string

const (
	ReviewStatusPending   ReviewStatus = "pending"
	ReviewStatusPublished ReviewStatus = "published"
	ReviewStatusRejected  ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusPublished, ReviewStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether moderation may move a review from s to next.
// Nothing goes back to pending; re-applying the current status is allowed.
func (s ReviewStatus) CanTransitionTo(next ReviewStatus) bool {
	if !next.Valid() {
		return false
	}
	if next == s {
		return true
	}
	return next != ReviewStatusPending
}

type Review struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Author    string       `gorm:"type:varchar(120);not null" json:"author"`
	Text      string       `gorm:"type:text;not null" json:"text"`
	Rating    *int         `gorm:"check:rating IS NULL OR (rating >= 1 AND rating <= 5)" json:"rating,omitempty"`
	Status    ReviewStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ParseReviewStatus accepts the canonical values plus the older upper-case
// vocabulary (PENDING/APPROVED/REJECTED) still found in exported data.
func ParseReviewStatus(raw string) (ReviewStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return ReviewStatusPending, true
	case "published", "approved":
		return ReviewStatusPublished, true
	case "rejected":
		return ReviewStatusRejected, true
	}
	return "", false
}
