package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"

	"tourdesk/logging"
	"tourdesk/models"
)

// ReviewCounter is the part of the review store the digest reads.
type ReviewCounter interface {
	CountByStatus(ctx context.Context, status models.ReviewStatus) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// ReviewDigest reports the moderation backlog to the staff chat.
type ReviewDigest struct {
	reviews  ReviewCounter
	notifier ChatNotifier
	clock    func() time.Time
}

func NewReviewDigest(reviews ReviewCounter, notifier ChatNotifier) *ReviewDigest {
	return &ReviewDigest{reviews: reviews, notifier: notifier, clock: time.Now}
}

// Run sends one digest. Nothing is sent when no review is pending.
func (d *ReviewDigest) Run(ctx context.Context) (sent bool, err error) {
	pending, err := d.reviews.CountByStatus(ctx, models.ReviewStatusPending)
	if err != nil {
		return false, fmt.Errorf("count pending reviews: %w", err)
	}
	if pending == 0 {
		return false, nil
	}

	since := now.With(d.clock()).BeginningOfDay().AddDate(0, 0, -1)
	recent, err := d.reviews.CountSince(ctx, since)
	if err != nil {
		return false, fmt.Errorf("count recent reviews: %w", err)
	}

	text := fmt.Sprintf("<b>Review digest</b>\nPending moderation: %d\nSubmitted since %s: %d",
		pending, since.Format("2 Jan"), recent)
	if err := d.notifier.Notify(ctx, text); err != nil {
		return false, err
	}
	return true, nil
}

// InitializeReviewDigestScheduler runs the digest on spec (standard 5-field cron).
func InitializeReviewDigestScheduler(spec string, digest *ReviewDigest) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		sent, err := digest.Run(ctx)
		if err != nil {
			logging.Error().Err(err).Msg("[REVIEW-DIGEST] failed")
			return
		}
		logging.Info().Bool("sent", sent).Msg("[REVIEW-DIGEST] completed")
	})
	if err != nil {
		return nil, fmt.Errorf("review digest schedule %q: %w", spec, err)
	}

	c.Start()
	logging.Info().Str("schedule", spec).Msg("[REVIEW-DIGEST] scheduler started")
	return c, nil
}
