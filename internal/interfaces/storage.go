// Package interfaces defines service contracts for Brief
package interfaces

import (
	"context"

	"github.com/bobmcallan/brief/internal/models"
)

// BriefingStore persists daily briefings keyed by calendar date.
type BriefingStore interface {
	// GetBriefing retrieves the briefing for a date (YYYY-MM-DD).
	// Returns (nil, nil) when no row exists.
	GetBriefing(ctx context.Context, date string) (*models.Briefing, error)

	// SaveBriefing upserts the briefing keyed by its date
	SaveBriefing(ctx context.Context, briefing *models.Briefing) error

	// ListBriefings returns briefings newest-first with offset pagination
	ListBriefings(ctx context.Context, offset, limit int) ([]models.Briefing, error)

	// CountBriefings returns the total number of stored briefings
	CountBriefings(ctx context.Context) (int, error)
}

// SubscriberStore manages the mailing list.
type SubscriberStore interface {
	// AddSubscriber inserts a new subscriber
	AddSubscriber(ctx context.Context, sub *models.Subscriber) error

	// GetSubscriberByEmail retrieves a subscriber; (nil, nil) when absent
	GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error)

	// SetSubscriberActive flips a subscriber's active flag
	SetSubscriberActive(ctx context.Context, email string, active bool) error

	// ListActiveEmails returns the addresses of all active subscribers
	ListActiveEmails(ctx context.Context) ([]string, error)
}

// StorageManager provides access to all stores.
type StorageManager interface {
	BriefingStore() BriefingStore
	SubscriberStore() SubscriberStore
	Close() error
}
