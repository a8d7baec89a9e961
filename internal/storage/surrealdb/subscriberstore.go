package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

// SubscriberStore implements interfaces.SubscriberStore using SurrealDB.
// Records are keyed by a generated subscriber ID; email lookups go
// through a WHERE query.
type SubscriberStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewSubscriberStore creates a new SubscriberStore.
func NewSubscriberStore(db *surrealdb.DB, logger *common.Logger) *SubscriberStore {
	return &SubscriberStore{db: db, logger: logger}
}

func (s *SubscriberStore) AddSubscriber(ctx context.Context, sub *models.Subscriber) error {
	if sub.ID == "" {
		sub.ID = fmt.Sprintf("sub_%s", uuid.New().String()[:8])
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}

	sql := "UPSERT $rid CONTENT $sub"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("subscriber", sub.ID),
		"sub": sub,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to add subscriber: %w", err)
	}

	s.logger.Debug().Str("email", sub.Email).Msg("Subscriber added")
	return nil
}

func (s *SubscriberStore) GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	sql := "SELECT * FROM subscriber WHERE email = $email LIMIT 1"
	vars := map[string]any{
		"email": email,
	}

	results, err := surrealdb.Query[[]models.Subscriber](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

func (s *SubscriberStore) SetSubscriberActive(ctx context.Context, email string, active bool) error {
	sql := "UPDATE subscriber SET active = $active WHERE email = $email"
	vars := map[string]any{
		"email":  email,
		"active": active,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to update subscriber: %w", err)
	}

	s.logger.Debug().Str("email", email).Bool("active", active).Msg("Subscriber updated")
	return nil
}

func (s *SubscriberStore) ListActiveEmails(ctx context.Context) ([]string, error) {
	type emailRow struct {
		Email string `json:"email"`
	}

	sql := "SELECT email FROM subscriber WHERE active = true ORDER BY created_at ASC"
	results, err := surrealdb.Query[[]emailRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscribers: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	rows := (*results)[0].Result
	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		emails = append(emails, row.Email)
	}
	return emails, nil
}

// Compile-time check
var _ interfaces.SubscriberStore = (*SubscriberStore)(nil)
