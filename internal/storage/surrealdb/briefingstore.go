package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

// BriefingStore implements interfaces.BriefingStore using SurrealDB.
// Records are keyed by calendar date so a same-day re-run replaces the
// row atomically.
type BriefingStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewBriefingStore creates a new BriefingStore.
func NewBriefingStore(db *surrealdb.DB, logger *common.Logger) *BriefingStore {
	return &BriefingStore{db: db, logger: logger}
}

func (s *BriefingStore) GetBriefing(ctx context.Context, date string) (*models.Briefing, error) {
	briefing, err := surrealdb.Select[models.Briefing](ctx, s.db, surrealmodels.NewRecordID("briefing", date))
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get briefing: %w", err)
	}
	if briefing == nil || briefing.Date == "" {
		return nil, nil
	}
	return briefing, nil
}

func (s *BriefingStore) SaveBriefing(ctx context.Context, briefing *models.Briefing) error {
	sql := "UPSERT $rid CONTENT $briefing"
	vars := map[string]any{
		"rid":      surrealmodels.NewRecordID("briefing", briefing.Date),
		"briefing": briefing,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save briefing: %w", err)
	}

	s.logger.Debug().Str("date", briefing.Date).Msg("Briefing saved")
	return nil
}

func (s *BriefingStore) ListBriefings(ctx context.Context, offset, limit int) ([]models.Briefing, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	sql := "SELECT * FROM briefing ORDER BY date DESC LIMIT $limit START $offset"
	vars := map[string]any{
		"limit":  limit,
		"offset": offset,
	}

	results, err := surrealdb.Query[[]models.Briefing](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list briefings: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

func (s *BriefingStore) CountBriefings(ctx context.Context) (int, error) {
	type countResult struct {
		Cnt int `json:"cnt"`
	}

	sql := "SELECT count() AS cnt FROM briefing GROUP ALL"
	results, err := surrealdb.Query[[]countResult](ctx, s.db, sql, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count briefings: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Cnt, nil
}

// Compile-time check
var _ interfaces.BriefingStore = (*BriefingStore)(nil)
