// Package disclosure collects regulatory filings
package disclosure

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

// Filing categories queried per run, in presentation order:
// periodic reports, major events, issuance and ownership filings.
var categories = []string{"A", "B", "C", "D"}

// Filings retained after dedup and merge
const maxFilings = 20

// Service implements DisclosureCollector
type Service struct {
	filings interfaces.FilingClient
	logger  *common.Logger
}

// NewService creates a new disclosure collection service
func NewService(filings interfaces.FilingClient, logger *common.Logger) *Service {
	return &Service{
		filings: filings,
		logger:  logger,
	}
}

// FetchDisclosures retrieves filings for the target date across all
// categories. Categories are fetched concurrently and merged in category
// order, deduplicated by receipt number, capped at maxFilings. A zero
// target defaults to yesterday. Category failures contribute nothing.
func (s *Service) FetchDisclosures(ctx context.Context, target time.Time) []models.Disclosure {
	if target.IsZero() {
		target = time.Now().AddDate(0, 0, -1)
	}

	results := make([][]models.Disclosure, len(categories))

	var wg sync.WaitGroup
	for i, category := range categories {
		wg.Add(1)
		go func(i int, category string) {
			defer wg.Done()
			filings, err := s.filings.ListFilings(ctx, category, target)
			if err != nil {
				s.logger.Warn().Str("category", category).Err(err).Msg("Failed to fetch filings")
				return
			}
			results[i] = filings
		}(i, category)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var merged []models.Disclosure
	for _, filings := range results {
		for _, filing := range filings {
			if seen[filing.ReceiptNo] {
				continue
			}
			seen[filing.ReceiptNo] = true
			merged = append(merged, filing)
			if len(merged) >= maxFilings {
				return merged
			}
		}
	}

	s.logger.Debug().Int("count", len(merged)).Str("date", target.Format("2006-01-02")).Msg("Collected filings")
	return merged
}

// Ensure Service implements DisclosureCollector
var _ interfaces.DisclosureCollector = (*Service)(nil)
