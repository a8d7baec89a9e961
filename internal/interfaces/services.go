// Package interfaces defines service contracts for Brief
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/brief/internal/models"
)

// MarketCollector gathers the daily market summary. Every sub-fetch is
// isolated: a failed lookup leaves its field absent and never fails the call.
type MarketCollector interface {
	// FetchMarketSummary retrieves indexes, top stocks and investor flows
	FetchMarketSummary(ctx context.Context) *models.MarketSummary

	// Movers returns the names of top stocks whose absolute percent change
	// meets or exceeds the volatility threshold
	Movers(summary *models.MarketSummary) []string
}

// DisclosureCollector gathers regulatory filings for a target date.
type DisclosureCollector interface {
	// FetchDisclosures retrieves deduplicated filings for the date.
	// A zero date defaults to yesterday. Category failures degrade to
	// empty contributions, never an error.
	FetchDisclosures(ctx context.Context, target time.Time) []models.Disclosure
}

// NewsCollector gathers news articles.
type NewsCollector interface {
	// FetchNews retrieves articles for one query; errors yield an empty list
	FetchNews(ctx context.Context, query string, count int) []models.NewsArticle

	// FetchMarketNews merges the fixed market-wide queries, deduplicated by title
	FetchMarketNews(ctx context.Context) []models.NewsArticle

	// FetchNewsForStocks maps each named stock to its related articles;
	// names with no results are omitted
	FetchNewsForStocks(ctx context.Context, names []string) map[string][]models.NewsArticle
}

// SummaryService turns collected data into narrative briefing HTML.
type SummaryService interface {
	// GenerateBriefing builds the digest, calls the text backend and returns
	// the HTML body. Backend failures are returned, not degraded.
	GenerateBriefing(ctx context.Context, data *models.CollectedData) (string, error)
}

// MailerService fans a briefing out to subscriber addresses.
type MailerService interface {
	// SendBriefing dispatches to every address concurrently and returns the
	// per-recipient tally. It never fails as a whole.
	SendBriefing(ctx context.Context, addresses []string, subject, html string) models.SendTally
}

// BriefingService is the daily pipeline orchestrator.
type BriefingService interface {
	// Run executes collect, summarize, persist, notify and returns the
	// briefing HTML. Summarization and persistence errors abort the run.
	Run(ctx context.Context) (string, error)
}
