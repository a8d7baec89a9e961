// Package interfaces defines service contracts for Brief
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/brief/internal/models"
)

// IndexSnapshot pairs an index with its trade date as reported by the provider.
type IndexSnapshot struct {
	Index     models.IndexData
	TradeDate string // YYYY-MM-DD
}

// AfterHoursQuote is the after-hours override payload for one security.
// An empty Close means no after-hours trade has printed yet.
type AfterHoursQuote struct {
	Close     string
	ChangePct string
	Direction string
}

// QuoteClient provides access to the quote provider
type QuoteClient interface {
	// GetIndex retrieves the index snapshot for a market code (e.g. "KOSPI")
	GetIndex(ctx context.Context, market string) (*IndexSnapshot, error)

	// GetTopMarketCap retrieves the top securities by market capitalization
	GetTopMarketCap(ctx context.Context, market string, count int) ([]models.StockData, error)

	// GetAfterHours retrieves the after-hours quote for a security identifier
	GetAfterHours(ctx context.Context, code string) (*AfterHoursQuote, error)

	// GetInvestorFlows retrieves per-group net trading flows for a market
	GetInvestorFlows(ctx context.Context, market string) (*models.InvestorData, error)
}

// FilingClient provides access to the filing registry
type FilingClient interface {
	// ListFilings retrieves filings of one category for a single day
	ListFilings(ctx context.Context, category string, date time.Time) ([]models.Disclosure, error)
}

// NewsClient provides access to the news search provider
type NewsClient interface {
	// Search retrieves up to count sanitized articles for a query
	Search(ctx context.Context, query string, count int) ([]models.NewsArticle, error)
}

// TextGenerator is the generative-text capability. Implementations are
// interchangeable; the summary service selects one at construction time.
type TextGenerator interface {
	// Generate produces text from a system instruction and a user prompt
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name identifies the backend (for logs)
	Name() string
}

// MailTransport submits one message to one recipient.
type MailTransport interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
