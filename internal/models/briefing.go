package models

import "time"

// CollectedData joins the three collectors' outputs for one pipeline run.
// StockNews maps a stock name to related articles and is only populated for
// stocks whose move crossed the volatility threshold.
type CollectedData struct {
	Market      *MarketSummary           `json:"market"`
	Disclosures []Disclosure             `json:"disclosures"`
	News        []NewsArticle            `json:"news"`
	StockNews   map[string][]NewsArticle `json:"stock_news,omitempty"`
}

// BriefingResult is the summarization stage's output.
type BriefingResult struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Briefing is one persisted daily briefing. Date (YYYY-MM-DD) is the unique
// key; a same-day re-run updates the row in place.
type Briefing struct {
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	ContentHTML string    `json:"content_html"`
	CreatedAt   time.Time `json:"created_at"`
}

// Subscriber is one mailing-list entry. Email is unique; only active
// subscribers receive briefings.
type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// SendTally is the notification fan-out's per-run outcome count.
type SendTally struct {
	Success int `json:"success"`
	Fail    int `json:"fail"`
}
