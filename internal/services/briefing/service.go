// Package briefing orchestrates the daily pipeline:
// collect, summarize, persist, notify.
package briefing

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

// Service implements BriefingService
type Service struct {
	market      interfaces.MarketCollector
	disclosures interfaces.DisclosureCollector
	news        interfaces.NewsCollector
	summary     interfaces.SummaryService
	mailer      interfaces.MailerService
	storage     interfaces.StorageManager
	logger      *common.Logger

	// now is replaceable for tests
	now func() time.Time
}

// NewService creates the pipeline orchestrator
func NewService(
	market interfaces.MarketCollector,
	disclosures interfaces.DisclosureCollector,
	news interfaces.NewsCollector,
	summary interfaces.SummaryService,
	mailer interfaces.MailerService,
	storage interfaces.StorageManager,
	logger *common.Logger,
) *Service {
	return &Service{
		market:      market,
		disclosures: disclosures,
		news:        news,
		summary:     summary,
		mailer:      mailer,
		storage:     storage,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes the full pipeline and returns the briefing HTML.
// Collection degrades per source; summarization and persistence
// failures abort the run.
func (s *Service) Run(ctx context.Context) (string, error) {
	runDate := s.now()
	s.logger.Info().Str("date", runDate.Format("2006-01-02")).Msg("Briefing pipeline started")

	data := s.collect(ctx)

	title := fmt.Sprintf("%s 주식 아침 브리핑", runDate.Format("2006년 01월 02일"))
	html, err := s.summary.GenerateBriefing(ctx, data)
	if err != nil {
		return "", fmt.Errorf("summarize stage failed: %w", err)
	}
	s.logger.Info().Str("title", title).Msg("Briefing summarized")

	if err := s.persist(ctx, runDate, title, html); err != nil {
		return "", fmt.Errorf("persist stage failed: %w", err)
	}

	s.notify(ctx, title, html)

	return html, nil
}

// collect runs the three collectors concurrently, then gathers mover news.
func (s *Service) collect(ctx context.Context) *models.CollectedData {
	data := &models.CollectedData{}

	type marketResult struct{ summary *models.MarketSummary }
	marketCh := make(chan marketResult, 1)
	disclosureCh := make(chan []models.Disclosure, 1)
	newsCh := make(chan []models.NewsArticle, 1)

	go func() { marketCh <- marketResult{s.market.FetchMarketSummary(ctx)} }()
	go func() { disclosureCh <- s.disclosures.FetchDisclosures(ctx, time.Time{}) }()
	go func() { newsCh <- s.news.FetchMarketNews(ctx) }()

	data.Market = (<-marketCh).summary
	data.Disclosures = <-disclosureCh
	data.News = <-newsCh

	s.logger.Info().
		Int("disclosures", len(data.Disclosures)).
		Int("news", len(data.News)).
		Msg("Collection complete")

	movers := s.market.Movers(data.Market)
	if len(movers) > 0 {
		data.StockNews = s.news.FetchNewsForStocks(ctx, movers)
		s.logger.Info().Int("stocks", len(data.StockNews)).Msg("Mover news collected")
	}

	return data
}

// persist upserts the briefing keyed by run date. A same-day rerun keeps
// the original creation time and replaces title and content.
func (s *Service) persist(ctx context.Context, runDate time.Time, title, html string) error {
	date := runDate.Format("2006-01-02")

	briefing := &models.Briefing{
		Date:        date,
		Title:       title,
		ContentHTML: html,
		CreatedAt:   runDate,
	}

	existing, err := s.storage.BriefingStore().GetBriefing(ctx, date)
	if err != nil {
		return err
	}
	if existing != nil {
		briefing.CreatedAt = existing.CreatedAt
	}

	return s.storage.BriefingStore().SaveBriefing(ctx, briefing)
}

// notify renders the email and fans it out. Delivery problems are logged,
// never returned: the briefing is already persisted.
func (s *Service) notify(ctx context.Context, title, html string) {
	emails, err := s.storage.SubscriberStore().ListActiveEmails(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list subscribers, skipping delivery")
		return
	}
	if len(emails) == 0 {
		s.logger.Info().Msg("No active subscribers, skipping delivery")
		return
	}

	emailHTML := renderEmail(title, html)
	tally := s.mailer.SendBriefing(ctx, emails, title, emailHTML)
	s.logger.Info().Int("success", tally.Success).Int("fail", tally.Fail).Msg("Delivery complete")
}

// Ensure Service implements BriefingService
var _ interfaces.BriefingService = (*Service)(nil)
