// Package market collects index, constituent and investor data
package market

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

const (
	// Constituents fetched from the KOSPI market-cap ranking
	topStockCount = 10

	// Absolute change percentage at or above which a stock counts as a mover
	moverThreshold = 2.0
)

// Service implements MarketCollector
type Service struct {
	quotes interfaces.QuoteClient
	logger *common.Logger
}

// NewService creates a new market collection service
func NewService(quotes interfaces.QuoteClient, logger *common.Logger) *Service {
	return &Service{
		quotes: quotes,
		logger: logger,
	}
}

// FetchMarketSummary assembles the day's market snapshot. Every sub-fetch is
// isolated: a failed index, ranking or flow lookup logs a warning and leaves
// its field empty rather than failing the summary.
func (s *Service) FetchMarketSummary(ctx context.Context) *models.MarketSummary {
	summary := &models.MarketSummary{}

	for _, market := range []string{"KOSPI", "KOSDAQ"} {
		snapshot, err := s.quotes.GetIndex(ctx, market)
		if err != nil {
			s.logger.Warn().Str("market", market).Err(err).Msg("Failed to fetch index")
			continue
		}
		index := snapshot.Index
		switch market {
		case "KOSPI":
			summary.KOSPI = &index
		case "KOSDAQ":
			summary.KOSDAQ = &index
		}
		if summary.Date == "" {
			summary.Date = snapshot.TradeDate
		}
	}

	stocks, err := s.quotes.GetTopMarketCap(ctx, "KOSPI", topStockCount)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to fetch market-cap ranking")
	} else {
		summary.TopStocks = s.applyAfterHours(ctx, stocks)
	}

	summary.KOSPIInvestor = s.fetchInvestorFlows(ctx, "KOSPI")
	summary.KOSDAQInvestor = s.fetchInvestorFlows(ctx, "KOSDAQ")

	return summary
}

// applyAfterHours overrides close, change and direction with the after-hours
// session when the after-hours price is present; a quote without a price leaves
// the regular-session record untouched. Lookups run concurrently; ranking
// order is kept.
func (s *Service) applyAfterHours(ctx context.Context, stocks []models.StockData) []models.StockData {
	result := make([]models.StockData, len(stocks))
	copy(result, stocks)

	var wg sync.WaitGroup
	for i := range result {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			quote, err := s.quotes.GetAfterHours(ctx, result[i].Code)
			if err != nil {
				s.logger.Warn().Str("code", result[i].Code).Err(err).Msg("Failed to fetch after-hours quote")
				return
			}
			if quote == nil || quote.Close == "" {
				return
			}
			result[i].Close = quote.Close
			if quote.ChangePct != "" {
				result[i].ChangePct = quote.ChangePct
			}
			if quote.Direction != "" {
				result[i].Direction = quote.Direction
			}
		}(i)
	}
	wg.Wait()

	return result
}

func (s *Service) fetchInvestorFlows(ctx context.Context, market string) *models.InvestorData {
	flows, err := s.quotes.GetInvestorFlows(ctx, market)
	if err != nil {
		s.logger.Warn().Str("market", market).Err(err).Msg("Failed to fetch investor flows")
		return nil
	}
	return flows
}

// Movers returns the names of top stocks whose absolute change percentage
// meets the mover threshold. Unparseable percentages are skipped.
func (s *Service) Movers(summary *models.MarketSummary) []string {
	if summary == nil {
		return nil
	}

	var movers []string
	for _, stock := range summary.TopStocks {
		pct, err := parsePercent(stock.ChangePct)
		if err != nil {
			continue
		}
		if math.Abs(pct) >= moverThreshold {
			movers = append(movers, stock.Name)
		}
	}
	return movers
}

// parsePercent handles formatted values like "1,234.56" and "+2.10".
func parsePercent(value string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	cleaned = strings.TrimPrefix(cleaned, "+")
	return strconv.ParseFloat(cleaned, 64)
}

// Ensure Service implements MarketCollector
var _ interfaces.MarketCollector = (*Service)(nil)
