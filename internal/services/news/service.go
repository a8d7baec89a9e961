// Package news collects market and per-stock news articles
package news

import (
	"context"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

// Market-wide search queries, merged in order
var marketQueries = []string{"코스피 증시", "주식시장 전망", "경제 금리"}

const (
	articlesPerQuery = 5
	maxMarketNews    = 10
	stockNewsCount   = 3
)

// Service implements NewsCollector
type Service struct {
	client interfaces.NewsClient
	logger *common.Logger
}

// NewService creates a new news collection service
func NewService(client interfaces.NewsClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// FetchNews retrieves articles for one query. Errors degrade to an empty list.
func (s *Service) FetchNews(ctx context.Context, query string, count int) []models.NewsArticle {
	articles, err := s.client.Search(ctx, query, count)
	if err != nil {
		s.logger.Warn().Str("query", query).Err(err).Msg("Failed to fetch news")
		return nil
	}
	return articles
}

// FetchMarketNews merges the fixed market-wide queries in order,
// deduplicated by title, capped at maxMarketNews.
func (s *Service) FetchMarketNews(ctx context.Context) []models.NewsArticle {
	seen := make(map[string]bool)
	var merged []models.NewsArticle

	for _, query := range marketQueries {
		for _, article := range s.FetchNews(ctx, query, articlesPerQuery) {
			if seen[article.Title] {
				continue
			}
			seen[article.Title] = true
			merged = append(merged, article)
			if len(merged) >= maxMarketNews {
				return merged
			}
		}
	}

	return merged
}

// FetchNewsForStocks maps each named stock to its related articles.
// Names with no results are omitted from the map.
func (s *Service) FetchNewsForStocks(ctx context.Context, names []string) map[string][]models.NewsArticle {
	result := make(map[string][]models.NewsArticle)
	for _, name := range names {
		articles := s.FetchNews(ctx, name+" 주가", stockNewsCount)
		if len(articles) == 0 {
			continue
		}
		result[name] = articles
	}
	return result
}

// Ensure Service implements NewsCollector
var _ interfaces.NewsCollector = (*Service)(nil)
