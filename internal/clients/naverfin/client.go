// Package naverfin provides a client for the Naver mobile finance API
package naverfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

const (
	DefaultBaseURL   = "https://m.stock.naver.com/api"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 10 // requests per second

	// The mobile API rejects requests without a browser user agent.
	userAgent = "Mozilla/5.0"
)

// Client implements the QuoteClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Naver finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("naver finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Naver finance API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// indexResponse is the provider payload for one index
type indexResponse struct {
	StockName                    string        `json:"stockName"`
	ClosePrice                   string        `json:"closePrice"`
	CompareToPreviousClosePrice  string        `json:"compareToPreviousClosePrice"`
	FluctuationsRatio            string        `json:"fluctuationsRatio"`
	CompareToPreviousPrice       directionText `json:"compareToPreviousPrice"`
	LocalTradedAt                string        `json:"localTradedAt"`
}

type directionText struct {
	Text string `json:"text"`
}

// GetIndex retrieves the index snapshot for a market code (e.g. "KOSPI")
func (c *Client) GetIndex(ctx context.Context, market string) (*interfaces.IndexSnapshot, error) {
	path := fmt.Sprintf("/index/%s/basic", market)

	var resp indexResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	name := resp.StockName
	if name == "" {
		name = market
	}

	tradeDate := resp.LocalTradedAt
	if len(tradeDate) > 10 {
		tradeDate = tradeDate[:10]
	}

	return &interfaces.IndexSnapshot{
		Index: models.IndexData{
			Name:      name,
			Close:     resp.ClosePrice,
			Change:    resp.CompareToPreviousClosePrice,
			ChangePct: resp.FluctuationsRatio,
			Direction: resp.CompareToPreviousPrice.Text,
		},
		TradeDate: tradeDate,
	}, nil
}

// stockResponse is the provider payload for one listed security
type stockResponse struct {
	StockName                string        `json:"stockName"`
	ItemCode                 string        `json:"itemCode"`
	ClosePrice               string        `json:"closePrice"`
	FluctuationsRatio        string        `json:"fluctuationsRatio"`
	CompareToPreviousPrice   directionText `json:"compareToPreviousPrice"`
	AccumulatedTradingVolume string        `json:"accumulatedTradingVolume"`
}

// GetTopMarketCap retrieves the top securities by market capitalization
func (c *Client) GetTopMarketCap(ctx context.Context, market string, count int) ([]models.StockData, error) {
	params := url.Values{}
	params.Set("market", market)
	params.Set("page", "1")
	params.Set("pageSize", strconv.Itoa(count))

	var resp struct {
		Stocks []stockResponse `json:"stocks"`
	}
	if err := c.get(ctx, "/stocks/marketValue", params, &resp); err != nil {
		return nil, err
	}

	stocks := make([]models.StockData, 0, len(resp.Stocks))
	for _, s := range resp.Stocks {
		stocks = append(stocks, models.StockData{
			Name:      s.StockName,
			Code:      s.ItemCode,
			Close:     s.ClosePrice,
			ChangePct: s.FluctuationsRatio,
			Direction: s.CompareToPreviousPrice.Text,
			Volume:    s.AccumulatedTradingVolume,
		})
	}

	return stocks, nil
}

// overtimeResponse is the provider payload for after-hours trading
type overtimeResponse struct {
	OverPrice              string        `json:"overPrice"`
	OverFluctuationsRatio  string        `json:"overFluctuationsRatio"`
	CompareToPreviousPrice directionText `json:"compareToPreviousPrice"`
}

// GetAfterHours retrieves the after-hours quote for a security identifier.
// An empty Close in the result means no after-hours trade has printed.
func (c *Client) GetAfterHours(ctx context.Context, code string) (*interfaces.AfterHoursQuote, error) {
	path := fmt.Sprintf("/stock/%s/overtime", code)

	var resp overtimeResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	return &interfaces.AfterHoursQuote{
		Close:     resp.OverPrice,
		ChangePct: resp.OverFluctuationsRatio,
		Direction: resp.CompareToPreviousPrice.Text,
	}, nil
}

// investorResponse is the provider payload for per-group net flows (억원)
type investorResponse struct {
	IndividualValue string `json:"individualValue"`
	ForeignerValue  string `json:"foreignerValue"`
	OrganValue      string `json:"organValue"`
}

// GetInvestorFlows retrieves per-group net trading flows for a market
func (c *Client) GetInvestorFlows(ctx context.Context, market string) (*models.InvestorData, error) {
	path := fmt.Sprintf("/index/%s/investor", market)

	var resp investorResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	return &models.InvestorData{
		Personal:      resp.IndividualValue,
		Foreign:       resp.ForeignerValue,
		Institutional: resp.OrganValue,
	}, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
