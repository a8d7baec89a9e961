// Package dart provides a client for the DART corporate filing registry
package dart

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
	DefaultBaseURL   = "https://opendart.fss.or.kr/api"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5 // requests per second

	// statusOK is the registry's success code in the response body.
	statusOK = "000"
	// statusNoData is returned for dates with no filings in a category.
	statusNoData = "013"

	pageCount = 30
)

// Client implements the FilingClient interface
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient creates a new DART client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
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
	return fmt.Sprintf("DART API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// listResponse is the registry's list payload. Status "000" means success;
// "013" means no data for the range.
type listResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	List    []struct {
		CorpName   string `json:"corp_name"`
		ReportName string `json:"report_nm"`
		ReceiptDt  string `json:"rcept_dt"`
		ReceiptNo  string `json:"rcept_no"`
		FilerName  string `json:"flr_nm"`
	} `json:"list"`
}

// ListFilings retrieves filings of one category for a single day. Both ends
// of the registry's date range are set to the target date.
func (c *Client) ListFilings(ctx context.Context, category string, date time.Time) ([]models.Disclosure, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	dateStr := date.Format("20060102")

	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)
	params.Set("bgn_de", dateStr)
	params.Set("end_de", dateStr)
	params.Set("pblntf_ty", category)
	params.Set("page_count", strconv.Itoa(pageCount))

	reqURL := fmt.Sprintf("%s/list.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("category", category).Str("date", dateStr).Msg("DART list request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/list.json",
		}
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if list.Status == statusNoData {
		return nil, nil
	}
	if list.Status != statusOK {
		return nil, fmt.Errorf("DART list returned status %s: %s", list.Status, list.Message)
	}

	filings := make([]models.Disclosure, 0, len(list.List))
	for _, row := range list.List {
		filings = append(filings, models.Disclosure{
			CorpName:    row.CorpName,
			ReportName:  row.ReportName,
			ReceiptDate: row.ReceiptDt,
			ReceiptNo:   row.ReceiptNo,
			FilerName:   row.FilerName,
		})
	}

	return filings, nil
}

// Ensure Client implements FilingClient
var _ interfaces.FilingClient = (*Client)(nil)
