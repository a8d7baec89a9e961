package naverfin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL))
}

func TestGetIndex(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index/KOSPI/basic" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "Mozilla/5.0" {
			t.Errorf("expected browser user agent, got %q", ua)
		}
		w.Write([]byte(`{
			"stockName": "코스피",
			"closePrice": "2,650.12",
			"compareToPreviousClosePrice": "22.34",
			"fluctuationsRatio": "0.85",
			"compareToPreviousPrice": {"text": "상승"},
			"localTradedAt": "2026-08-28T15:30:00+09:00"
		}`))
	})

	snap, err := client.GetIndex(context.Background(), "KOSPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Index.Name != "코스피" || snap.Index.Close != "2,650.12" || snap.Index.Direction != "상승" {
		t.Errorf("unexpected index: %+v", snap.Index)
	}
	if snap.TradeDate != "2026-08-28" {
		t.Errorf("trade date should be the calendar day, got %q", snap.TradeDate)
	}
}

func TestGetIndexNameFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"closePrice": "870.44"}`))
	})

	snap, err := client.GetIndex(context.Background(), "KOSDAQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Index.Name != "KOSDAQ" {
		t.Errorf("missing stockName should fall back to the market code, got %q", snap.Index.Name)
	}
}

func TestGetTopMarketCap(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stocks/marketValue" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("market") != "KOSPI" || q.Get("pageSize") != "10" || q.Get("page") != "1" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"stocks": [
			{"stockName": "삼성전자", "itemCode": "005930", "closePrice": "71,000",
			 "fluctuationsRatio": "1.50", "compareToPreviousPrice": {"text": "상승"},
			 "accumulatedTradingVolume": "12,345,678"},
			{"stockName": "SK하이닉스", "itemCode": "000660", "closePrice": "180,500",
			 "fluctuationsRatio": "-2.40", "compareToPreviousPrice": {"text": "하락"},
			 "accumulatedTradingVolume": "3,456,789"}
		]}`))
	})

	stocks, err := client.GetTopMarketCap(context.Background(), "KOSPI", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stocks) != 2 {
		t.Fatalf("expected 2 stocks, got %d", len(stocks))
	}
	if stocks[0].Code != "005930" || stocks[1].ChangePct != "-2.40" {
		t.Errorf("unexpected stocks: %+v", stocks)
	}
}

func TestGetAfterHours(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/005930/overtime" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"overPrice": "71,300",
			"overFluctuationsRatio": "1.92",
			"compareToPreviousPrice": {"text": "상승"}
		}`))
	})

	quote, err := client.GetAfterHours(context.Background(), "005930")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Close != "71,300" || quote.ChangePct != "1.92" || quote.Direction != "상승" {
		t.Errorf("unexpected quote: %+v", quote)
	}
}

func TestGetInvestorFlows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index/KOSPI/investor" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"individualValue": "-1,234", "foreignerValue": "2,000", "organValue": "-766"}`))
	})

	flows, err := client.GetInvestorFlows(context.Background(), "KOSPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flows.Personal != "-1,234" || flows.Foreign != "2,000" || flows.Institutional != "-766" {
		t.Errorf("unexpected flows: %+v", flows)
	}
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := client.GetIndex(context.Background(), "KOSPI")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.Endpoint != "/index/KOSPI/basic" {
		t.Errorf("unexpected endpoint: %s", apiErr.Endpoint)
	}
}
