// Package models defines the data structures for Brief
package models

// IndexData is one market index snapshot. Values are kept as the provider's
// formatted strings (e.g. "2,500.10", "+1.2") since they feed a text digest.
type IndexData struct {
	Name      string `json:"name"`
	Close     string `json:"close"`
	Change    string `json:"change"`
	ChangePct string `json:"change_pct"`
	Direction string `json:"direction"`
}

// StockData is one listed security. When an after-hours quote carries a
// non-empty price, its values replace the regular-session ones field-by-field.
type StockData struct {
	Name      string `json:"name"`
	Code      string `json:"code"` // security identifier, keys the after-hours lookup
	Close     string `json:"close"`
	ChangePct string `json:"change_pct"`
	Direction string `json:"direction"`
	Volume    string `json:"volume"`
}

// InvestorData holds net trading flows per investor group for one market
// segment, in signed 억원 (hundred-million KRW) units.
type InvestorData struct {
	Personal      string `json:"personal"`
	Foreign       string `json:"foreign"`
	Institutional string `json:"institutional"`
}

// MarketSummary is the market collector's aggregate result. Date is taken from
// whichever index lookup succeeds first; when both fail it stays empty and the
// index pointers are nil. Partial data is valid, never an error.
type MarketSummary struct {
	Date           string        `json:"date"`
	KOSPI          *IndexData    `json:"kospi,omitempty"`
	KOSDAQ         *IndexData    `json:"kosdaq,omitempty"`
	TopStocks      []StockData   `json:"top_stocks,omitempty"`
	KOSPIInvestor  *InvestorData `json:"kospi_investor,omitempty"`
	KOSDAQInvestor *InvestorData `json:"kosdaq_investor,omitempty"`
}
