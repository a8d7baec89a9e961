package models

// Disclosure is one regulatory filing row from the registry. ReceiptNo is
// globally unique within a collected batch and keys deduplication.
type Disclosure struct {
	CorpName    string `json:"corp_name"`
	ReportName  string `json:"report_name"`
	ReceiptDate string `json:"receipt_date"` // YYYYMMDD as the registry reports it
	ReceiptNo   string `json:"receipt_no"`
	FilerName   string `json:"filer_name"`
}
