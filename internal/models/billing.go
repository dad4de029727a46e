package models

import "time"

// BillingLog is a revenue ledger entry recorded by firm staff when a
// payment or retainer is registered against a tenant company.
type BillingLog struct {
	DocID       string    `db:"doc_id" json:"docId"`
	BizNum      string    `db:"biz_num" json:"bizNum"`
	CompanyName string    `db:"company_name" json:"companyName"`
	Item        string    `db:"item" json:"item"`
	Amount      int64     `db:"amount" json:"amount"`
	Method      string    `db:"method" json:"method"`
	Memo        string    `db:"memo" json:"memo"`
	RecordedBy  string    `db:"recorded_by" json:"recordedBy"`
	RecordedAt  time.Time `db:"recorded_at" json:"recordedAt"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// BillingFilter constrains revenue ledger queries.
type BillingFilter struct {
	BizNum     string
	RecordedBy string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// BillingMonthlyStat aggregates ledger revenue per calendar month.
type BillingMonthlyStat struct {
	Month   string `db:"month" json:"month"`
	Total   int64  `db:"total" json:"total"`
	Entries int    `db:"entries" json:"entries"`
}

// BillingStats is the cached stats payload served to admin dashboards.
type BillingStats struct {
	Months      []BillingMonthlyStat `json:"months"`
	GrandTotal  int64                `json:"grandTotal"`
	GeneratedAt time.Time            `json:"generatedAt"`
}
