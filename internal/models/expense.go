package models

import "time"

// Expense is a tenant-scoped company expense ledger entry.
type Expense struct {
	DocID        string    `db:"doc_id" json:"docId"`
	BizNum       string    `db:"biz_num" json:"bizNum"`
	Category     string    `db:"category" json:"category"`
	Date         time.Time `db:"date" json:"date"`
	Description  string    `db:"description" json:"description"`
	Amount       int64     `db:"amount" json:"amount"`
	RegisteredBy string    `db:"registered_by" json:"registeredBy"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ExpenseFilter constrains expense listing queries.
type ExpenseFilter struct {
	BizNum   string
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
