package dto

// CreateBillingLogRequest payload for recording a revenue ledger entry.
type CreateBillingLogRequest struct {
	BizNum      string `json:"bizNum" validate:"required"`
	CompanyName string `json:"companyName"`
	Item        string `json:"item" validate:"required"`
	Amount      int64  `json:"amount" validate:"required"`
	Method      string `json:"method"`
	Memo        string `json:"memo"`
	RecordedAt  string `json:"recordedAt"`
}

// BillingQuery mirrors supported ledger listing filters.
type BillingQuery struct {
	BizNum string
	From   string
	To     string
	Limit  int
	Offset int
}
