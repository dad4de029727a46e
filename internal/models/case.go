package models

import "time"

// CaseKind separates the intake pipelines handled by the firm.
type CaseKind string

const (
	CaseKindDebt       CaseKind = "debt"
	CaseKindBankruptcy CaseKind = "bankruptcy"
	CaseKindLitigation CaseKind = "litigation"
)

// ValidCaseKind reports whether kind is one of the intake pipelines.
func ValidCaseKind(kind CaseKind) bool {
	switch kind {
	case CaseKindDebt, CaseKindBankruptcy, CaseKindLitigation:
		return true
	}
	return false
}

// CaseStatus values shared by all intake pipelines.
type CaseStatus string

const (
	CaseStatusIntake     CaseStatus = "intake"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusOnHold     CaseStatus = "on_hold"
	CaseStatusClosed     CaseStatus = "closed"
)

// Case is a matter owned by a tenant company. Debt and bankruptcy
// intakes identify the matter by debtor; litigation matters carry the
// client, case name/number, and court instead.
type Case struct {
	ID           int64      `db:"id" json:"id"`
	DocID        string     `db:"doc_id" json:"docId"`
	BizNum       string     `db:"biz_num" json:"bizNum"`
	Kind         CaseKind   `db:"kind" json:"kind"`
	ClientName   string     `db:"client_name" json:"clientName"`
	CaseName     string     `db:"case_name" json:"caseName"`
	CaseNumber   string     `db:"case_number" json:"caseNumber"`
	Court        string     `db:"court" json:"court"`
	DebtorName   string     `db:"debtor_name" json:"debtorName"`
	CreditorName string     `db:"creditor_name" json:"creditorName"`
	Amount       int64      `db:"amount" json:"amount"`
	Phone        string     `db:"phone" json:"phone"`
	Address      string     `db:"address" json:"address"`
	Status       CaseStatus `db:"status" json:"status"`
	Description  string     `db:"description" json:"description"`
	CreatedBy    string     `db:"created_by" json:"createdBy"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// CaseFilter constrains case listing queries.
type CaseFilter struct {
	BizNum string
	Kind   CaseKind
	Status CaseStatus
	Search string
	Limit  int
	Offset int
}
