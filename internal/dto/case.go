package dto

import "github.com/noah-isme/lawfirm-bo-api/internal/models"

// CreateCaseRequest payload for registering a matter. Which fields are
// required depends on the kind: debt and bankruptcy intakes need
// debtorName, litigation needs clientName, caseName, and caseNumber.
type CreateCaseRequest struct {
	Kind         models.CaseKind `json:"kind"`
	ClientName   string          `json:"clientName"`
	CaseName     string          `json:"caseName"`
	CaseNumber   string          `json:"caseNumber"`
	Court        string          `json:"court"`
	DebtorName   string          `json:"debtorName"`
	CreditorName string          `json:"creditorName"`
	Amount       int64           `json:"amount"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Description  string          `json:"description"`
}

// UpdateCaseRequest carries mutable case fields.
type UpdateCaseRequest struct {
	Status      models.CaseStatus `json:"status,omitempty"`
	ClientName  string            `json:"clientName,omitempty"`
	CaseName    string            `json:"caseName,omitempty"`
	CaseNumber  string            `json:"caseNumber,omitempty"`
	Court       string            `json:"court,omitempty"`
	Amount      *int64            `json:"amount,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Address     string            `json:"address,omitempty"`
	Description string            `json:"description,omitempty"`
}

// CaseQuery mirrors supported case listing filters.
type CaseQuery struct {
	Kind   models.CaseKind
	Status models.CaseStatus
	Search string
	Page   int
}
