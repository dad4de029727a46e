package dto

import (
	"encoding/json"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
)

// SubmitApprovalRequest payload for creating a pending approval request.
type SubmitApprovalRequest struct {
	RequestType models.ApprovalType `json:"requestType"`
	RequestData json.RawMessage     `json:"requestData"`
}

// RejectApprovalRequest carries the optional rejection reason.
type RejectApprovalRequest struct {
	Reason string `json:"reason"`
}

// BulkApproveRequest lists the request IDs to approve.
type BulkApproveRequest struct {
	IDs []string `json:"ids"`
}

// ApprovalQuery mirrors supported listing filters.
type ApprovalQuery struct {
	Status models.ApprovalStatus
	BizNum string
}

// DepartmentChangePayload is the expected requestData shape for
// department-change requests.
type DepartmentChangePayload struct {
	ToDepartment string `json:"toDepartment"`
}

// RoleChangePayload is the expected requestData shape for role-change
// requests.
type RoleChangePayload struct {
	NewRank models.UserRole `json:"newRank"`
}
