package models

import (
	"encoding/json"
	"time"
)

// ApprovalType tags the kind of change an approval request asks for. The
// set is open: unknown tags are stored and approved as no-ops so newer
// clients can introduce categories without a server release.
type ApprovalType string

const (
	ApprovalTypeDepartmentChange ApprovalType = "department-change"
	ApprovalTypeRoleChange       ApprovalType = "role-change"
	ApprovalTypeAdvisoryRequest  ApprovalType = "advisory-request"
	ApprovalTypePhoneConsult     ApprovalType = "phone-consult-request"
	ApprovalTypeExtraUsage       ApprovalType = "extra-usage-inquiry"
	ApprovalTypePlanChange       ApprovalType = "plan-change-request"
)

// ApprovalStatus captures workflow states for approval requests.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "Pending"
	ApprovalStatusApproved ApprovalStatus = "Approved"
	ApprovalStatusRejected ApprovalStatus = "Rejected"
)

// DefaultRejectionReason is stored when a rejecting approver gives none.
const DefaultRejectionReason = "no reason provided"

// ApprovalRequest stores a pending change awaiting owner or firm review.
// Status only ever moves Pending -> Approved or Pending -> Rejected.
type ApprovalRequest struct {
	ID              string          `db:"id" json:"id"`
	UID             string          `db:"uid" json:"uid"`
	BizNum          string          `db:"biz_num" json:"bizNum"`
	RequestType     ApprovalType    `db:"request_type" json:"requestType"`
	RequestData     json.RawMessage `db:"request_data" json:"requestData"`
	Status          ApprovalStatus  `db:"status" json:"status"`
	ApprovedBy      *string         `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `db:"approved_at" json:"approvedAt,omitempty"`
	RejectionReason *string         `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
}

// ApprovalDetail joins requester and approver display fields onto a request.
type ApprovalDetail struct {
	ApprovalRequest
	RequesterName       string  `db:"requester_name" json:"requesterName"`
	RequesterEmail      string  `db:"requester_email" json:"requesterEmail"`
	RequesterDepartment string  `db:"requester_department" json:"requesterDepartment"`
	ApproverName        *string `db:"approver_name" json:"approverName,omitempty"`
}

// ApprovalFilter constrains listing queries.
type ApprovalFilter struct {
	Status       ApprovalStatus
	BizNum       string
	RequesterUID string
	Limit        int
	Offset       int
}

// BulkApprovalError describes a single failed item of a bulk operation.
type BulkApprovalError struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkApprovalResult summarises a bulk approve run.
type BulkApprovalResult struct {
	SuccessCount int                 `json:"successCount"`
	FailCount    int                 `json:"failCount"`
	Errors       []BulkApprovalError `json:"errors"`
}
