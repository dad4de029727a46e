package models

import "time"

// LeaveStatus values for leave request processing.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveRequest is a tenant-scoped vacation/absence request.
type LeaveRequest struct {
	DocID       string      `db:"doc_id" json:"docId"`
	BizNum      string      `db:"biz_num" json:"bizNum"`
	UserUID     string      `db:"user_uid" json:"userUid"`
	UserName    string      `db:"user_name" json:"userName"`
	Type        string      `db:"type" json:"type"`
	StartDate   time.Time   `db:"start_date" json:"startDate"`
	EndDate     time.Time   `db:"end_date" json:"endDate"`
	Days        float64     `db:"days" json:"days"`
	Reason      string      `db:"reason" json:"reason"`
	Status      LeaveStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	ProcessedAt *time.Time  `db:"processed_at" json:"processedAt,omitempty"`
}
