package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin           = "LOGIN"
	AuditActionLogout          = "LOGOUT"
	AuditActionPasswordChange  = "PASSWORD_CHANGE"
	AuditActionUserUpdate      = "USER_UPDATE"
	AuditActionApprovalSubmit  = "APPROVAL_SUBMIT"
	AuditActionApprovalResolve = "APPROVAL_RESOLVE"
	AuditActionApprovalDelete  = "APPROVAL_DELETE"
	AuditActionPostCreate      = "POST_CREATE"
	AuditActionPostDelete      = "POST_DELETE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserUID    *string   `db:"user_uid" json:"user_uid,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
