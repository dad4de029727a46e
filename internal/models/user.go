package models

import "time"

// User represents an account stored in the users table. Accounts belong to
// a tenant company identified by its business registration number (bizNum);
// elevated firm staff have no company scoping.
type User struct {
	UID               string     `db:"uid" json:"uid"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	Role              UserRole   `db:"role" json:"role"`
	BizNum            string     `db:"biz_num" json:"bizNum"`
	CompanyName       string     `db:"company_name" json:"companyName"`
	ManagerName       string     `db:"manager_name" json:"managerName"`
	Department        string     `db:"department" json:"department"`
	Plan              string     `db:"plan" json:"plan"`
	AdvisoryUsedCount int        `db:"advisory_used_count" json:"advisoryUsedCount"`
	PhoneUsedCount    int        `db:"phone_used_count" json:"phoneUsedCount"`
	Active            bool       `db:"active" json:"active"`
	LastLogin         *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	BizNum    string
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
