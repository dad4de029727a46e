package models

import (
	"encoding/json"
	"time"
)

// PostCategory classifies consultation board records.
type PostCategory string

const (
	CategoryAdvisory       PostCategory = "advisory"
	CategoryPhoneRequest   PostCategory = "phone_request"
	CategoryPhoneLog       PostCategory = "phone_log"
	CategoryPaymentRequest PostCategory = "payment_request"
	CategoryPlanChange     PostCategory = "plan_change"
	CategoryPaymentMethod  PostCategory = "payment_method"
	CategoryMemberReq      PostCategory = "member_req"
	CategoryMemberInternal PostCategory = "member_req_internal"
	CategoryMemberAdmin    PostCategory = "member_req_admin"
	CategoryExtraUsage     PostCategory = "extra_usage_quote"
)

// PostStatus values for the consultation lifecycle.
type PostStatus string

const (
	PostStatusPending   PostStatus = "pending"
	PostStatusDone      PostStatus = "done"
	PostStatusCompleted PostStatus = "completed"
	PostStatusRejected  PostStatus = "rejected"
)

// Post is a generic case/request record on the consultation board. Records
// are attributed to a company card via authorUid/bizNum; phone_log entries
// are created already resolved.
type Post struct {
	DocID       string          `db:"doc_id" json:"docId"`
	Category    PostCategory    `db:"category" json:"category"`
	Title       string          `db:"title" json:"title"`
	Content     string          `db:"content" json:"content"`
	FileURLs    json.RawMessage `db:"file_urls" json:"fileUrls,omitempty"`
	AuthorUID   string          `db:"author_uid" json:"authorUid"`
	BizNum      string          `db:"biz_num" json:"bizNum"`
	CompanyName string          `db:"company_name" json:"companyName"`
	Status      PostStatus      `db:"status" json:"status"`
	AnsweredBy  *string         `db:"answered_by" json:"answeredBy,omitempty"`
	AnsweredAt  *time.Time      `db:"answered_at" json:"answeredAt,omitempty"`
	RejectReason *string        `db:"reject_reason" json:"rejectReason,omitempty"`
	QuotedPrice *int64          `db:"quoted_price" json:"quotedPrice,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// PostFilter constrains board listing queries.
type PostFilter struct {
	Category  PostCategory
	Status    PostStatus
	BizNum    string
	AuthorUID string
	Limit     int
	Offset    int
}

// adminOnlyCategories are internal board entries hidden from client tenants.
var adminOnlyCategories = map[PostCategory]struct{}{
	CategoryPhoneLog:       {},
	CategoryMemberInternal: {},
	CategoryMemberAdmin:    {},
}

// IsAdminOnlyCategory reports whether the category is hidden from
// non-elevated callers.
func IsAdminOnlyCategory(category PostCategory) bool {
	_, ok := adminOnlyCategories[category]
	return ok
}
