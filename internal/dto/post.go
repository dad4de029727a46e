package dto

import (
	"encoding/json"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
)

// CreatePostRequest payload for creating a consultation board record.
type CreatePostRequest struct {
	Category models.PostCategory `json:"category"`
	Title    string              `json:"title"`
	Content  string              `json:"content"`
	FileURLs json.RawMessage     `json:"fileUrls,omitempty"`
	Status   models.PostStatus   `json:"status,omitempty"`

	// Admin-only attribution overrides for phone_log entries recorded on
	// behalf of a client company.
	TargetBizNum    string `json:"targetBizNum,omitempty"`
	TargetAuthorUID string `json:"targetAuthorUid,omitempty"`
}

// AnswerPostRequest payload for staff answering a consultation.
type AnswerPostRequest struct {
	Answer      string `json:"answer"`
	QuotedPrice *int64 `json:"quotedPrice,omitempty"`
}

// PostQuery mirrors supported board listing filters.
type PostQuery struct {
	Category models.PostCategory
	Status   models.PostStatus
	BizNum   string
	Page     int
	PageSize int
}
