package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
)

const postColumns = `doc_id, category, title, content, file_urls, author_uid, biz_num, company_name,
       status, answered_by, answered_at, reject_reason, quoted_price, created_at, updated_at`

// PostRepository persists consultation board records.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository constructs the repository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new board record.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.DocID == "" {
		post.DocID = uuid.NewString()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = models.PostStatusPending
	}
	const query = `INSERT INTO posts
	(doc_id, category, title, content, file_urls, author_uid, biz_num, company_name, status, answered_by, answered_at, reject_reason, quoted_price, created_at, updated_at)
	VALUES (:doc_id, :category, :title, :content, :file_urls, :author_uid, :biz_num, :company_name, :status, :answered_by, :answered_at, :reject_reason, :quoted_price, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// GetByDocID fetches a board record by identifier.
func (r *PostRepository) GetByDocID(ctx context.Context, docID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE doc_id = $1`
	var post models.Post
	if err := r.db.GetContext(ctx, &post, query, docID); err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns board records matching the filter, newest first. When
// hideAdminCategories is set, internal board entries are excluded.
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter, hideAdminCategories bool) ([]models.Post, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT ` + postColumns + ` FROM posts`)

	conditions := make([]string, 0, 5)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.BizNum != "" {
		args = append(args, filter.BizNum)
		conditions = append(conditions, fmt.Sprintf("biz_num = $%d", len(args)))
	}
	if filter.AuthorUID != "" {
		args = append(args, filter.AuthorUID)
		conditions = append(conditions, fmt.Sprintf("author_uid = $%d", len(args)))
	}
	if hideAdminCategories {
		conditions = append(conditions, "category NOT IN ('phone_log', 'member_req_internal', 'member_req_admin')")
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Answer stamps a staff reply onto a record and marks it done.
func (r *PostRepository) Answer(ctx context.Context, docID, answeredBy string, answeredAt time.Time, quotedPrice *int64) error {
	const query = `UPDATE posts
	SET status = $2, answered_by = $3, answered_at = $4, quoted_price = COALESCE($5, quoted_price), updated_at = $4
	WHERE doc_id = $1`
	if _, err := r.db.ExecContext(ctx, query, docID, models.PostStatusDone, answeredBy, answeredAt, quotedPrice); err != nil {
		return fmt.Errorf("answer post: %w", err)
	}
	return nil
}

// Delete physically removes a board record.
func (r *PostRepository) Delete(ctx context.Context, docID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE doc_id = $1`, docID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
