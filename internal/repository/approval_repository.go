package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
)

const approvalColumns = `ar.id, ar.uid, ar.biz_num, ar.request_type, ar.request_data, ar.status,
       ar.approved_by, ar.approved_at, ar.rejection_reason, ar.created_at`

const approvalDetailColumns = approvalColumns + `,
       COALESCE(u.manager_name, '') AS requester_name,
       COALESCE(u.email, '') AS requester_email,
       COALESCE(u.department, '') AS requester_department,
       approver.manager_name AS approver_name`

const approvalDetailJoins = `
	FROM approval_requests ar
	LEFT JOIN users u ON ar.uid = u.uid
	LEFT JOIN users approver ON ar.approved_by = approver.uid`

// ApprovalRepository persists approval workflow data.
type ApprovalRepository struct {
	db *sqlx.DB
}

// NewApprovalRepository constructs the repository.
func NewApprovalRepository(db *sqlx.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// Create inserts a new pending approval request.
func (r *ApprovalRepository) Create(ctx context.Context, request *models.ApprovalRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.ApprovalStatusPending
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO approval_requests
	(id, uid, biz_num, request_type, request_data, status, approved_by, approved_at, rejection_reason, created_at)
	VALUES (:id, :uid, :biz_num, :request_type, :request_data, :status, :approved_by, :approved_at, :rejection_reason, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create approval request: %w", err)
	}
	return nil
}

// GetByID fetches an approval request by identifier.
func (r *ApprovalRepository) GetByID(ctx context.Context, id string) (*models.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests ar WHERE ar.id = $1`
	var request models.ApprovalRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// GetDetail fetches an approval request with requester/approver names joined.
func (r *ApprovalRepository) GetDetail(ctx context.Context, id string) (*models.ApprovalDetail, error) {
	query := `SELECT ` + approvalDetailColumns + approvalDetailJoins + ` WHERE ar.id = $1`
	var detail models.ApprovalDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns approval requests matching the filter, newest first.
func (r *ApprovalRepository) List(ctx context.Context, filter models.ApprovalFilter) ([]models.ApprovalDetail, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(`SELECT ` + approvalDetailColumns + approvalDetailJoins)

	conditions := make([]string, 0, 3)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("ar.status = $%d", len(args)))
	}
	if filter.BizNum != "" {
		args = append(args, filter.BizNum)
		conditions = append(conditions, fmt.Sprintf("ar.biz_num = $%d", len(args)))
	}
	if filter.RequesterUID != "" {
		args = append(args, filter.RequesterUID)
		conditions = append(conditions, fmt.Sprintf("ar.uid = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY ar.created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var requests []models.ApprovalDetail
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list approval requests: %w", err)
	}
	return requests, nil
}

// ResolutionParams groups the columns written when a request is resolved.
type ResolutionParams struct {
	ID              string
	Status          models.ApprovalStatus
	ApprovedBy      string
	ApprovedAt      time.Time
	RejectionReason *string
}

// Resolve transitions a pending request to a terminal state. The guard on
// the current status makes concurrent approvals race-safe: the second
// writer sees zero rows and reports sql.ErrNoRows.
func (r *ApprovalRepository) Resolve(ctx context.Context, params ResolutionParams) error {
	query := fmt.Sprintf(`UPDATE approval_requests
	SET status = :status, approved_by = :approved_by, approved_at = :approved_at, rejection_reason = :rejection_reason
	WHERE id = :id AND status = '%s'`, models.ApprovalStatusPending)
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":               params.ID,
		"status":           params.Status,
		"approved_by":      params.ApprovedBy,
		"approved_at":      params.ApprovedAt,
		"rejection_reason": params.RejectionReason,
	})
	if err != nil {
		return fmt.Errorf("resolve approval request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check approval resolve rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete physically removes an approval request.
func (r *ApprovalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM approval_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete approval request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check approval delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
