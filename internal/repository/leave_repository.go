package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
)

const leaveColumns = `doc_id, biz_num, user_uid, user_name, type, start_date, end_date, days, reason,
       status, created_at, processed_at`

// LeaveRepository persists leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs the repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// Create inserts a new leave request.
func (r *LeaveRepository) Create(ctx context.Context, leave *models.LeaveRequest) error {
	if leave.DocID == "" {
		leave.DocID = uuid.NewString()
	}
	if leave.Status == "" {
		leave.Status = models.LeaveStatusPending
	}
	if leave.CreatedAt.IsZero() {
		leave.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO leave_requests
	(doc_id, biz_num, user_uid, user_name, type, start_date, end_date, days, reason, status, created_at)
	VALUES (:doc_id, :biz_num, :user_uid, :user_name, :type, :start_date, :end_date, :days, :reason, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return nil
}

// GetByDocID fetches a leave request within its tenant scope.
func (r *LeaveRepository) GetByDocID(ctx context.Context, docID, bizNum string) (*models.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE doc_id = $1 AND biz_num = $2`
	var leave models.LeaveRequest
	if err := r.db.GetContext(ctx, &leave, query, docID, bizNum); err != nil {
		return nil, err
	}
	return &leave, nil
}

// List returns leave requests for a tenant, optionally limited to one user.
func (r *LeaveRepository) List(ctx context.Context, bizNum, userUID string) ([]models.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE biz_num = $1`
	args := []interface{}{bizNum}
	if userUID != "" {
		query += ` AND user_uid = $2`
		args = append(args, userUID)
	}
	query += ` ORDER BY created_at DESC`

	var leaves []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &leaves, query, args...); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return leaves, nil
}

// UpdateStatus records the reviewer decision.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, docID, bizNum string, status models.LeaveStatus, processedAt time.Time) error {
	const query = `UPDATE leave_requests SET status = $3, processed_at = $4 WHERE doc_id = $1 AND biz_num = $2`
	result, err := r.db.ExecContext(ctx, query, docID, bizNum, status, processedAt)
	if err != nil {
		return fmt.Errorf("update leave status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check leave update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
