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

const billingColumns = `doc_id, biz_num, company_name, item, amount, method, memo, recorded_by, recorded_at, created_at`

// BillingRepository persists the revenue ledger.
type BillingRepository struct {
	db *sqlx.DB
}

// NewBillingRepository constructs the repository.
func NewBillingRepository(db *sqlx.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// Create inserts a new ledger entry.
func (r *BillingRepository) Create(ctx context.Context, log *models.BillingLog) error {
	if log.DocID == "" {
		log.DocID = uuid.NewString()
	}
	now := time.Now().UTC()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = now
	}
	if log.RecordedAt.IsZero() {
		log.RecordedAt = now
	}
	const query = `INSERT INTO billing_logs
	(doc_id, biz_num, company_name, item, amount, method, memo, recorded_by, recorded_at, created_at)
	VALUES (:doc_id, :biz_num, :company_name, :item, :amount, :method, :memo, :recorded_by, :recorded_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create billing log: %w", err)
	}
	return nil
}

// GetByDocID fetches a ledger entry by identifier.
func (r *BillingRepository) GetByDocID(ctx context.Context, docID string) (*models.BillingLog, error) {
	query := `SELECT ` + billingColumns + ` FROM billing_logs WHERE doc_id = $1`
	var log models.BillingLog
	if err := r.db.GetContext(ctx, &log, query, docID); err != nil {
		return nil, err
	}
	return &log, nil
}

// List returns ledger entries matching the filter, newest first.
func (r *BillingRepository) List(ctx context.Context, filter models.BillingFilter) ([]models.BillingLog, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(`SELECT ` + billingColumns + ` FROM billing_logs`)

	conditions := make([]string, 0, 3)
	if filter.BizNum != "" {
		args = append(args, filter.BizNum)
		conditions = append(conditions, fmt.Sprintf("biz_num = $%d", len(args)))
	}
	if filter.RecordedBy != "" {
		args = append(args, filter.RecordedBy)
		conditions = append(conditions, fmt.Sprintf("recorded_by = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("recorded_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("recorded_at <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY recorded_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var logs []models.BillingLog
	if err := r.db.SelectContext(ctx, &logs, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list billing logs: %w", err)
	}
	return logs, nil
}

// MonthlyStats aggregates ledger revenue per calendar month.
func (r *BillingRepository) MonthlyStats(ctx context.Context) ([]models.BillingMonthlyStat, error) {
	const query = `SELECT TO_CHAR(recorded_at, 'YYYY-MM') AS month,
       COALESCE(SUM(amount), 0) AS total,
       COUNT(*) AS entries
	FROM billing_logs
	GROUP BY TO_CHAR(recorded_at, 'YYYY-MM')
	ORDER BY month DESC`
	var stats []models.BillingMonthlyStat
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("billing monthly stats: %w", err)
	}
	return stats, nil
}
