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

const caseColumns = `id, doc_id, biz_num, kind, client_name, case_name, case_number, court,
       debtor_name, creditor_name, amount, phone, address,
       status, description, created_by, created_at, updated_at`

// CaseRepository persists debt, bankruptcy, and litigation matters.
type CaseRepository struct {
	db *sqlx.DB
}

// NewCaseRepository constructs the repository.
func NewCaseRepository(db *sqlx.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create inserts a new case row.
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	if c.DocID == "" {
		c.DocID = uuid.NewString()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = models.CaseStatusIntake
	}
	const query = `INSERT INTO cases
	(doc_id, biz_num, kind, client_name, case_name, case_number, court, debtor_name, creditor_name, amount, phone, address, status, description, created_by, created_at, updated_at)
	VALUES (:doc_id, :biz_num, :kind, :client_name, :case_name, :case_number, :court, :debtor_name, :creditor_name, :amount, :phone, :address, :status, :description, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

// GetByDocID returns a case scoped to its tenant.
func (r *CaseRepository) GetByDocID(ctx context.Context, docID string) (*models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE doc_id = $1`
	var c models.Case
	if err := r.db.GetContext(ctx, &c, query, docID); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns cases matching the filter, newest first.
func (r *CaseRepository) List(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT ` + caseColumns + ` FROM cases`)

	conditions := make([]string, 0, 4)
	if filter.BizNum != "" {
		args = append(args, filter.BizNum)
		conditions = append(conditions, fmt.Sprintf("biz_num = $%d", len(args)))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(debtor_name) LIKE $%d OR LOWER(creditor_name) LIKE $%d OR LOWER(client_name) LIKE $%d OR LOWER(case_name) LIKE $%d OR LOWER(case_number) LIKE $%d)",
			n, n, n, n, n))
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

	var cases []models.Case
	if err := r.db.SelectContext(ctx, &cases, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return cases, nil
}

// Update applies mutable case fields; the biz_num guard keeps tenants
// isolated even if a docID leaks across companies.
func (r *CaseRepository) Update(ctx context.Context, docID, bizNum string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	setParts := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+3)
	args = append(args, docID, bizNum)
	for column, value := range fields {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	args = append(args, time.Now().UTC())
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf("UPDATE cases SET %s WHERE doc_id = $1 AND biz_num = $2", strings.Join(setParts, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check case update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a case within its tenant scope.
func (r *CaseRepository) Delete(ctx context.Context, docID, bizNum string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE doc_id = $1 AND biz_num = $2`, docID, bizNum)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check case delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
