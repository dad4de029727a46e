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

const expenseColumns = `doc_id, biz_num, category, date, description, amount, registered_by, created_at, updated_at`

// ExpenseRepository persists company expense entries.
type ExpenseRepository struct {
	db *sqlx.DB
}

// NewExpenseRepository constructs the repository.
func NewExpenseRepository(db *sqlx.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts a new expense entry.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense.DocID == "" {
		expense.DocID = uuid.NewString()
	}
	now := time.Now().UTC()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now
	const query = `INSERT INTO company_expenses
	(doc_id, biz_num, category, date, description, amount, registered_by, created_at, updated_at)
	VALUES (:doc_id, :biz_num, :category, :date, :description, :amount, :registered_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, expense); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// List returns expenses matching the filter, most recent date first.
func (r *ExpenseRepository) List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	builder := strings.Builder{}
	args := []interface{}{filter.BizNum}
	builder.WriteString(`SELECT ` + expenseColumns + ` FROM company_expenses WHERE biz_num = $1`)

	if filter.Category != "" {
		args = append(args, filter.Category)
		builder.WriteString(fmt.Sprintf(" AND category = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		builder.WriteString(fmt.Sprintf(" AND date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		builder.WriteString(fmt.Sprintf(" AND date <= $%d", len(args)))
	}
	builder.WriteString(" ORDER BY date DESC, created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var expenses []models.Expense
	if err := r.db.SelectContext(ctx, &expenses, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}
