package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
	"github.com/noah-isme/lawfirm-bo-api/pkg/export"
)

type expenseStore interface {
	Create(ctx context.Context, expense *models.Expense) error
	List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
}

// ExpenseService manages the company expense ledger.
type ExpenseService struct {
	repo      expenseStore
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExpenseService constructs the service.
func NewExpenseService(repo expenseStore, validate *validator.Validate, logger *zap.Logger) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExpenseService{
		repo:      repo,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// Create registers an expense under the caller's company. Owners only.
func (s *ExpenseService) Create(ctx context.Context, req dto.CreateExpenseRequest, actor *models.JWTClaims) (*models.Expense, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.IsOwner(actor.Role) && !models.IsElevated(actor.Role) {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expense payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	expense := &models.Expense{
		BizNum:       actor.BizNum,
		Category:     req.Category,
		Date:         date,
		Description:  req.Description,
		Amount:       req.Amount,
		RegisteredBy: actor.DisplayName(),
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create expense")
	}
	return expense, nil
}

// List returns expenses of the caller's company.
func (s *ExpenseService) List(ctx context.Context, query dto.ExpenseQuery, actor *models.JWTClaims) ([]models.Expense, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.IsOwner(actor.Role) && !models.IsElevated(actor.Role) {
		return nil, appErrors.ErrForbidden
	}
	filter, err := s.buildFilter(query, actor)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expenses")
	}
	return expenses, nil
}

// ExportCSV renders the filtered ledger as CSV bytes.
func (s *ExpenseService) ExportCSV(ctx context.Context, query dto.ExpenseQuery, actor *models.JWTClaims) ([]byte, error) {
	expenses, err := s.List(ctx, query, actor)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(expenseDataset(expenses))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render expense csv")
	}
	return data, nil
}

// ExportPDF renders the filtered ledger as a PDF document.
func (s *ExpenseService) ExportPDF(ctx context.Context, query dto.ExpenseQuery, actor *models.JWTClaims) ([]byte, error) {
	expenses, err := s.List(ctx, query, actor)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(expenseDataset(expenses), "Company Expenses")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render expense pdf")
	}
	return data, nil
}

func (s *ExpenseService) buildFilter(query dto.ExpenseQuery, actor *models.JWTClaims) (models.ExpenseFilter, error) {
	filter := models.ExpenseFilter{
		BizNum:   actor.BizNum,
		Category: query.Category,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if query.From != "" {
		from, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
		}
		filter.To = &to
	}
	return filter, nil
}

func expenseDataset(expenses []models.Expense) export.Dataset {
	rows := make([]map[string]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, map[string]string{
			"Date":        e.Date.Format("2006-01-02"),
			"Category":    e.Category,
			"Description": e.Description,
			"Amount":      strconv.FormatInt(e.Amount, 10),
			"Registered":  fmt.Sprintf("%s (%s)", e.RegisteredBy, e.CreatedAt.Format("2006-01-02")),
		})
	}
	return export.Dataset{
		Headers: []string{"Date", "Category", "Description", "Amount", "Registered"},
		Rows:    rows,
	}
}
