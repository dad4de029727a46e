package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

type expenseRepoStub struct {
	expenses []*models.Expense
	filter   models.ExpenseFilter
}

func (e *expenseRepoStub) Create(ctx context.Context, expense *models.Expense) error {
	if expense.DocID == "" {
		expense.DocID = "exp-1"
	}
	e.expenses = append(e.expenses, expense)
	return nil
}

func (e *expenseRepoStub) List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	e.filter = filter
	result := make([]models.Expense, 0, len(e.expenses))
	for _, expense := range e.expenses {
		result = append(result, *expense)
	}
	return result, nil
}

func TestExpenseServiceOwnersOnly(t *testing.T) {
	svc := NewExpenseService(&expenseRepoStub{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateExpenseRequest{}, employeeClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	_, err = svc.List(context.Background(), dto.ExpenseQuery{}, employeeClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestExpenseServiceCreate(t *testing.T) {
	repo := &expenseRepoStub{}
	svc := NewExpenseService(repo, nil, nil)

	expense, err := svc.Create(context.Background(), dto.CreateExpenseRequest{
		Category:    "office",
		Date:        "2026-08-15",
		Description: "printer toner",
		Amount:      42000,
	}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, "111-22-33333", expense.BizNum)
	require.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), expense.Date)

	_, err = svc.Create(context.Background(), dto.CreateExpenseRequest{
		Category:    "office",
		Date:        "15.08.2026",
		Description: "toner",
		Amount:      1,
	}, ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestExpenseServiceListScopedToCompany(t *testing.T) {
	repo := &expenseRepoStub{}
	svc := NewExpenseService(repo, nil, nil)

	_, err := svc.List(context.Background(), dto.ExpenseQuery{From: "2026-08-01", To: "2026-08-31"}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, "111-22-33333", repo.filter.BizNum)
	require.NotNil(t, repo.filter.From)
	require.NotNil(t, repo.filter.To)

	_, err = svc.List(context.Background(), dto.ExpenseQuery{From: "bad"}, ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestExpenseServiceExports(t *testing.T) {
	repo := &expenseRepoStub{expenses: []*models.Expense{{
		DocID:        "exp-1",
		BizNum:       "111-22-33333",
		Category:     "office",
		Date:         time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Description:  "printer toner",
		Amount:       42000,
		RegisteredBy: "Kim",
	}}}
	svc := NewExpenseService(repo, nil, nil)

	csv, err := svc.ExportCSV(context.Background(), dto.ExpenseQuery{}, ownerClaims())
	require.NoError(t, err)
	require.Contains(t, string(csv), "printer toner")

	pdf, err := svc.ExportPDF(context.Background(), dto.ExpenseQuery{}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(pdf[:4]))
}
