package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

type caseRepoStub struct {
	cases      map[string]*models.Case
	filter     models.CaseFilter
	lastFields map[string]interface{}
}

func newCaseRepoStub() *caseRepoStub {
	return &caseRepoStub{cases: make(map[string]*models.Case)}
}

func (c *caseRepoStub) Create(ctx context.Context, matter *models.Case) error {
	if matter.DocID == "" {
		if matter.DebtorName != "" {
			matter.DocID = "case-" + matter.DebtorName
		} else {
			matter.DocID = "case-" + matter.CaseName
		}
	}
	if matter.Status == "" {
		matter.Status = models.CaseStatusIntake
	}
	c.cases[matter.DocID] = matter
	return nil
}

func (c *caseRepoStub) GetByDocID(ctx context.Context, docID string) (*models.Case, error) {
	if matter, ok := c.cases[docID]; ok {
		copy := *matter
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (c *caseRepoStub) List(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	c.filter = filter
	result := make([]models.Case, 0, len(c.cases))
	for _, matter := range c.cases {
		result = append(result, *matter)
	}
	return result, nil
}

func (c *caseRepoStub) Update(ctx context.Context, docID, bizNum string, fields map[string]interface{}) error {
	matter, ok := c.cases[docID]
	if !ok || matter.BizNum != bizNum {
		return sql.ErrNoRows
	}
	c.lastFields = fields
	if status, ok := fields["status"]; ok {
		matter.Status = status.(models.CaseStatus)
	}
	if amount, ok := fields["amount"]; ok {
		matter.Amount = amount.(int64)
	}
	if court, ok := fields["court"]; ok {
		matter.Court = court.(string)
	}
	return nil
}

func (c *caseRepoStub) Delete(ctx context.Context, docID, bizNum string) error {
	matter, ok := c.cases[docID]
	if !ok || matter.BizNum != bizNum {
		return sql.ErrNoRows
	}
	delete(c.cases, docID)
	return nil
}

func TestCaseServiceCreate(t *testing.T) {
	repo := newCaseRepoStub()
	svc := NewCaseService(repo, nil, nil)

	matter, err := svc.Create(context.Background(), dto.CreateCaseRequest{
		Kind:       models.CaseKindDebt,
		DebtorName: " Hong Gil-dong ",
		Amount:     2500000,
	}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, "Hong Gil-dong", matter.DebtorName)
	require.Equal(t, "111-22-33333", matter.BizNum)
	require.Equal(t, models.CaseStatusIntake, matter.Status)

	_, err = svc.Create(context.Background(), dto.CreateCaseRequest{
		Kind:       models.CaseKind("divorce"),
		DebtorName: "Kim",
	}, ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), dto.CreateCaseRequest{
		Kind: models.CaseKindDebt,
	}, ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestCaseServiceCreateLitigation(t *testing.T) {
	repo := newCaseRepoStub()
	svc := NewCaseService(repo, nil, nil)

	matter, err := svc.Create(context.Background(), dto.CreateCaseRequest{
		Kind:       models.CaseKindLitigation,
		ClientName: " Acme Trading ",
		CaseName:   "Acme v. Hong",
		CaseNumber: "2026가단12345",
		Court:      "Seoul Central District Court",
		Amount:     80000000,
	}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, models.CaseKindLitigation, matter.Kind)
	require.Equal(t, "Acme Trading", matter.ClientName)
	require.Equal(t, "2026가단12345", matter.CaseNumber)
	require.Equal(t, "111-22-33333", matter.BizNum)
	require.Equal(t, models.CaseStatusIntake, matter.Status)

	// Litigation intake identifies the matter by client and docket, not debtor.
	_, err = svc.Create(context.Background(), dto.CreateCaseRequest{
		Kind:     models.CaseKindLitigation,
		CaseName: "Acme v. Hong",
	}, ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestCaseServiceListLitigationFilter(t *testing.T) {
	repo := newCaseRepoStub()
	svc := NewCaseService(repo, nil, nil)

	_, err := svc.List(context.Background(), dto.CaseQuery{
		Kind:   models.CaseKindLitigation,
		Search: "2026가단",
	}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, models.CaseKindLitigation, repo.filter.Kind)
	require.Equal(t, "2026가단", repo.filter.Search)
	require.Equal(t, "111-22-33333", repo.filter.BizNum)
}

func TestCaseServiceListScoping(t *testing.T) {
	repo := newCaseRepoStub()
	svc := NewCaseService(repo, nil, nil)

	_, err := svc.List(context.Background(), dto.CaseQuery{Kind: models.CaseKindDebt}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, "111-22-33333", repo.filter.BizNum)

	_, err = svc.List(context.Background(), dto.CaseQuery{Page: 3}, adminClaims())
	require.NoError(t, err)
	require.Empty(t, repo.filter.BizNum)
	require.Equal(t, 100, repo.filter.Offset)
}

func TestCaseServiceGetCrossTenantHidden(t *testing.T) {
	repo := newCaseRepoStub()
	repo.cases["case-1"] = &models.Case{DocID: "case-1", BizNum: "999-00-11111", Kind: models.CaseKindDebt}
	svc := NewCaseService(repo, nil, nil)

	// Another tenant's matter looks like it does not exist at all.
	_, err := svc.Get(context.Background(), "case-1", ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	matter, err := svc.Get(context.Background(), "case-1", adminClaims())
	require.NoError(t, err)
	require.Equal(t, "case-1", matter.DocID)
}

func TestCaseServiceUpdate(t *testing.T) {
	repo := newCaseRepoStub()
	repo.cases["case-1"] = &models.Case{DocID: "case-1", BizNum: "111-22-33333", Kind: models.CaseKindDebt, Status: models.CaseStatusIntake}
	svc := NewCaseService(repo, nil, nil)

	_, err := svc.Update(context.Background(), "case-1", dto.UpdateCaseRequest{Status: models.CaseStatus("archived")}, ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = svc.Update(context.Background(), "case-1", dto.UpdateCaseRequest{}, ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	amount := int64(999)
	matter, err := svc.Update(context.Background(), "case-1", dto.UpdateCaseRequest{Status: models.CaseStatusInProgress, Amount: &amount}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, models.CaseStatusInProgress, matter.Status)
	require.Equal(t, int64(999), matter.Amount)

	matter, err = svc.Update(context.Background(), "case-1", dto.UpdateCaseRequest{
		Court:      "Seoul Central District Court",
		CaseNumber: "2026가단99999",
	}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, "Seoul Central District Court", matter.Court)
	require.Equal(t, "2026가단99999", repo.lastFields["case_number"])
}

func TestCaseServiceDelete(t *testing.T) {
	repo := newCaseRepoStub()
	repo.cases["case-1"] = &models.Case{DocID: "case-1", BizNum: "111-22-33333", Kind: models.CaseKindDebt}
	svc := NewCaseService(repo, nil, nil)

	err := svc.Delete(context.Background(), "case-1", &models.JWTClaims{UID: "x", Role: models.RoleOwner, BizNum: "999-00-11111"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	require.NoError(t, svc.Delete(context.Background(), "case-1", ownerClaims()))
	require.Empty(t, repo.cases)
}
