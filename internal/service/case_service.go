package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

const casePageSize = 50

type caseStore interface {
	Create(ctx context.Context, c *models.Case) error
	GetByDocID(ctx context.Context, docID string) (*models.Case, error)
	List(ctx context.Context, filter models.CaseFilter) ([]models.Case, error)
	Update(ctx context.Context, docID, bizNum string, fields map[string]interface{}) error
	Delete(ctx context.Context, docID, bizNum string) error
}

// CaseService manages debt, bankruptcy, and litigation matter intake.
type CaseService struct {
	repo      caseStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCaseService constructs the service.
func NewCaseService(repo caseStore, validate *validator.Validate, logger *zap.Logger) *CaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CaseService{repo: repo, validator: validate, logger: logger}
}

// Create registers a new matter under the caller's company.
func (s *CaseService) Create(ctx context.Context, req dto.CreateCaseRequest, actor *models.JWTClaims) (*models.Case, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid case payload")
	}
	if !models.ValidCaseKind(req.Kind) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be debt, bankruptcy, or litigation")
	}
	if req.Kind == models.CaseKindLitigation {
		if strings.TrimSpace(req.ClientName) == "" || strings.TrimSpace(req.CaseName) == "" || strings.TrimSpace(req.CaseNumber) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "litigation cases require clientName, caseName, and caseNumber")
		}
	} else if strings.TrimSpace(req.DebtorName) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "debtorName is required")
	}

	matter := &models.Case{
		BizNum:       actor.BizNum,
		Kind:         req.Kind,
		ClientName:   strings.TrimSpace(req.ClientName),
		CaseName:     strings.TrimSpace(req.CaseName),
		CaseNumber:   strings.TrimSpace(req.CaseNumber),
		Court:        strings.TrimSpace(req.Court),
		DebtorName:   strings.TrimSpace(req.DebtorName),
		CreditorName: strings.TrimSpace(req.CreditorName),
		Amount:       req.Amount,
		Phone:        req.Phone,
		Address:      req.Address,
		Description:  req.Description,
		CreatedBy:    actor.UID,
	}
	if err := s.repo.Create(ctx, matter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create case")
	}
	return matter, nil
}

// List returns matters visible to the caller, newest first.
func (s *CaseService) List(ctx context.Context, query dto.CaseQuery, actor *models.JWTClaims) ([]models.Case, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	filter := models.CaseFilter{
		Kind:   query.Kind,
		Status: query.Status,
		Search: query.Search,
		Limit:  casePageSize,
		Offset: (page - 1) * casePageSize,
	}
	if !models.IsElevated(actor.Role) {
		filter.BizNum = actor.BizNum
	}

	cases, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cases")
	}
	return cases, nil
}

// Get returns one matter inside the caller's tenant scope.
func (s *CaseService) Get(ctx context.Context, docID string, actor *models.JWTClaims) (*models.Case, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	matter, err := s.repo.GetByDocID(ctx, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load case")
	}
	if !models.IsElevated(actor.Role) && matter.BizNum != actor.BizNum {
		return nil, appErrors.ErrNotFound
	}
	return matter, nil
}

// Update applies mutable fields of a matter.
func (s *CaseService) Update(ctx context.Context, docID string, req dto.UpdateCaseRequest, actor *models.JWTClaims) (*models.Case, error) {
	matter, err := s.Get(ctx, docID, actor)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Status != "" {
		switch req.Status {
		case models.CaseStatusIntake, models.CaseStatusInProgress, models.CaseStatusOnHold, models.CaseStatusClosed:
			fields["status"] = req.Status
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown case status")
		}
	}
	if req.ClientName != "" {
		fields["client_name"] = req.ClientName
	}
	if req.CaseName != "" {
		fields["case_name"] = req.CaseName
	}
	if req.CaseNumber != "" {
		fields["case_number"] = req.CaseNumber
	}
	if req.Court != "" {
		fields["court"] = req.Court
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	if req.Address != "" {
		fields["address"] = req.Address
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if len(fields) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, docID, matter.BizNum, fields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update case")
	}
	return s.repo.GetByDocID(ctx, docID)
}

// Delete removes a matter inside the caller's tenant scope.
func (s *CaseService) Delete(ctx context.Context, docID string, actor *models.JWTClaims) error {
	matter, err := s.Get(ctx, docID, actor)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, docID, matter.BizNum); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete case")
	}
	return nil
}
