package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

type leaveStore interface {
	Create(ctx context.Context, leave *models.LeaveRequest) error
	GetByDocID(ctx context.Context, docID, bizNum string) (*models.LeaveRequest, error)
	List(ctx context.Context, bizNum, userUID string) ([]models.LeaveRequest, error)
	UpdateStatus(ctx context.Context, docID, bizNum string, status models.LeaveStatus, processedAt time.Time) error
}

// LeaveService manages vacation and absence requests inside a company.
type LeaveService struct {
	repo      leaveStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs the service.
func NewLeaveService(repo leaveStore, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LeaveService{repo: repo, validator: validate, logger: logger}
}

// Submit files a new pending leave request for the caller.
func (s *LeaveService) Submit(ctx context.Context, req dto.CreateLeaveRequest, actor *models.JWTClaims) (*models.LeaveRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not precede startDate")
	}

	leave := &models.LeaveRequest{
		BizNum:    actor.BizNum,
		UserUID:   actor.UID,
		UserName:  actor.DisplayName(),
		Type:      req.Type,
		StartDate: start,
		EndDate:   end,
		Days:      req.Days,
		Reason:    req.Reason,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}
	return leave, nil
}

// List returns leave requests inside the caller's company. Owners see the
// whole company, everyone else only their own.
func (s *LeaveService) List(ctx context.Context, actor *models.JWTClaims) ([]models.LeaveRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	userUID := actor.UID
	if models.IsOwner(actor.Role) || models.IsElevated(actor.Role) {
		userUID = ""
	}
	leaves, err := s.repo.List(ctx, actor.BizNum, userUID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	return leaves, nil
}

// Process records the reviewer decision; only owners may decide.
func (s *LeaveService) Process(ctx context.Context, docID string, req dto.ProcessLeaveRequest, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !models.IsOwner(actor.Role) && !models.IsElevated(actor.Role) {
		return appErrors.ErrForbidden
	}
	if req.Status != models.LeaveStatusApproved && req.Status != models.LeaveStatusRejected {
		return appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected")
	}

	leave, err := s.repo.GetByDocID(ctx, docID, actor.BizNum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	if leave.Status != models.LeaveStatusPending {
		return appErrors.ErrAlreadyResolved
	}

	if err := s.repo.UpdateStatus(ctx, docID, actor.BizNum, req.Status, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to process leave request")
	}
	return nil
}
