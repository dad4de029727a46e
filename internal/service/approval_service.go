package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	"github.com/noah-isme/lawfirm-bo-api/internal/repository"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

type approvalStore interface {
	Create(ctx context.Context, request *models.ApprovalRequest) error
	GetByID(ctx context.Context, id string) (*models.ApprovalRequest, error)
	GetDetail(ctx context.Context, id string) (*models.ApprovalDetail, error)
	List(ctx context.Context, filter models.ApprovalFilter) ([]models.ApprovalDetail, error)
	Resolve(ctx context.Context, params repository.ResolutionParams) error
	Delete(ctx context.Context, id string) error
}

type approvalUserStore interface {
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error
}

type recordCreator interface {
	CreateAs(ctx context.Context, req dto.CreatePostRequest, author *models.User) (*models.Post, error)
}

type approvalMetrics interface {
	RecordApprovalResolved(outcome models.ApprovalStatus)
	RecordDispatchFailure()
}

// ApprovalApplier applies the domain change for a request type once the
// request is approved.
type ApprovalApplier interface {
	Apply(ctx context.Context, request *models.ApprovalRequest) error
}

// ApprovalApplierFunc allows using plain functions.
type ApprovalApplierFunc func(ctx context.Context, request *models.ApprovalRequest) error

// Apply implements ApprovalApplier.
func (f ApprovalApplierFunc) Apply(ctx context.Context, request *models.ApprovalRequest) error {
	return f(ctx, request)
}

// ApprovalService owns the approval request lifecycle: submission, listing
// under tenant scoping, resolution, and dispatch of the approved change.
type ApprovalService struct {
	repo     approvalStore
	users    approvalUserStore
	records  recordCreator
	appliers map[models.ApprovalType]ApprovalApplier
	audit    auditLogger
	metrics  approvalMetrics
	logger   *zap.Logger
}

// ApprovalServiceOption configures the service.
type ApprovalServiceOption func(*ApprovalService)

// WithApprovalAppliers registers extra appliers keyed by request type,
// overriding defaults on collision.
func WithApprovalAppliers(appliers map[models.ApprovalType]ApprovalApplier) ApprovalServiceOption {
	return func(s *ApprovalService) {
		for k, v := range appliers {
			s.appliers[k] = v
		}
	}
}

// WithApprovalMetrics wires the Prometheus recorder.
func WithApprovalMetrics(metrics approvalMetrics) ApprovalServiceOption {
	return func(s *ApprovalService) {
		s.metrics = metrics
	}
}

// NewApprovalService constructs the service with the built-in dispatch
// table.
func NewApprovalService(repo approvalStore, users approvalUserStore, records recordCreator, audit auditLogger, logger *zap.Logger, opts ...ApprovalServiceOption) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ApprovalService{
		repo:    repo,
		users:   users,
		records: records,
		audit:   audit,
		logger:  logger,
	}
	svc.appliers = map[models.ApprovalType]ApprovalApplier{
		models.ApprovalTypeDepartmentChange: ApprovalApplierFunc(svc.applyDepartmentChange),
		models.ApprovalTypeRoleChange:       ApprovalApplierFunc(svc.applyRoleChange),
		models.ApprovalTypeAdvisoryRequest:  svc.recordApplier(models.CategoryAdvisory),
		models.ApprovalTypePhoneConsult:     svc.recordApplier(models.CategoryPhoneRequest),
		models.ApprovalTypeExtraUsage:       svc.recordApplier(models.CategoryExtraUsage),
		models.ApprovalTypePlanChange:       svc.recordApplier(models.CategoryPlanChange),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Submit stores a new pending approval request for the caller.
func (s *ApprovalService) Submit(ctx context.Context, req dto.SubmitApprovalRequest, actor *models.JWTClaims) (*models.ApprovalRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if strings.TrimSpace(string(req.RequestType)) == "" || len(req.RequestData) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requestType and requestData are required")
	}
	if !json.Valid(req.RequestData) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requestData must be valid JSON")
	}

	request := &models.ApprovalRequest{
		UID:         actor.UID,
		BizNum:      actor.BizNum,
		RequestType: req.RequestType,
		RequestData: append([]byte(nil), req.RequestData...),
		Status:      models.ApprovalStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create approval request")
	}

	s.emitAudit(ctx, &models.AuditLog{
		UserUID:    &actor.UID,
		Action:     models.AuditActionApprovalSubmit,
		Resource:   string(request.RequestType),
		ResourceID: &request.ID,
		NewValues:  request.RequestData,
	})
	return request, nil
}

// List returns requests visible to the caller, newest first. Subordinate
// staff see only their own submissions, owners their company's, elevated
// staff everything (optionally filtered).
func (s *ApprovalService) List(ctx context.Context, query dto.ApprovalQuery, actor *models.JWTClaims) ([]models.ApprovalDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filter := models.ApprovalFilter{Status: query.Status}
	switch {
	case models.IsElevated(actor.Role):
		filter.BizNum = query.BizNum
	case models.IsOwner(actor.Role):
		filter.BizNum = actor.BizNum
	default:
		filter.RequesterUID = actor.UID
	}

	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list approval requests")
	}
	return requests, nil
}

// Get returns a single request with requester/approver names joined.
func (s *ApprovalService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.ApprovalDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approval request")
	}
	switch {
	case models.IsElevated(actor.Role):
	case models.IsOwner(actor.Role):
		if detail.BizNum != actor.BizNum {
			return nil, appErrors.ErrForbidden
		}
	default:
		if detail.UID != actor.UID {
			return nil, appErrors.ErrForbidden
		}
	}
	return detail, nil
}

// Approve transitions a pending request to Approved and dispatches the
// associated domain change. The status transition is durable before the
// dispatch runs; a dispatch failure is logged but never rolls the status
// back.
func (s *ApprovalService) Approve(ctx context.Context, id string, actor *models.JWTClaims) error {
	err := s.approveOne(ctx, id, actor)
	if appErrors.HasCode(err, appErrors.ErrDispatchFailed) {
		// The request itself is approved; the missing side effect is an
		// operator concern, not a caller error.
		s.logger.Error("approval dispatch failed", zap.String("request_id", id), zap.Error(err))
		return nil
	}
	return err
}

// approveOne performs one approval and reports dispatch failures to the
// caller so bulk operations can surface them per item.
func (s *ApprovalService) approveOne(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approval request")
	}
	if request.Status != models.ApprovalStatusPending {
		return appErrors.ErrAlreadyResolved
	}
	if !models.CanApproveFor(actor.Role, actor.BizNum, request.BizNum) {
		return appErrors.ErrForbidden
	}

	now := time.Now().UTC()
	if err := s.repo.Resolve(ctx, repository.ResolutionParams{
		ID:         request.ID,
		Status:     models.ApprovalStatusApproved,
		ApprovedBy: actor.UID,
		ApprovedAt: now,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrAlreadyResolved
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve request")
	}
	request.Status = models.ApprovalStatusApproved
	request.ApprovedBy = &actor.UID
	request.ApprovedAt = &now
	if s.metrics != nil {
		s.metrics.RecordApprovalResolved(models.ApprovalStatusApproved)
	}

	s.emitAudit(ctx, &models.AuditLog{
		UserUID:    &actor.UID,
		Action:     models.AuditActionApprovalResolve,
		Resource:   string(request.RequestType),
		ResourceID: &request.ID,
		NewValues:  []byte(`{"status":"Approved"}`),
	})

	applier, known := s.appliers[request.RequestType]
	if !known {
		// Forward compatible: unknown types approve without a side effect.
		s.logger.Info("approved request with no registered applier",
			zap.String("request_id", request.ID),
			zap.String("request_type", string(request.RequestType)),
		)
		return nil
	}
	if err := applier.Apply(ctx, request); err != nil {
		if s.metrics != nil {
			s.metrics.RecordDispatchFailure()
		}
		return appErrors.Wrap(err, appErrors.ErrDispatchFailed.Code, appErrors.ErrDispatchFailed.Status,
			fmt.Sprintf("request %s approved but %s dispatch failed", request.ID, request.RequestType))
	}
	return nil
}

// Reject transitions a pending request to Rejected, storing the reason or
// a default placeholder.
func (s *ApprovalService) Reject(ctx context.Context, id string, actor *models.JWTClaims, reason string) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approval request")
	}
	if request.Status != models.ApprovalStatusPending {
		return appErrors.ErrAlreadyResolved
	}
	if !models.CanApproveFor(actor.Role, actor.BizNum, request.BizNum) {
		return appErrors.ErrForbidden
	}

	stored := strings.TrimSpace(reason)
	if stored == "" {
		stored = models.DefaultRejectionReason
	}
	if err := s.repo.Resolve(ctx, repository.ResolutionParams{
		ID:              request.ID,
		Status:          models.ApprovalStatusRejected,
		ApprovedBy:      actor.UID,
		ApprovedAt:      time.Now().UTC(),
		RejectionReason: &stored,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrAlreadyResolved
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject request")
	}
	if s.metrics != nil {
		s.metrics.RecordApprovalResolved(models.ApprovalStatusRejected)
	}

	s.emitAudit(ctx, &models.AuditLog{
		UserUID:    &actor.UID,
		Action:     models.AuditActionApprovalResolve,
		Resource:   string(request.RequestType),
		ResourceID: &request.ID,
		NewValues:  []byte(`{"status":"Rejected","reason":` + jsonString(stored) + `}`),
	})
	return nil
}

// BulkApprove applies Approve to each id independently. One item's failure
// never aborts the rest; the summary reports per-item errors.
func (s *ApprovalService) BulkApprove(ctx context.Context, ids []string, actor *models.JWTClaims) (*models.BulkApprovalResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ids is required")
	}

	result := &models.BulkApprovalResult{}
	for _, id := range ids {
		if err := s.approveOne(ctx, id, actor); err != nil {
			appErr := appErrors.FromError(err)
			result.FailCount++
			result.Errors = append(result.Errors, models.BulkApprovalError{
				ID:      id,
				Code:    appErr.Code,
				Message: appErr.Message,
			})
			s.logger.Warn("bulk approve item failed", zap.String("request_id", id), zap.Error(err))
			continue
		}
		result.SuccessCount++
	}
	return result, nil
}

// Delete removes a request; only the original requester or elevated staff
// may delete, regardless of status.
func (s *ApprovalService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approval request")
	}
	if request.UID != actor.UID && !models.IsElevated(actor.Role) {
		return appErrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete approval request")
	}

	s.emitAudit(ctx, &models.AuditLog{
		UserUID:    &actor.UID,
		Action:     models.AuditActionApprovalDelete,
		Resource:   string(request.RequestType),
		ResourceID: &request.ID,
		OldValues:  request.RequestData,
	})
	return nil
}

func (s *ApprovalService) applyDepartmentChange(ctx context.Context, request *models.ApprovalRequest) error {
	var payload dto.DepartmentChangePayload
	if err := json.Unmarshal(request.RequestData, &payload); err != nil {
		return fmt.Errorf("decode department-change payload: %w", err)
	}
	if strings.TrimSpace(payload.ToDepartment) == "" {
		return fmt.Errorf("department-change payload missing toDepartment")
	}
	return s.users.UpdateFields(ctx, request.UID, map[string]interface{}{
		"department": strings.TrimSpace(payload.ToDepartment),
	})
}

func (s *ApprovalService) applyRoleChange(ctx context.Context, request *models.ApprovalRequest) error {
	var payload dto.RoleChangePayload
	if err := json.Unmarshal(request.RequestData, &payload); err != nil {
		return fmt.Errorf("decode role-change payload: %w", err)
	}
	if payload.NewRank == "" {
		return fmt.Errorf("role-change payload missing newRank")
	}
	return s.users.UpdateFields(ctx, request.UID, map[string]interface{}{
		"role": payload.NewRank,
	})
}

// recordApplier builds an applier that creates a board record for the
// requester, merging the request payload in.
func (s *ApprovalService) recordApplier(category models.PostCategory) ApprovalApplier {
	return ApprovalApplierFunc(func(ctx context.Context, request *models.ApprovalRequest) error {
		var payload struct {
			Title    string          `json:"title"`
			Content  string          `json:"content"`
			FileURLs json.RawMessage `json:"fileUrls"`
		}
		if err := json.Unmarshal(request.RequestData, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", request.RequestType, err)
		}
		if strings.TrimSpace(payload.Title) == "" {
			payload.Title = string(request.RequestType)
		}
		if strings.TrimSpace(payload.Content) == "" {
			payload.Content = string(request.RequestData)
		}

		requester, err := s.users.FindByUID(ctx, request.UID)
		if err != nil {
			return fmt.Errorf("load requester %s: %w", request.UID, err)
		}
		_, err = s.records.CreateAs(ctx, dto.CreatePostRequest{
			Category: category,
			Title:    payload.Title,
			Content:  payload.Content,
			FileURLs: payload.FileURLs,
		}, requester)
		return err
	})
}

func (s *ApprovalService) emitAudit(ctx context.Context, log *models.AuditLog) {
	if s.audit == nil || log == nil {
		return
	}
	log.IPAddress = "system"
	log.UserAgent = "approval-service"
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
