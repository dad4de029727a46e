package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	ListByBizNum(ctx context.Context, bizNum string) ([]models.User, error)
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UserService handles account management workflows.
type UserService struct {
	repo   userRepository
	logger *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, logger: logger}
}

// List returns accounts visible to the caller with pagination metadata.
// Owners see their company's accounts; elevated staff see everything.
func (s *UserService) List(ctx context.Context, filter models.UserFilter, actor *models.JWTClaims) ([]models.User, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	switch {
	case models.IsElevated(actor.Role):
	case models.IsOwner(actor.Role):
		filter.BizNum = actor.BizNum
	default:
		return nil, nil, appErrors.ErrForbidden
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	pagination := &models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}
	return users, pagination, nil
}

// ListCompany returns every account of one tenant company, owner first.
func (s *UserService) ListCompany(ctx context.Context, bizNum string, actor *models.JWTClaims) ([]models.User, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.IsElevated(actor.Role) && actor.BizNum != bizNum {
		return nil, appErrors.ErrForbidden
	}
	users, err := s.repo.ListByBizNum(ctx, bizNum)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list company accounts")
	}
	return users, nil
}

// Get returns a single account. Callers may always fetch themselves;
// company mates require owner role, everything else elevated role.
func (s *UserService) Get(ctx context.Context, uid string, actor *models.JWTClaims) (*models.User, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	switch {
	case actor.UID == uid:
	case models.IsElevated(actor.Role):
	case models.IsOwner(actor.Role) && user.BizNum == actor.BizNum:
	default:
		return nil, appErrors.ErrForbidden
	}
	return user, nil
}

// Update applies a partial account update. Only elevated staff may change
// role or plan; owners may edit their own company's department and
// manager name.
func (s *UserService) Update(ctx context.Context, uid string, req dto.UpdateUserRequest, actor *models.JWTClaims) (*models.User, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	elevated := models.IsElevated(actor.Role)
	if !elevated {
		if !models.IsOwner(actor.Role) || user.BizNum != actor.BizNum {
			return nil, appErrors.ErrForbidden
		}
		if req.Role != nil || req.Plan != nil || req.Active != nil {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only firm staff may change role, plan, or active state")
		}
	}

	fields := map[string]interface{}{}
	if req.Department != nil {
		fields["department"] = *req.Department
	}
	if req.ManagerName != nil {
		fields["manager_name"] = *req.ManagerName
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.Plan != nil {
		fields["plan"] = *req.Plan
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if len(fields) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	if err := s.repo.UpdateFields(ctx, uid, fields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"department":   user.Department,
		"manager_name": user.ManagerName,
		"role":         user.Role,
		"plan":         user.Plan,
		"active":       user.Active,
	})
	newValues, _ := json.Marshal(fields)
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserUID:    &actor.UID,
		Action:     models.AuditActionUserUpdate,
		Resource:   "users",
		ResourceID: &uid,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  "system",
		UserAgent:  "user-service",
	}); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}

	return s.repo.FindByUID(ctx, uid)
}
