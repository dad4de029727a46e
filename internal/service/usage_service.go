package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

type usageUserStore interface {
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	FindOwnerByBizNum(ctx context.Context, bizNum string) (*models.User, error)
	IncrementUsage(ctx context.Context, uid string, kind models.CounterKind) error
	DecrementUsage(ctx context.Context, uid string, kind models.CounterKind) error
}

// UsageService attributes consultation quota consumption in the tenant
// hierarchy: subordinate employees consume their company owner's quota.
type UsageService struct {
	users  usageUserStore
	logger *zap.Logger
}

// NewUsageService constructs the service.
func NewUsageService(users usageUserStore, logger *zap.Logger) *UsageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsageService{users: users, logger: logger}
}

// ResolveBillableAccount returns the uid whose counters pay for content
// created by creatorUID. Subordinate staff bill the owner account sharing
// their bizNum; if no owner exists the creator pays directly.
func (s *UsageService) ResolveBillableAccount(ctx context.Context, creatorUID string) (string, error) {
	creator, err := s.users.FindByUID(ctx, creatorUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "creator account not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load creator account")
	}

	if !models.IsSubordinate(creator.Role) {
		return creator.UID, nil
	}

	owner, err := s.users.FindOwnerByBizNum(ctx, creator.BizNum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Orphaned employee without an owner account; bill them directly.
			return creator.UID, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve owner account")
	}
	return owner.UID, nil
}

// ChargeForCategory increments the counter consumed by the category, if
// any, against the billable account resolved from creatorUID.
func (s *UsageService) ChargeForCategory(ctx context.Context, creatorUID string, category models.PostCategory) error {
	kind, billable := models.BillableCounter(category)
	if !billable {
		return nil
	}
	target, err := s.ResolveBillableAccount(ctx, creatorUID)
	if err != nil {
		return err
	}
	if err := s.users.IncrementUsage(ctx, target, kind); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to increment usage counter")
	}
	s.logger.Debug("usage charged",
		zap.String("uid", target),
		zap.String("counter", string(kind)),
		zap.String("category", string(category)),
	)
	return nil
}

// RefundForCategory reverses the counter side effect applied at creation
// time. Counters are floored at zero by the store.
func (s *UsageService) RefundForCategory(ctx context.Context, creatorUID string, category models.PostCategory) error {
	kind, billable := models.BillableCounter(category)
	if !billable {
		return nil
	}
	target, err := s.ResolveBillableAccount(ctx, creatorUID)
	if err != nil {
		return err
	}
	if err := s.users.DecrementUsage(ctx, target, kind); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decrement usage counter")
	}
	s.logger.Debug("usage refunded",
		zap.String("uid", target),
		zap.String("counter", string(kind)),
		zap.String("category", string(category)),
	)
	return nil
}
