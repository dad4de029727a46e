package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

type usageUsersStub struct {
	users      map[string]*models.User
	owners     map[string]*models.User
	increments map[string][]models.CounterKind
	decrements map[string][]models.CounterKind
}

func newUsageUsersStub() *usageUsersStub {
	return &usageUsersStub{
		users:      make(map[string]*models.User),
		owners:     make(map[string]*models.User),
		increments: make(map[string][]models.CounterKind),
		decrements: make(map[string][]models.CounterKind),
	}
}

func (u *usageUsersStub) add(user *models.User) *usageUsersStub {
	u.users[user.UID] = user
	if user.Role == models.RoleOwner {
		u.owners[user.BizNum] = user
	}
	return u
}

func (u *usageUsersStub) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	if user, ok := u.users[uid]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (u *usageUsersStub) FindOwnerByBizNum(ctx context.Context, bizNum string) (*models.User, error) {
	if owner, ok := u.owners[bizNum]; ok {
		return owner, nil
	}
	return nil, sql.ErrNoRows
}

func (u *usageUsersStub) IncrementUsage(ctx context.Context, uid string, kind models.CounterKind) error {
	u.increments[uid] = append(u.increments[uid], kind)
	return nil
}

func (u *usageUsersStub) DecrementUsage(ctx context.Context, uid string, kind models.CounterKind) error {
	u.decrements[uid] = append(u.decrements[uid], kind)
	return nil
}

func TestUsageServiceSubordinateBillsOwner(t *testing.T) {
	users := newUsageUsersStub().
		add(&models.User{UID: "owner-1", Role: models.RoleOwner, BizNum: "111-22-33333"}).
		add(&models.User{UID: "user-1", Role: models.RoleUser, BizNum: "111-22-33333"})
	svc := NewUsageService(users, nil)

	require.NoError(t, svc.ChargeForCategory(context.Background(), "user-1", models.CategoryAdvisory))
	require.Equal(t, []models.CounterKind{models.CounterAdvisory}, users.increments["owner-1"])
	require.Empty(t, users.increments["user-1"])

	require.NoError(t, svc.ChargeForCategory(context.Background(), "user-1", models.CategoryPhoneRequest))
	require.Equal(t, []models.CounterKind{models.CounterAdvisory, models.CounterPhone}, users.increments["owner-1"])
}

func TestUsageServiceOwnerBillsSelf(t *testing.T) {
	users := newUsageUsersStub().
		add(&models.User{UID: "owner-1", Role: models.RoleOwner, BizNum: "111-22-33333"})
	svc := NewUsageService(users, nil)

	require.NoError(t, svc.ChargeForCategory(context.Background(), "owner-1", models.CategoryAdvisory))
	require.Equal(t, []models.CounterKind{models.CounterAdvisory}, users.increments["owner-1"])
}

func TestUsageServiceOrphanEmployeeBillsSelf(t *testing.T) {
	users := newUsageUsersStub().
		add(&models.User{UID: "user-1", Role: models.RoleStaff, BizNum: "999-00-11111"})
	svc := NewUsageService(users, nil)

	require.NoError(t, svc.ChargeForCategory(context.Background(), "user-1", models.CategoryAdvisory))
	require.Equal(t, []models.CounterKind{models.CounterAdvisory}, users.increments["user-1"])
}

func TestUsageServiceNonBillableCategoriesSkipCounters(t *testing.T) {
	users := newUsageUsersStub().
		add(&models.User{UID: "owner-1", Role: models.RoleOwner, BizNum: "111-22-33333"})
	svc := NewUsageService(users, nil)

	for _, category := range []models.PostCategory{
		models.CategoryPhoneLog,
		models.CategoryPaymentRequest,
		models.CategoryPlanChange,
		models.CategoryMemberReq,
		models.CategoryExtraUsage,
	} {
		require.NoError(t, svc.ChargeForCategory(context.Background(), "owner-1", category))
		require.NoError(t, svc.RefundForCategory(context.Background(), "owner-1", category))
	}
	require.Empty(t, users.increments)
	require.Empty(t, users.decrements)
}

func TestUsageServiceRefundTargetsOwner(t *testing.T) {
	users := newUsageUsersStub().
		add(&models.User{UID: "owner-1", Role: models.RoleOwner, BizNum: "111-22-33333"}).
		add(&models.User{UID: "user-1", Role: models.RoleManager, BizNum: "111-22-33333"})
	svc := NewUsageService(users, nil)

	require.NoError(t, svc.RefundForCategory(context.Background(), "user-1", models.CategoryPhoneRequest))
	require.Equal(t, []models.CounterKind{models.CounterPhone}, users.decrements["owner-1"])
}

func TestUsageServiceUnknownCreator(t *testing.T) {
	svc := NewUsageService(newUsageUsersStub(), nil)

	err := svc.ChargeForCategory(context.Background(), "ghost", models.CategoryAdvisory)
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
