package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	"github.com/noah-isme/lawfirm-bo-api/internal/repository"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

type approvalRepoStub struct {
	requests map[string]*models.ApprovalRequest
	filter   models.ApprovalFilter
}

func newApprovalRepoStub() *approvalRepoStub {
	return &approvalRepoStub{requests: make(map[string]*models.ApprovalRequest)}
}

func (a *approvalRepoStub) Create(ctx context.Context, request *models.ApprovalRequest) error {
	if request.ID == "" {
		request.ID = "ap-" + request.UID
	}
	a.requests[request.ID] = request
	return nil
}

func (a *approvalRepoStub) GetByID(ctx context.Context, id string) (*models.ApprovalRequest, error) {
	if req, ok := a.requests[id]; ok {
		copy := *req
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (a *approvalRepoStub) GetDetail(ctx context.Context, id string) (*models.ApprovalDetail, error) {
	req, ok := a.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.ApprovalDetail{ApprovalRequest: *req}, nil
}

func (a *approvalRepoStub) List(ctx context.Context, filter models.ApprovalFilter) ([]models.ApprovalDetail, error) {
	a.filter = filter
	result := make([]models.ApprovalDetail, 0, len(a.requests))
	for _, req := range a.requests {
		result = append(result, models.ApprovalDetail{ApprovalRequest: *req})
	}
	return result, nil
}

func (a *approvalRepoStub) Resolve(ctx context.Context, params repository.ResolutionParams) error {
	req, ok := a.requests[params.ID]
	if !ok || req.Status != models.ApprovalStatusPending {
		return sql.ErrNoRows
	}
	req.Status = params.Status
	req.ApprovedBy = &params.ApprovedBy
	req.ApprovedAt = &params.ApprovedAt
	req.RejectionReason = params.RejectionReason
	return nil
}

func (a *approvalRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := a.requests[id]; !ok {
		return sql.ErrNoRows
	}
	delete(a.requests, id)
	return nil
}

type approvalUsersStub struct {
	users   map[string]*models.User
	updates map[string]map[string]interface{}
}

func newApprovalUsersStub(users ...*models.User) *approvalUsersStub {
	stub := &approvalUsersStub{
		users:   make(map[string]*models.User),
		updates: make(map[string]map[string]interface{}),
	}
	for _, user := range users {
		stub.users[user.UID] = user
	}
	return stub
}

func (u *approvalUsersStub) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	if user, ok := u.users[uid]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (u *approvalUsersStub) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	if _, ok := u.users[uid]; !ok {
		return sql.ErrNoRows
	}
	u.updates[uid] = fields
	return nil
}

type recordCreatorStub struct {
	created []dto.CreatePostRequest
	authors []*models.User
	err     error
}

func (r *recordCreatorStub) CreateAs(ctx context.Context, req dto.CreatePostRequest, author *models.User) (*models.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.created = append(r.created, req)
	r.authors = append(r.authors, author)
	return &models.Post{DocID: "post-1", Category: req.Category, Title: req.Title}, nil
}

type auditStub struct {
	logs []*models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func ownerClaims() *models.JWTClaims {
	return &models.JWTClaims{UID: "owner-1", Role: models.RoleOwner, BizNum: "111-22-33333"}
}

func employeeClaims() *models.JWTClaims {
	return &models.JWTClaims{UID: "user-1", Role: models.RoleUser, BizNum: "111-22-33333"}
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UID: "admin-1", Role: models.RoleAdmin, BizNum: ""}
}

func TestApprovalServiceSubmit(t *testing.T) {
	repo := newApprovalRepoStub()
	audit := &auditStub{}
	svc := NewApprovalService(repo, newApprovalUsersStub(), &recordCreatorStub{}, audit, nil)

	_, err := svc.Submit(context.Background(), dto.SubmitApprovalRequest{}, employeeClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = svc.Submit(context.Background(), dto.SubmitApprovalRequest{
		RequestType: models.ApprovalTypeDepartmentChange,
		RequestData: []byte(`{broken`),
	}, employeeClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	request, err := svc.Submit(context.Background(), dto.SubmitApprovalRequest{
		RequestType: models.ApprovalTypeDepartmentChange,
		RequestData: []byte(`{"toDepartment":"Tax"}`),
	}, employeeClaims())
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusPending, request.Status)
	require.Equal(t, "user-1", request.UID)
	require.Equal(t, "111-22-33333", request.BizNum)
	require.Len(t, audit.logs, 1)
}

func TestApprovalServiceListScoping(t *testing.T) {
	repo := newApprovalRepoStub()
	svc := NewApprovalService(repo, newApprovalUsersStub(), &recordCreatorStub{}, nil, nil)

	_, err := svc.List(context.Background(), dto.ApprovalQuery{BizNum: "999-00-11111"}, adminClaims())
	require.NoError(t, err)
	require.Equal(t, "999-00-11111", repo.filter.BizNum)
	require.Empty(t, repo.filter.RequesterUID)

	_, err = svc.List(context.Background(), dto.ApprovalQuery{BizNum: "999-00-11111"}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, "111-22-33333", repo.filter.BizNum)

	_, err = svc.List(context.Background(), dto.ApprovalQuery{}, employeeClaims())
	require.NoError(t, err)
	require.Empty(t, repo.filter.BizNum)
	require.Equal(t, "user-1", repo.filter.RequesterUID)
}

func TestApprovalServiceApproveDepartmentChange(t *testing.T) {
	repo := newApprovalRepoStub()
	users := newApprovalUsersStub(&models.User{UID: "user-1", Role: models.RoleUser, BizNum: "111-22-33333"})
	repo.requests["ap-1"] = &models.ApprovalRequest{
		ID:          "ap-1",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypeDepartmentChange,
		RequestData: []byte(`{"toDepartment":"Tax"}`),
		Status:      models.ApprovalStatusPending,
	}
	svc := NewApprovalService(repo, users, &recordCreatorStub{}, nil, nil)

	require.NoError(t, svc.Approve(context.Background(), "ap-1", ownerClaims()))
	require.Equal(t, models.ApprovalStatusApproved, repo.requests["ap-1"].Status)
	require.Equal(t, "owner-1", *repo.requests["ap-1"].ApprovedBy)
	require.Equal(t, map[string]interface{}{"department": "Tax"}, users.updates["user-1"])
}

func TestApprovalServiceApproveAlreadyResolved(t *testing.T) {
	repo := newApprovalRepoStub()
	repo.requests["ap-1"] = &models.ApprovalRequest{
		ID:          "ap-1",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypeRoleChange,
		RequestData: []byte(`{"newRank":"manager"}`),
		Status:      models.ApprovalStatusRejected,
	}
	svc := NewApprovalService(repo, newApprovalUsersStub(), &recordCreatorStub{}, nil, nil)

	err := svc.Approve(context.Background(), "ap-1", ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrAlreadyResolved))
}

func TestApprovalServiceApproveLostRace(t *testing.T) {
	// The loaded snapshot still says Pending but the guarded update matches
	// no rows: a concurrent approver won.
	repo := &racingApprovalRepo{approvalRepoStub: newApprovalRepoStub()}
	repo.requests["ap-1"] = &models.ApprovalRequest{
		ID:          "ap-1",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypeDepartmentChange,
		RequestData: []byte(`{"toDepartment":"Tax"}`),
		Status:      models.ApprovalStatusPending,
	}
	svc := NewApprovalService(repo, newApprovalUsersStub(), &recordCreatorStub{}, nil, nil)

	err := svc.Approve(context.Background(), "ap-1", ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrAlreadyResolved))
}

type racingApprovalRepo struct {
	*approvalRepoStub
}

func (r *racingApprovalRepo) Resolve(ctx context.Context, params repository.ResolutionParams) error {
	return sql.ErrNoRows
}

func TestApprovalServiceApproveForbidden(t *testing.T) {
	repo := newApprovalRepoStub()
	repo.requests["ap-1"] = &models.ApprovalRequest{
		ID:          "ap-1",
		UID:         "user-9",
		BizNum:      "999-00-11111",
		RequestType: models.ApprovalTypeDepartmentChange,
		RequestData: []byte(`{"toDepartment":"Tax"}`),
		Status:      models.ApprovalStatusPending,
	}
	svc := NewApprovalService(repo, newApprovalUsersStub(), &recordCreatorStub{}, nil, nil)

	// Owner of a different company.
	err := svc.Approve(context.Background(), "ap-1", ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	// Subordinates never approve, not even their own requests.
	err = svc.Approve(context.Background(), "ap-1", &models.JWTClaims{UID: "user-9", Role: models.RoleUser, BizNum: "999-00-11111"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
	require.Equal(t, models.ApprovalStatusPending, repo.requests["ap-1"].Status)
}

func TestApprovalServiceApproveDispatchFailureKeepsStatus(t *testing.T) {
	repo := newApprovalRepoStub()
	users := newApprovalUsersStub(&models.User{UID: "user-1", Role: models.RoleUser, BizNum: "111-22-33333"})
	records := &recordCreatorStub{err: errors.New("record store down")}
	repo.requests["ap-1"] = &models.ApprovalRequest{
		ID:          "ap-1",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypeAdvisoryRequest,
		RequestData: []byte(`{"title":"Contract review","content":"please advise"}`),
		Status:      models.ApprovalStatusPending,
	}
	svc := NewApprovalService(repo, users, records, nil, nil)

	// A single approve reports success; the status change is durable even
	// though the record was never created.
	require.NoError(t, svc.Approve(context.Background(), "ap-1", ownerClaims()))
	require.Equal(t, models.ApprovalStatusApproved, repo.requests["ap-1"].Status)
	require.Empty(t, records.created)
}

func TestApprovalServiceApproveCreatesRecordForRequester(t *testing.T) {
	repo := newApprovalRepoStub()
	requester := &models.User{UID: "user-1", Role: models.RoleUser, BizNum: "111-22-33333", CompanyName: "Acme"}
	users := newApprovalUsersStub(requester)
	records := &recordCreatorStub{}
	repo.requests["ap-1"] = &models.ApprovalRequest{
		ID:          "ap-1",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypePhoneConsult,
		RequestData: []byte(`{"title":"Call me","content":"urgent"}`),
		Status:      models.ApprovalStatusPending,
	}
	svc := NewApprovalService(repo, users, records, nil, nil)

	require.NoError(t, svc.Approve(context.Background(), "ap-1", ownerClaims()))
	require.Len(t, records.created, 1)
	require.Equal(t, models.CategoryPhoneRequest, records.created[0].Category)
	require.Equal(t, "Call me", records.created[0].Title)
	require.Same(t, requester, records.authors[0])
}

func TestApprovalServiceApproveUnknownTypeIsNoop(t *testing.T) {
	repo := newApprovalRepoStub()
	repo.requests["ap-1"] = &models.ApprovalRequest{
		ID:          "ap-1",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalType("vacation-carryover"),
		RequestData: []byte(`{}`),
		Status:      models.ApprovalStatusPending,
	}
	svc := NewApprovalService(repo, newApprovalUsersStub(), &recordCreatorStub{}, nil, nil)

	require.NoError(t, svc.Approve(context.Background(), "ap-1", adminClaims()))
	require.Equal(t, models.ApprovalStatusApproved, repo.requests["ap-1"].Status)
}

func TestApprovalServiceRejectDefaultReason(t *testing.T) {
	repo := newApprovalRepoStub()
	repo.requests["ap-1"] = &models.ApprovalRequest{
		ID:          "ap-1",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypeDepartmentChange,
		RequestData: []byte(`{"toDepartment":"Tax"}`),
		Status:      models.ApprovalStatusPending,
	}
	svc := NewApprovalService(repo, newApprovalUsersStub(), &recordCreatorStub{}, nil, nil)

	require.NoError(t, svc.Reject(context.Background(), "ap-1", ownerClaims(), "   "))
	require.Equal(t, models.ApprovalStatusRejected, repo.requests["ap-1"].Status)
	require.Equal(t, models.DefaultRejectionReason, *repo.requests["ap-1"].RejectionReason)

	err := svc.Reject(context.Background(), "ap-1", ownerClaims(), "again")
	require.True(t, appErrors.HasCode(err, appErrors.ErrAlreadyResolved))
}

func TestApprovalServiceBulkApprovePartialFailure(t *testing.T) {
	repo := newApprovalRepoStub()
	users := newApprovalUsersStub(&models.User{UID: "user-1", Role: models.RoleUser, BizNum: "111-22-33333"})
	records := &recordCreatorStub{err: errors.New("record store down")}
	repo.requests["ap-ok"] = &models.ApprovalRequest{
		ID:          "ap-ok",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypeDepartmentChange,
		RequestData: []byte(`{"toDepartment":"Tax"}`),
		Status:      models.ApprovalStatusPending,
	}
	repo.requests["ap-dispatch"] = &models.ApprovalRequest{
		ID:          "ap-dispatch",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypeAdvisoryRequest,
		RequestData: []byte(`{"title":"x","content":"y"}`),
		Status:      models.ApprovalStatusPending,
	}
	svc := NewApprovalService(repo, users, records, nil, nil)

	result, err := svc.BulkApprove(context.Background(), []string{"ap-ok", "ap-missing", "ap-dispatch"}, ownerClaims())
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessCount)
	require.Equal(t, 2, result.FailCount)
	require.Len(t, result.Errors, 2)

	codes := map[string]string{}
	for _, item := range result.Errors {
		codes[item.ID] = item.Code
	}
	require.Equal(t, appErrors.ErrNotFound.Code, codes["ap-missing"])
	require.Equal(t, appErrors.ErrDispatchFailed.Code, codes["ap-dispatch"])

	// The dispatch failure still approved the request durably.
	require.Equal(t, models.ApprovalStatusApproved, repo.requests["ap-dispatch"].Status)

	_, err = svc.BulkApprove(context.Background(), nil, ownerClaims())
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestApprovalServiceDeleteAuthz(t *testing.T) {
	repo := newApprovalRepoStub()
	repo.requests["ap-1"] = &models.ApprovalRequest{
		ID:          "ap-1",
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypeDepartmentChange,
		RequestData: []byte(`{"toDepartment":"Tax"}`),
		Status:      models.ApprovalStatusPending,
	}
	svc := NewApprovalService(repo, newApprovalUsersStub(), &recordCreatorStub{}, nil, nil)

	err := svc.Delete(context.Background(), "ap-1", &models.JWTClaims{UID: "user-2", Role: models.RoleUser, BizNum: "111-22-33333"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	require.NoError(t, svc.Delete(context.Background(), "ap-1", employeeClaims()))
	require.Empty(t, repo.requests)
}
