package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
)

func newApprovalRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestApprovalRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newApprovalRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO approval_requests")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	request := &models.ApprovalRequest{
		UID:         "user-1",
		BizNum:      "111-22-33333",
		RequestType: models.ApprovalTypeDepartmentChange,
		RequestData: []byte(`{"department":"Litigation"}`),
	}
	require.NoError(t, repo.Create(context.Background(), request))
	require.NotEmpty(t, request.ID)
	require.Equal(t, models.ApprovalStatusPending, request.Status)

	rows := sqlmock.NewRows([]string{"id", "uid", "biz_num", "request_type", "request_data", "status", "approved_by", "approved_at", "rejection_reason", "created_at"}).
		AddRow(request.ID, "user-1", "111-22-33333", "department-change", []byte(`{"department":"Litigation"}`), "Pending", nil, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT ar.id, ar.uid, ar.biz_num, ar.request_type")).
		WithArgs(request.ID).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	require.Equal(t, request.ID, found.ID)
	require.Equal(t, models.ApprovalTypeDepartmentChange, found.RequestType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newApprovalRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)
	rows := sqlmock.NewRows([]string{"id", "uid", "biz_num", "request_type", "request_data", "status", "approved_by", "approved_at", "rejection_reason", "created_at", "requester_name", "requester_email", "requester_department", "approver_name"}).
		AddRow("ap-1", "user-1", "111-22-33333", "role-change", []byte(`{}`), "Pending", nil, nil, nil, time.Now(), "Kim", "kim@firm.test", "Litigation", nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT ar.id, ar.uid, ar.biz_num, ar.request_type")).
		WithArgs("Pending", "111-22-33333").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.ApprovalFilter{
		Status: models.ApprovalStatusPending,
		BizNum: "111-22-33333",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "ap-1", list[0].ID)
	require.Equal(t, "Kim", list[0].RequesterName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryResolve(t *testing.T) {
	db, mock, cleanup := newApprovalRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)
	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE approval_requests")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.Resolve(context.Background(), ResolutionParams{
		ID:         "ap-1",
		Status:     models.ApprovalStatusApproved,
		ApprovedBy: "owner-1",
		ApprovedAt: now,
	})
	require.NoError(t, err)

	// Second resolver loses the race: the status guard matches no rows.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE approval_requests")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.Resolve(context.Background(), ResolutionParams{
		ID:         "ap-1",
		Status:     models.ApprovalStatusRejected,
		ApprovedBy: "owner-2",
		ApprovedAt: now,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newApprovalRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM approval_requests WHERE id = $1")).
		WithArgs("ap-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "ap-1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM approval_requests WHERE id = $1")).
		WithArgs("ap-404").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "ap-404"), sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
