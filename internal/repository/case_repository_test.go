package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
)

func newCaseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func caseRows(docID string, kind models.CaseKind) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "doc_id", "biz_num", "kind", "client_name", "case_name", "case_number", "court",
		"debtor_name", "creditor_name", "amount", "phone", "address",
		"status", "description", "created_by", "created_at", "updated_at",
	}).AddRow(1, docID, "111-22-33333", string(kind), "Acme Trading", "Acme v. Hong", "2026가단12345", "Seoul Central District Court",
		"", "", 80000000, "", "",
		"intake", "", "owner-1", time.Now(), time.Now())
}

func TestCaseRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newCaseRepoMock(t)
	defer cleanup()

	repo := NewCaseRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cases")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	matter := &models.Case{
		BizNum:     "111-22-33333",
		Kind:       models.CaseKindLitigation,
		ClientName: "Acme Trading",
		CaseName:   "Acme v. Hong",
		CaseNumber: "2026가단12345",
	}
	require.NoError(t, repo.Create(context.Background(), matter))
	require.NotEmpty(t, matter.DocID)
	require.Equal(t, models.CaseStatusIntake, matter.Status)
	require.False(t, matter.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepositoryListSearchCoversLitigation(t *testing.T) {
	db, mock, cleanup := newCaseRepoMock(t)
	defer cleanup()

	repo := NewCaseRepository(db)
	// Search matches docket numbers and client names, not only debtors.
	mock.ExpectQuery(`SELECT id, doc_id, biz_num, kind(?s).*LOWER\(client_name\) LIKE \$3 OR LOWER\(case_name\) LIKE \$3 OR LOWER\(case_number\) LIKE \$3`).
		WithArgs("111-22-33333", "litigation", "%2026가단%").
		WillReturnRows(caseRows("case-1", models.CaseKindLitigation))

	cases, err := repo.List(context.Background(), models.CaseFilter{
		BizNum: "111-22-33333",
		Kind:   models.CaseKindLitigation,
		Search: "2026가단",
	})
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, "2026가단12345", cases[0].CaseNumber)
	require.Equal(t, "Acme Trading", cases[0].ClientName)
	require.NoError(t, mock.ExpectationsWereMet())
}
