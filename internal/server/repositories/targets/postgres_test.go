package targets

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const breakdownJSON = `[{"name":"Backend","children":[{"name":"API"}]}]`

func TestCreate_MarshalsBreakdown(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+billing_targets`).
		WithArgs("t1", "project", "Apollo", "", true, []byte(breakdownJSON)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	target := &models.BillingTarget{
		ID: "t1", Category: "project", Name: "Apollo", IsBillable: true,
		Breakdown: []models.BreakdownNode{
			{Name: "Backend", Children: []models.BreakdownNode{{Name: "API"}}},
		},
	}
	if err := repo.Create(context.Background(), target); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGet_UnmarshalsBreakdown(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "category", "name", "description", "is_billable", "breakdown", "created_at"}).
		AddRow("t1", "project", "Apollo", "", true, []byte(breakdownJSON), time.Now())
	mock.ExpectQuery(`SELECT\s+.*FROM\s+billing_targets\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("t1").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(got.Breakdown) != 1 || got.Breakdown[0].Name != "Backend" {
		t.Fatalf("breakdown not unmarshaled: %+v", got.Breakdown)
	}
	if len(got.Breakdown[0].Children) != 1 || got.Breakdown[0].Children[0].Name != "API" {
		t.Fatalf("nested breakdown lost: %+v", got.Breakdown)
	}
}

func TestGetByCategoryAndName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+billing_targets\s+WHERE\s+category\s*=\s*\$1\s+AND\s+name\s*=\s*\$2`).
		WithArgs("project", "Ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByCategoryAndName(context.Background(), "project", "Ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("err = %v, want ErrorNotFound", err)
	}
}

func TestListByIDs_Empty(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	got, err := repo.ListByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no query for empty id list, got %+v", got)
	}
}
