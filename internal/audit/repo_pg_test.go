package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoListSortsByAction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT id, actor, action, details, created_at FROM audit_logs ORDER BY action ASC`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor", "action", "details", "created_at"}).
			AddRow(int64(2), "ops", "CREDITS_RECHARGED", nil, now).
			AddRow(int64(1), "ops", "JOB_CREATED", nil, now))

	events, total, err := repo.List(context.Background(), ListQuery{SortBy: "action", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(events) != 2 {
		t.Fatalf("expected 2 events, got total=%d len=%d", total, len(events))
	}
	if events[0].Action != ActionCreditsRecharged {
		t.Fatalf("expected CREDITS_RECHARGED first, got %v", events[0].Action)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListRejectsUnknownSortColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// Anything outside the whitelist falls back to created_at.
	mock.ExpectQuery(`FROM audit_logs ORDER BY created_at DESC`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor", "action", "details", "created_at"}))

	if _, _, err := repo.List(context.Background(), ListQuery{SortBy: "details; DROP TABLE audit_logs"}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
