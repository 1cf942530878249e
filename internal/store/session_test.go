package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jjudge-oj/usersvc/types"
)

const (
	selectSessionQuery = `(?s)^\s*SELECT\s+id,\s*user_id,\s*expires_at\s+FROM\s+user_sessions\s+WHERE\s+id\s*=\s*\$1\s*$`
	insertSessionQuery = `(?s)^\s*INSERT\s+INTO\s+user_sessions\s*\(id,\s*user_id,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	deleteSessionQuery = `^DELETE FROM user_sessions WHERE id = \$1$`
)

func TestSessionRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	expires := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(selectSessionQuery).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at"}).AddRow("s-1", "u-1", expires))

	got, err := repo.GetByID(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	want := types.Session{ID: "s-1", UserID: "u-1", ExpiresAt: expires}
	if got != want {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(selectSessionQuery).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	expires := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(insertSessionQuery).
		WithArgs("s-1", "u-1", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	in := types.Session{ID: "s-1", UserID: "u-1", ExpiresAt: expires}
	got, err := repo.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got != in {
		t.Fatalf("expected session to be returned verbatim, got %+v", got)
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectExec(deleteSessionQuery).
		WithArgs("s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "s-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestSessionRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectExec(deleteSessionQuery).
		WithArgs("s-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "s-9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
