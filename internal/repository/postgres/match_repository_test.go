package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func expectMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

var matchRowColumns = []string{
	"id", "profile_id", "matched_profile_id", "is_accepted", "is_rejected",
	"matched_at", "compatibility", "created_at", "updated_at", "retired_at",
}

func TestMatchCreateInsertsWhenPairIsFree(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)
	m := &domain.Match{ProfileID: uuid.New(), MatchedProfileID: uuid.New(), IsAccepted: true, CreatedAt: time.Now()}

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(pairLockKey(m.ProfileID, m.MatchedProfileID)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(m.ProfileID.String(), m.MatchedProfileID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO matches`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Fatalf("expected an id to be assigned")
	}
	expectMet(t, mock)
}

func TestMatchCreateRejectsExistingPair(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)
	m := &domain.Match{ProfileID: uuid.New(), MatchedProfileID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), m)
	if !errors.Is(err, domain.ErrMatchAlreadyExists) {
		t.Fatalf("expected ErrMatchAlreadyExists, got %v", err)
	}
	expectMet(t, mock)
}

func TestMatchGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`FROM matches WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), id); !errors.Is(err, domain.ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestMatchGetForProfileScansRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)
	me, other := uuid.New(), uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(matchRowColumns).
		AddRow(uuid.NewString(), me.String(), other.String(), true, false, now, 64, now, nil, nil)
	mock.ExpectQuery(`FROM matches`).
		WithArgs(me.String(), true).
		WillReturnRows(rows)

	accepted := true
	matches, err := repo.GetForProfile(context.Background(), me, &accepted)
	if err != nil {
		t.Fatalf("GetForProfile: %v", err)
	}
	if len(matches) != 1 || matches[0].MatchedProfileID != other || matches[0].Compatibility != 64 {
		t.Fatalf("unexpected matches %+v", matches)
	}
	if matches[0].MatchedAt == nil || matches[0].UpdatedAt != nil {
		t.Fatalf("nullable timestamps scanned incorrectly: %+v", matches[0])
	}
	expectMet(t, mock)
}

func TestMatchUpdateMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)

	mock.ExpectExec(`UPDATE matches`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Match{ID: uuid.New()})
	if !errors.Is(err, domain.ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestPairLockKeyIsSymmetric(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	if pairLockKey(a, b) != pairLockKey(b, a) {
		t.Fatalf("lock key depends on argument order")
	}
	if pairLockKey(a, b) == pairLockKey(a, uuid.New()) {
		t.Fatalf("distinct pairs share a lock key")
	}
}
