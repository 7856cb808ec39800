package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinearc/cinearc-api/internal/utils"
)

func TestUserCreateNormalizesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice@example.com", sqlmock.AnyArg(), "Alice", "Doe", false).
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := repo.Create(context.Background(), "  Alice@Example.COM ", "hunter22pass", "Alice", "Doe", false, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(assert.AnError)

	_, err = repo.Create(context.Background(), "a@b.c", "hunter22pass", "", "", false, 4)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062: Duplicate entry 'a@b.c' for key 'users.email'"))

	_, err = repo.Create(context.Background(), "a@b.c", "hunter22pass", "", "", false, 4)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateHashesPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewUserRepo(db)

	var storedHash string
	mock.ExpectExec("INSERT INTO users").
		WithArgs("a@b.c", hashCapture(&storedHash), "", "", false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err = repo.Create(context.Background(), "a@b.c", "plain-password", "", "", false, 4)
	require.NoError(t, err)
	assert.NotEqual(t, "plain-password", storedHash)
	assert.True(t, utils.VerifyPassword(storedHash, "plain-password"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// hashCapture matches any string argument and records it for inspection.
type hashCaptureArg struct{ dst *string }

func hashCapture(dst *string) sqlmock.Argument { return hashCaptureArg{dst: dst} }

func (a hashCaptureArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if ok {
		*a.dst = s
	}
	return ok
}
