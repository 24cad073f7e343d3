package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_Insert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "likes" ("user_id","post_id") VALUES ($1,$2) RETURNING "id"`)).
		WithArgs(int64(7), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Insert(context.Background(), 7, 5))
}

func TestLikeRepository_Insert_DuplicateIsPlainError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	dup := &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "likes_user_id_post_id_key"`}
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "likes"`)).WillReturnError(dup)
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), 7, 5)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUniqueViolation))
}

func TestLikeRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
	}{
		{"existing like", 1},
		{"no like present", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewLikeRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
				WithArgs(int64(7), int64(5)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			affected, err := repo.Delete(context.Background(), 7, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.affected, affected)
		})
	}
}
