package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookModel "booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/review/model"
)

var reviewCols = []string{"id", "user_id", "book_id", "read_state", "score", "content", "created_at", "updated_at", "nickname", "is_original"}

func newDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUpsert_InsertBumpsReviewCount(t *testing.T) {
	mock := newDB(t)
	repo := NewPostgresRepository(mock)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO reviews .+ ON CONFLICT \(user_id, book_id\) DO UPDATE`).
		WithArgs(int64(1), int64(42), model.StateWantToRead, 0, "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).AddRow(int64(5), now, now, true))
	mock.ExpectExec(`UPDATE books SET review_count = review_count \+ 1`).
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	rv := &model.Review{UserID: 1, BookID: 42, ReadState: model.StateWantToRead, Score: 9}
	created, err := repo.Upsert(context.Background(), rv)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 0, rv.Score)
	assert.Equal(t, int64(5), rv.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_UpdateKeepsReviewCount(t *testing.T) {
	mock := newDB(t)
	repo := NewPostgresRepository(mock)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(int64(1), int64(42), model.StateRead, 7, "great").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).AddRow(int64(5), now, now, false))
	mock.ExpectCommit()

	rv := &model.Review{UserID: 1, BookID: 42, ReadState: model.StateRead, Score: 7, Content: "great"}
	created, err := repo.Upsert(context.Background(), rv)
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_MissingBook(t *testing.T) {
	mock := newDB(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(int64(1), int64(404), model.StateRead, 3, "").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "reviews_book_id_fkey"})
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), &model.Review{UserID: 1, BookID: 404, ReadState: model.StateRead, Score: 3})
	require.ErrorIs(t, err, bookModel.ErrBookNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadWithTx(t *testing.T) {
	mock := newDB(t)
	repo := NewPostgresRepository(mock)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO reviews \(user_id, book_id, read_state, score\)`).
		WithArgs(int64(1), int64(8), model.StateRead, model.OnboardingScore).
		WillReturnRows(pgxmock.NewRows([]string{"inserted"}).AddRow(false))

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.MarkReadWithTx(ctx, tx, 1, 8))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUserAndBook(t *testing.T) {
	mock := newDB(t)
	repo := NewPostgresRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`WHERE rv.user_id = \$1 AND rv.book_id = \$2`).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow(int64(5), int64(1), int64(42), model.StateWantToRead, 0, "", now, now, "Alice", true))

	rv, err := repo.GetByUserAndBook(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StateWantToRead, rv.ReadState)
	assert.Equal(t, "Alice", rv.AuthorNickname)

	mock.ExpectQuery(`WHERE rv.user_id = \$1 AND rv.book_id = \$2`).
		WithArgs(int64(1), int64(43)).
		WillReturnRows(pgxmock.NewRows(reviewCols))

	_, err = repo.GetByUserAndBook(context.Background(), 1, 43)
	require.ErrorIs(t, err, model.ErrReviewNotFound)
}

func TestListWithContent(t *testing.T) {
	mock := newDB(t)
	repo := NewPostgresRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`rv.content <> ''\s+ORDER BY rv.created_at DESC, rv.id DESC`).
		WithArgs(int64(42), 3, 3).
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(int64(9), int64(2), int64(42), model.StateRead, 8, "loved it", now, now, "bob", false))

	reviews, err := repo.ListWithContent(context.Background(), 42, 3, 3)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.False(t, reviews[0].AuthorIsOriginal)
}

func TestReadBookIDsAndCount(t *testing.T) {
	mock := newDB(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(`SELECT book_id FROM reviews WHERE user_id = \$1 AND read_state = \$2`).
		WithArgs(int64(1), model.StateRead).
		WillReturnRows(pgxmock.NewRows([]string{"book_id"}).AddRow(int64(3)).AddRow(int64(4)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reviews WHERE user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	read, err := repo.ReadBookIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, read, int64(3))
	assert.Len(t, read, 2)

	count, err := repo.CountByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
