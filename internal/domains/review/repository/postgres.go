package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	bookModel "booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/review/model"
	"booka-backend/pkg/database"
)

type postgresRepository struct {
	db database.Pool
}

// NewPostgresRepository needs a Pool because plain upserts open their own transaction
func NewPostgresRepository(db database.Pool) ReviewRepository {
	return &postgresRepository{db: db}
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) GetByUserAndBook(ctx context.Context, userID, bookID int64) (*model.Review, error) {
	query := `
		SELECT rv.id, rv.user_id, rv.book_id, rv.read_state, rv.score, rv.content,
			rv.created_at, rv.updated_at, u.nickname, u.is_original
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.user_id = $1 AND rv.book_id = $2
	`

	rv, err := scanReview(r.db.QueryRow(ctx, query, userID, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (r *postgresRepository) ListWithContent(ctx context.Context, bookID int64, offset, limit int) ([]*model.Review, error) {
	query := `
		SELECT rv.id, rv.user_id, rv.book_id, rv.read_state, rv.score, rv.content,
			rv.created_at, rv.updated_at, u.nickname, u.is_original
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.book_id = $1 AND rv.content <> ''
		ORDER BY rv.created_at DESC, rv.id DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, bookID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*model.Review, 0, limit)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

func (r *postgresRepository) ReadBookIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	rows, err := r.db.Query(ctx, `SELECT book_id FROM reviews WHERE user_id = $1 AND read_state = $2`, userID, model.StateRead)
	if err != nil {
		return nil, fmt.Errorf("list read books: %w", err)
	}
	defer rows.Close()

	read := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan read book: %w", err)
		}
		read[id] = struct{}{}
	}
	return read, rows.Err()
}

func (r *postgresRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

// ========================================
// WRITES
// ========================================

func (r *postgresRepository) Upsert(ctx context.Context, review *model.Review) (bool, error) {
	return database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (bool, error) {
		return r.UpsertWithTx(ctx, tx, review)
	})
}

func (r *postgresRepository) UpsertWithTx(ctx context.Context, tx pgx.Tx, review *model.Review) (bool, error) {
	query := `
		INSERT INTO reviews (user_id, book_id, read_state, score, content)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, book_id) DO UPDATE
		SET read_state = EXCLUDED.read_state,
			score = EXCLUDED.score,
			content = EXCLUDED.content,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRow(ctx, query,
		review.UserID,
		review.BookID,
		review.ReadState,
		model.NormalizeScore(review.ReadState, review.Score),
		review.Content,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt, &inserted)
	if err != nil {
		return false, mapWriteError(err)
	}

	review.Score = model.NormalizeScore(review.ReadState, review.Score)
	if inserted {
		if err := bumpReviewCount(ctx, tx, review.BookID); err != nil {
			return false, err
		}
	}
	return inserted, nil
}

func (r *postgresRepository) MarkReadWithTx(ctx context.Context, tx pgx.Tx, userID, bookID int64) error {
	query := `
		INSERT INTO reviews (user_id, book_id, read_state, score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, book_id) DO UPDATE
		SET read_state = EXCLUDED.read_state,
			score = EXCLUDED.score,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	if err := tx.QueryRow(ctx, query, userID, bookID, model.StateRead, model.OnboardingScore).Scan(&inserted); err != nil {
		return mapWriteError(err)
	}
	if inserted {
		return bumpReviewCount(ctx, tx, bookID)
	}
	return nil
}

func bumpReviewCount(ctx context.Context, tx pgx.Tx, bookID int64) error {
	if _, err := tx.Exec(ctx, `UPDATE books SET review_count = review_count + 1 WHERE id = $1`, bookID); err != nil {
		return fmt.Errorf("bump review count: %w", err)
	}
	return nil
}

func mapWriteError(err error) error {
	if database.IsForeignKeyViolation(err, "reviews_book_id_fkey") {
		return bookModel.ErrBookNotFound
	}
	return fmt.Errorf("upsert review: %w", err)
}

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ID,
		&rv.UserID,
		&rv.BookID,
		&rv.ReadState,
		&rv.Score,
		&rv.Content,
		&rv.CreatedAt,
		&rv.UpdatedAt,
		&rv.AuthorNickname,
		&rv.AuthorIsOriginal,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}
