package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"booka-backend/internal/domains/book/model"
	"booka-backend/internal/shared/utils"
	"booka-backend/pkg/database"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) RepositoryInterface {
	return &postgresRepository{db: db}
}

const bookColumns = `
	b.id, b.image, b.title, b.subtitle, b.isbn, b.author, b.publisher, b.pubdate,
	b.genre, b.intro, b.description, b.description_publisher, b.description_index,
	b.category, b.kdc, b.review_count,
	ARRAY(
		SELECT k.keyword FROM book_keywords bk
		JOIN keywords k ON k.id = bk.keyword_id
		WHERE bk.book_id = b.id
		ORDER BY k.keyword
	) AS keywords`

// ========================================
// LOOKUP
// ========================================

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b WHERE b.id = $1`

	b, err := scanBook(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Book, error) {
	found := make(map[int64]*model.Book, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT ` + bookColumns + ` FROM books b WHERE b.id = ANY($1)`
	books, err := r.queryBooks(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get books by ids: %w", err)
	}
	for _, b := range books {
		found[b.ID] = b
	}
	return found, nil
}

// ========================================
// SEARCH
// ========================================

func (r *postgresRepository) SearchByKeyword(ctx context.Context, keyword string, offset, limit int) ([]*model.Book, int, error) {
	const match = `
		EXISTS (
			SELECT 1 FROM book_keywords bk
			JOIN keywords k ON k.id = bk.keyword_id
			WHERE bk.book_id = b.id AND k.keyword = $1
		)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books b WHERE`+match, keyword).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count keyword matches: %w", err)
	}

	query := `SELECT ` + bookColumns + ` FROM books b WHERE` + match + `
		ORDER BY b.review_count DESC, b.id ASC
		OFFSET $2 LIMIT $3`
	books, err := r.queryBooks(ctx, query, keyword, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("search by keyword: %w", err)
	}
	return books, total, nil
}

func (r *postgresRepository) SearchByText(ctx context.Context, text string, offset, limit int) ([]*model.Book, int, error) {
	pattern := utils.ContainsPattern(text)
	const match = ` (b.title ILIKE $1 ESCAPE '\' OR b.author ILIKE $1 ESCAPE '\')`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books b WHERE`+match, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count text matches: %w", err)
	}

	// a book matching both fields stays in the title group and appears once
	query := `SELECT ` + bookColumns + ` FROM books b WHERE` + match + `
		ORDER BY CASE WHEN b.title ILIKE $1 ESCAPE '\' THEN 0 ELSE 1 END,
			b.review_count DESC, b.id ASC
		OFFSET $2 LIMIT $3`
	books, err := r.queryBooks(ctx, query, pattern, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("search by text: %w", err)
	}
	return books, total, nil
}

// ========================================
// LISTS
// ========================================

func (r *postgresRepository) ListPopular(ctx context.Context, limit int) ([]*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b
		ORDER BY b.review_count DESC, b.id ASC
		LIMIT $1`
	books, err := r.queryBooks(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular books: %w", err)
	}
	return books, nil
}

func (r *postgresRepository) ListReviewedBy(ctx context.Context, userIDs []int64, limit int) ([]*model.Book, error) {
	if len(userIDs) == 0 {
		return []*model.Book{}, nil
	}

	query := `SELECT ` + bookColumns + ` FROM books b
		WHERE EXISTS (SELECT 1 FROM reviews rv WHERE rv.book_id = b.id AND rv.user_id = ANY($1))
		ORDER BY b.review_count DESC, b.id ASC
		LIMIT $2`
	books, err := r.queryBooks(ctx, query, userIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("list books reviewed by users: %w", err)
	}
	return books, nil
}

// ========================================
// SCANNING
// ========================================

func (r *postgresRepository) queryBooks(ctx context.Context, query string, args ...interface{}) ([]*model.Book, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]*model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Image,
		&b.Title,
		&b.Subtitle,
		&b.ISBN,
		&b.Author,
		&b.Publisher,
		&b.Pubdate,
		&b.Genre,
		&b.Intro,
		&b.Description,
		&b.DescriptionPublisher,
		&b.DescriptionIndex,
		&b.Category,
		&b.KDC,
		&b.ReviewCount,
		&b.Keywords,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
