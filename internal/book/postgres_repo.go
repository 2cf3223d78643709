package book

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const bookColumns = `id, title, author, cover_image_url, page_count, publisher, synopsis`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.CoverImageURL, &b.PageCount, &b.Publisher, &b.Synopsis)
	return b, err
}

func (r *PostgresRepo) ReadByID(ctx context.Context, id string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) ReadManyByID(ctx context.Context, ids []string) ([]Book, error) {
	if len(ids) == 0 {
		return []Book{}, nil
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, `SELECT `+bookColumns+` FROM books WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func (r *PostgresRepo) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	pattern := "%" + query + "%"
	rows, err := r.db.Query(timeoutCtx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE title ILIKE $1 OR author ILIKE $1
		ORDER BY title
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

// Insert adds books in one batch. Rows whose id already exists are left
// untouched; the count of newly inserted rows is returned.
func (r *PostgresRepo) Insert(ctx context.Context, books []Book) (int, error) {
	const sql = `
		INSERT INTO books (id, title, author, cover_image_url, page_count, publisher, synopsis)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, b := range books {
		batch.Queue(sql, b.ID, b.Title, b.Author, b.CoverImageURL, b.PageCount, b.Publisher, b.Synopsis)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	results := r.db.SendBatch(timeoutCtx, batch)
	defer results.Close()

	inserted := 0
	for range books {
		tag, err := results.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func collectBooks(rows pgx.Rows) ([]Book, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
