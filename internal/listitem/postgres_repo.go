package listitem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	bookForeignKey      = "list_items_book_id_fkey"
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

const itemColumns = `id, owner_id, book_id, rating, notes, start_date, finish_date`

func scanItem(row pgx.Row) (ListItem, error) {
	var item ListItem
	err := row.Scan(&item.ID, &item.OwnerID, &item.BookID, &item.Rating, &item.Notes, &item.StartDate, &item.FinishDate)
	return item, err
}

func (r *PostgresRepo) Query(ctx context.Context, f Filter) ([]ListItem, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if f.OwnerID != "" {
		clauses = append(clauses, fmt.Sprintf("owner_id = $%d", argn))
		args = append(args, f.OwnerID)
		argn++
	}
	if f.BookID != "" {
		clauses = append(clauses, fmt.Sprintf("book_id = $%d", argn))
		args = append(args, f.BookID)
	}

	sql := `SELECT ` + itemColumns + ` FROM list_items WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY created_at, id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ListItem, error) {
		return scanItem(row)
	})
}

func (r *PostgresRepo) ReadByID(ctx context.Context, id string) (ListItem, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	item, err := scanItem(r.db.QueryRow(timeoutCtx, `SELECT `+itemColumns+` FROM list_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ListItem{}, ErrNotFound
		}
		return ListItem{}, err
	}
	return item, nil
}

func (r *PostgresRepo) Create(ctx context.Context, item ListItem) (ListItem, error) {
	const sql = `
		INSERT INTO list_items (owner_id, book_id, rating, notes, start_date, finish_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + itemColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	created, err := scanItem(r.db.QueryRow(timeoutCtx, sql,
		item.OwnerID, item.BookID, item.Rating, item.Notes, item.StartDate, item.FinishDate))
	if err != nil {
		return ListItem{}, translateWriteError(err)
	}
	return created, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id string, u Updates) (ListItem, error) {
	if u.Empty() {
		return r.ReadByID(ctx, id)
	}

	fields := []string{}
	args := []any{}
	argn := 1
	set := func(column string, value any) {
		fields = append(fields, fmt.Sprintf("%s = $%d", column, argn))
		args = append(args, value)
		argn++
	}
	if u.Notes != nil {
		set("notes", *u.Notes)
	}
	if u.Rating != nil {
		set("rating", *u.Rating)
	}
	if u.StartDate != nil {
		set("start_date", *u.StartDate)
	}
	if u.FinishDate != nil {
		set("finish_date", *u.FinishDate)
	}
	args = append(args, id)

	sql := fmt.Sprintf(`UPDATE list_items SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(fields, ", "), argn, itemColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	updated, err := scanItem(r.db.QueryRow(timeoutCtx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ListItem{}, ErrNotFound
		}
		return ListItem{}, err
	}
	return updated, nil
}

func (r *PostgresRepo) Remove(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM list_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == uniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	case pgErr.Code == foreignKeyViolation && pgErr.ConstraintName == bookForeignKey:
		return ErrBookNotFound
	default:
		return err
	}
}
