package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, title, author, isbn, open_library_id, google_books_id, goodreads_id,
	published_year, publisher, page_count, user_rating, reading_status, date_read, shelves,
	author_gender, author_cultural_region, genre, language_code, source, created_at, updated_at`

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// Upsert matches an existing record by ISBN when the book carries one,
// otherwise by case-insensitive title+author among ISBN-less rows; it
// never merges identifiers across duplicate rows.
func (r *PostgresRepo) Upsert(ctx context.Context, b *Book) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var id string
	if b.ISBN != nil {
		err = tx.QueryRow(ctx, `SELECT id FROM books WHERE isbn = $1`, *b.ISBN).Scan(&id)
	} else {
		err = tx.QueryRow(ctx,
			`SELECT id FROM books WHERE isbn IS NULL AND lower(title) = lower($1) AND lower(author) = lower($2)`,
			b.Title, b.Author).Scan(&id)
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		const insertSQL = `
			INSERT INTO books (title, author, isbn, open_library_id, google_books_id, goodreads_id,
				published_year, publisher, page_count, user_rating, reading_status, date_read, shelves,
				author_gender, author_cultural_region, genre, language_code, source)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			RETURNING id`
		if err := tx.QueryRow(ctx, insertSQL,
			b.Title, b.Author, b.ISBN, b.OpenLibraryID, b.GoogleBooksID, b.GoodreadsID,
			b.PublishedYear, b.Publisher, b.PageCount, b.UserRating, b.ReadingStatus, b.DateRead, b.Shelves,
			b.AuthorGender, b.AuthorCulturalRegion, b.Genre, b.LanguageCode, b.Source,
		).Scan(&id); err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
	case err != nil:
		return err
	default:
		const updateSQL = `
			UPDATE books SET
				title = $2, author = $3, open_library_id = $4, google_books_id = $5, goodreads_id = $6,
				published_year = $7, publisher = $8, page_count = $9, user_rating = $10,
				reading_status = $11, date_read = $12, shelves = $13,
				author_gender = $14, author_cultural_region = $15, genre = $16, language_code = $17,
				source = $18, updated_at = now()
			WHERE id = $1`
		if _, err := tx.Exec(ctx, updateSQL,
			id, b.Title, b.Author, b.OpenLibraryID, b.GoogleBooksID, b.GoodreadsID,
			b.PublishedYear, b.Publisher, b.PageCount, b.UserRating,
			b.ReadingStatus, b.DateRead, b.Shelves,
			b.AuthorGender, b.AuthorCulturalRegion, b.Genre, b.LanguageCode, b.Source,
		); err != nil {
			return fmt.Errorf("update book: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("genre = $%d", argn))
		args = append(args, q.Genre)
		argn++
	}
	if q.Status != "" {
		clauses = append(clauses, fmt.Sprintf("reading_status = $%d", argn))
		args = append(args, q.Status)
		argn++
	}
	if q.Language != "" {
		clauses = append(clauses, fmt.Sprintf("language_code = $%d", argn))
		args = append(args, q.Language)
		argn++
	}
	if q.Author != "" {
		clauses = append(clauses, fmt.Sprintf("lower(author) = lower($%d)", argn))
		args = append(args, q.Author)
		argn++
	}
	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d OR publisher ILIKE $%d)", argn, argn+1, argn+2))
		pattern := "%" + q.Q + "%"
		args = append(args, pattern, pattern, pattern)
		argn += 3
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := "SELECT COUNT(*) FROM books " + where
	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL := fmt.Sprintf("SELECT %s FROM books %s ORDER BY title LIMIT $%d OFFSET $%d",
		bookColumns, where, argn, argn+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM books WHERE isbn = $1", bookColumns), isbn)
	b, err := scanBook(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	return b, err
}

func (r *PostgresRepo) ListMissingMetadata(ctx context.Context, limit int) ([]Book, error) {
	sql := fmt.Sprintf(`SELECT %s FROM books
		WHERE isbn IS NOT NULL
		AND (publisher IS NULL OR page_count IS NULL OR published_year IS NULL)
		ORDER BY created_at
		LIMIT $1`, bookColumns)

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *PostgresRepo) UpdateMetadata(ctx context.Context, b *Book) error {
	const sql = `
		UPDATE books SET publisher = $2, page_count = $3, published_year = $4, updated_at = now()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, sql, b.ID, b.Publisher, b.PageCount, b.PublishedYear)
	return err
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.OpenLibraryID, &b.GoogleBooksID, &b.GoodreadsID,
		&b.PublishedYear, &b.Publisher, &b.PageCount, &b.UserRating, &b.ReadingStatus, &b.DateRead, &b.Shelves,
		&b.AuthorGender, &b.AuthorCulturalRegion, &b.Genre, &b.LanguageCode, &b.Source, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}
