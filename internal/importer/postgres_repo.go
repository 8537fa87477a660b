package importer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRunNotFound is returned when an import run id is unknown.
var ErrRunNotFound = errors.New("import run not found")

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (string, error) {
	const sql = `
		INSERT INTO import_runs (source, status, ruleset_version, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id string
	err := r.db.QueryRow(ctx, sql, run.Source, run.Status, run.RulesetVersion, run.StartedAt).Scan(&id)
	return id, err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE import_runs SET
			finished_at = $1,
			status = $2,
			rows_seen = $3,
			rows_emitted = $4,
			rows_skipped = $5,
			classifier_errors = $6,
			books_upserted = $7,
			error = $8
		WHERE id = $9`

	_, err := r.db.Exec(ctx, sql, run.FinishedAt, run.Status, run.RowsSeen, run.RowsEmitted,
		run.RowsSkipped, run.ClassifierErrors, run.BooksUpserted, run.Error, run.ID)
	return err
}

func (r *PostgresRepo) GetRun(ctx context.Context, id string) (Run, error) {
	const sql = `
		SELECT id, source, status, ruleset_version, started_at, finished_at,
			rows_seen, rows_emitted, rows_skipped, classifier_errors, books_upserted, error
		FROM import_runs
		WHERE id = $1`

	var run Run
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&run.ID, &run.Source, &run.Status, &run.RulesetVersion, &run.StartedAt, &run.FinishedAt,
		&run.RowsSeen, &run.RowsEmitted, &run.RowsSkipped, &run.ClassifierErrors, &run.BooksUpserted, &run.Error,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}
