package importer

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/library"
	"github.com/jukasdrj/bookstrack-backend-sub006/internal/normalize"
)

// BookStore is the storage surface the importer writes normalized
// records through.
type BookStore interface {
	Upsert(ctx context.Context, b *library.Book) error
}

// Repository persists import-run bookkeeping.
type Repository interface {
	CreateRun(ctx context.Context, run *Run) (string, error)
	UpdateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (Run, error)
}

type Service struct {
	pipeline *normalize.Pipeline
	books    BookStore
	runs     Repository
}

func NewService(pipeline *normalize.Pipeline, books BookStore, runs Repository) *Service {
	return &Service{
		pipeline: pipeline,
		books:    books,
		runs:     runs,
	}
}

// ImportCSV tokenizes and normalizes one export file, upserts the
// surviving records and records the run. Malformed rows are skipped and
// counted; only unreadable input fails the batch.
func (s *Service) ImportCSV(ctx context.Context, source string, file io.Reader) (run *Run, err error) {
	run = &Run{
		Source:         source,
		Status:         "RUNNING",
		RulesetVersion: normalize.RulesetVersion,
		StartedAt:      time.Now(),
	}
	runID, rErr := s.runs.CreateRun(ctx, run)
	if rErr != nil {
		return nil, rErr
	}
	run.ID = runID

	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		if err != nil && run.Error == "" {
			run.Error = err.Error()
		}
		if run.Error != "" {
			run.Status = "FAILED"
		} else {
			run.Status = "COMPLETED"
		}
		if updateErr := s.runs.UpdateRun(ctx, run); updateErr != nil {
			log.Printf("import run=%s failed to update: %v", run.ID, updateErr)
		}
	}()

	rows, err := ReadRows(file)
	if err != nil {
		return run, err
	}

	records, stats, err := s.pipeline.Process(ctx, rows)
	if err != nil {
		return run, err
	}
	run.RowsSeen = stats.RowsSeen
	run.RowsEmitted = stats.Emitted
	run.RowsSkipped = stats.Skipped
	run.ClassifierErrors = stats.ClassifierErrors

	for i := range records {
		book := library.FromRecord(records[i], source)
		if err = s.books.Upsert(ctx, &book); err != nil {
			return run, err
		}
		run.BooksUpserted++
	}

	log.Printf("import run=%s source=%s rows=%d emitted=%d skipped=%d upserted=%d",
		run.ID, source, run.RowsSeen, run.RowsEmitted, run.RowsSkipped, run.BooksUpserted)
	return run, nil
}

// GetRun returns one import run's bookkeeping.
func (s *Service) GetRun(ctx context.Context, id string) (Run, error) {
	return s.runs.GetRun(ctx, id)
}
