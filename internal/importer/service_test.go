package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/library"
	"github.com/jukasdrj/bookstrack-backend-sub006/internal/normalize"
)

type memBookStore struct {
	books   []library.Book
	failing bool
}

func (m *memBookStore) Upsert(ctx context.Context, b *library.Book) error {
	if m.failing {
		return fmt.Errorf("upsert: connection refused")
	}
	b.ID = fmt.Sprintf("book-%d", len(m.books)+1)
	m.books = append(m.books, *b)
	return nil
}

type memRuns struct {
	runs map[string]Run
}

func newMemRuns() *memRuns {
	return &memRuns{runs: make(map[string]Run)}
}

func (m *memRuns) CreateRun(ctx context.Context, run *Run) (string, error) {
	id := fmt.Sprintf("run-%d", len(m.runs)+1)
	m.runs[id] = *run
	return id, nil
}

func (m *memRuns) UpdateRun(ctx context.Context, run *Run) error {
	m.runs[run.ID] = *run
	return nil
}

func (m *memRuns) GetRun(ctx context.Context, id string) (Run, error) {
	run, ok := m.runs[id]
	if !ok {
		return Run{}, ErrRunNotFound
	}
	return run, nil
}

type passClassifier struct{}

func (passClassifier) Classify(ctx context.Context, title, author, publisher string) (normalize.Classification, error) {
	return normalize.UnknownClassification(), nil
}

func newTestService(books *memBookStore, runs *memRuns) *Service {
	pipeline := normalize.NewPipeline(passClassifier{}, normalize.PipelineConfig{})
	return NewService(pipeline, books, runs)
}

func TestServiceImportCSV(t *testing.T) {
	t.Run("imports a file and records the run", func(t *testing.T) {
		input := "Title,Author,ISBN13,My Rating,Exclusive Shelf\n" +
			"The Great Gatsby,F. Scott Fitzgerald,9780743273565,4,read\n" +
			"Beloved,Toni Morrison,9781400033416,5,read\n" +
			",Missing Title,,,\n"
		books := &memBookStore{}
		runs := newMemRuns()
		svc := newTestService(books, runs)

		run, err := svc.ImportCSV(context.Background(), "goodreads.csv", strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, "COMPLETED", run.Status)
		assert.Equal(t, normalize.RulesetVersion, run.RulesetVersion)
		assert.Equal(t, 3, run.RowsSeen)
		assert.Equal(t, 2, run.RowsEmitted)
		assert.Equal(t, 1, run.RowsSkipped)
		assert.Equal(t, 2, run.BooksUpserted)
		require.NotNil(t, run.FinishedAt)

		require.Len(t, books.books, 2)
		assert.Equal(t, "The Great Gatsby", books.books[0].Title)
		assert.Equal(t, "goodreads.csv", books.books[0].Source)

		stored, err := svc.GetRun(context.Background(), run.ID)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", stored.Status)
		assert.Equal(t, 2, stored.BooksUpserted)
	})

	t.Run("unreadable input fails the run", func(t *testing.T) {
		books := &memBookStore{}
		runs := newMemRuns()
		svc := newTestService(books, runs)

		run, err := svc.ImportCSV(context.Background(), "empty.csv", strings.NewReader(""))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoHeader)

		stored, getErr := svc.GetRun(context.Background(), run.ID)
		require.NoError(t, getErr)
		assert.Equal(t, "FAILED", stored.Status)
		assert.NotEmpty(t, stored.Error)
		require.NotNil(t, stored.FinishedAt)
	})

	t.Run("storage failure fails the run", func(t *testing.T) {
		input := "Title,Author\nBeloved,Toni Morrison\n"
		books := &memBookStore{failing: true}
		runs := newMemRuns()
		svc := newTestService(books, runs)

		run, err := svc.ImportCSV(context.Background(), "goodreads.csv", strings.NewReader(input))
		require.Error(t, err)

		stored, getErr := svc.GetRun(context.Background(), run.ID)
		require.NoError(t, getErr)
		assert.Equal(t, "FAILED", stored.Status)
		assert.Equal(t, 0, run.BooksUpserted)
	})

	t.Run("unknown run id", func(t *testing.T) {
		svc := newTestService(&memBookStore{}, newMemRuns())
		_, err := svc.GetRun(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrRunNotFound)
	})
}
