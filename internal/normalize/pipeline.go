package normalize

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNilRows is returned when Process receives no row sequence at all.
// This is the only batch-level failure; individual malformed rows are
// skipped and counted instead.
var ErrNilRows = errors.New("nil row sequence")

// Stats summarizes one pipeline run for diagnostics. Skips and
// classifier failures are counts, not errors.
type Stats struct {
	RowsSeen         int `json:"rows_seen"`
	Emitted          int `json:"emitted"`
	Skipped          int `json:"skipped"`
	ClassifierErrors int `json:"classifier_errors"`
}

// PipelineConfig tunes a Pipeline. Workers <= 1 processes rows
// sequentially.
type PipelineConfig struct {
	Workers int
}

// Pipeline normalizes raw export rows into canonical BookRecords. Rows
// are processed independently; the only shared state is the immutable
// header synonym table, so the worker path needs no synchronization
// beyond indexing results back into input positions.
type Pipeline struct {
	classifier Classifier
	workers    int
}

func NewPipeline(classifier Classifier, cfg PipelineConfig) *Pipeline {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{classifier: classifier, workers: workers}
}

// Process normalizes rows in input order. Output order equals input
// order among surviving rows; skipped rows are absent, not replaced by
// placeholders. No row's failure affects any other row.
func (p *Pipeline) Process(ctx context.Context, rows []RawRow) ([]BookRecord, Stats, error) {
	if rows == nil {
		return nil, Stats{}, ErrNilRows
	}

	stats := Stats{RowsSeen: len(rows)}
	results := make([]*BookRecord, len(rows))
	classifierFailed := make([]bool, len(rows))

	if p.workers > 1 && len(rows) > 1 {
		var wg sync.WaitGroup
		indexes := make(chan int)
		for w := 0; w < p.workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range indexes {
					results[i], classifierFailed[i] = p.processRow(ctx, rows[i])
				}
			}()
		}
		for i := range rows {
			indexes <- i
		}
		close(indexes)
		wg.Wait()
	} else {
		for i := range rows {
			results[i], classifierFailed[i] = p.processRow(ctx, rows[i])
		}
	}

	records := make([]BookRecord, 0, len(rows))
	for i, rec := range results {
		if rec == nil {
			stats.Skipped++
			continue
		}
		if classifierFailed[i] {
			stats.ClassifierErrors++
		}
		records = append(records, *rec)
		stats.Emitted++
	}
	return records, stats, nil
}

// processRow normalizes a single row. It returns nil when the row is
// empty or lacks a resolvable title or author, and reports whether the
// classifier call failed for this row.
func (p *Pipeline) processRow(ctx context.Context, row RawRow) (*BookRecord, bool) {
	if row.Empty() {
		return nil, false
	}

	hm := ResolveHeaders(row.Headers)
	title := strings.TrimSpace(hm.Cell(row, FieldTitle))
	author := strings.TrimSpace(hm.Cell(row, FieldAuthor))
	if title == "" || author == "" {
		return nil, false
	}

	ids := ResolveIdentifiers(row, hm)
	fields := NormalizeFields(row, hm)

	publisher := ""
	if fields.Publisher != nil {
		publisher = *fields.Publisher
	}

	var failed bool
	classification := UnknownClassification()
	if p.classifier != nil {
		c, err := p.classifier.Classify(ctx, title, author, publisher)
		if err != nil {
			failed = true
		} else {
			classification = SanitizeClassification(c)
		}
	}

	return &BookRecord{
		Title:                title,
		Author:               author,
		ISBN:                 ids.ISBN,
		OpenLibraryID:        ids.OpenLibraryID,
		GoogleBooksID:        ids.GoogleBooksID,
		GoodreadsID:          ids.GoodreadsID,
		PublishedYear:        fields.PublishedYear,
		Publisher:            fields.Publisher,
		PageCount:            fields.PageCount,
		UserRating:           fields.UserRating,
		ReadingStatus:        fields.ReadingStatus,
		DateRead:             fields.DateRead,
		Shelves:              fields.Shelves,
		AuthorGender:         classification.AuthorGender,
		AuthorCulturalRegion: classification.AuthorCulturalRegion,
		Genre:                classification.Genre,
		LanguageCode:         classification.LanguageCode,
	}, failed
}
