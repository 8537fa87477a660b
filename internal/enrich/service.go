package enrich

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/library"
	"github.com/jukasdrj/bookstrack-backend-sub006/internal/platform/openlibrary"
)

// MetadataSource is the external catalog the enricher pulls from.
type MetadataSource interface {
	GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error)
}

// Store is the slice of book storage the enricher needs.
type Store interface {
	ListMissingMetadata(ctx context.Context, limit int) ([]library.Book, error)
	UpdateMetadata(ctx context.Context, b *library.Book) error
}

type Config struct {
	// Limit caps how many books one run scans.
	Limit int
	// BatchSize caps ISBNs per upstream request.
	BatchSize int
}

// Result summarizes one enrichment run.
type Result struct {
	Scanned  int `json:"scanned"`
	Fetched  int `json:"fetched"`
	Updated  int `json:"updated"`
	Failures int `json:"failures"`
}

type Service struct {
	source MetadataSource
	store  Store
	cfg    Config
}

func NewService(source MetadataSource, store Store, cfg Config) *Service {
	if cfg.Limit <= 0 {
		cfg.Limit = 200
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	return &Service{source: source, store: store, cfg: cfg}
}

// Run scans books that carry an ISBN but lack publisher, page count or
// published year, and backfills those fields from the metadata source.
// A failed batch or update is counted and skipped; it does not abort
// the run.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var res Result

	books, err := s.store.ListMissingMetadata(ctx, s.cfg.Limit)
	if err != nil {
		return res, err
	}
	res.Scanned = len(books)

	for start := 0; start < len(books); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(books) {
			end = len(books)
		}
		s.enrichBatch(ctx, books[start:end], &res)
	}

	log.Printf("enrich scanned=%d fetched=%d updated=%d failures=%d",
		res.Scanned, res.Fetched, res.Updated, res.Failures)
	return res, nil
}

func (s *Service) enrichBatch(ctx context.Context, books []library.Book, res *Result) {
	byISBN := make(map[string]*library.Book, len(books))
	isbns := make([]string, 0, len(books))
	for i := range books {
		if books[i].ISBN == nil {
			continue
		}
		byISBN[*books[i].ISBN] = &books[i]
		isbns = append(isbns, *books[i].ISBN)
	}
	if len(isbns) == 0 {
		return
	}

	batch, err := s.source.GetBooksByISBN(ctx, isbns)
	if err != nil {
		log.Printf("enrich batch failed: %v", err)
		res.Failures += len(isbns)
		return
	}
	res.Fetched += len(batch)

	for bibkey, details := range batch {
		book, ok := byISBN[strings.TrimPrefix(bibkey, "ISBN:")]
		if !ok {
			continue
		}
		if !apply(book, details) {
			continue
		}
		if err := s.store.UpdateMetadata(ctx, book); err != nil {
			log.Printf("enrich update failed isbn=%s: %v", *book.ISBN, err)
			res.Failures++
			continue
		}
		res.Updated++
	}
}

// apply fills only missing fields and reports whether anything changed.
func apply(book *library.Book, details openlibrary.BookDetails) bool {
	changed := false
	if book.Publisher == nil {
		if name := publisherNames(details.Publishers); name != "" {
			book.Publisher = &name
			changed = true
		}
	}
	if book.PageCount == nil && details.NumberOfPages > 0 {
		pages := details.NumberOfPages
		book.PageCount = &pages
		changed = true
	}
	if book.PublishedYear == nil {
		if year, ok := publishYear(details.PublishDate); ok {
			book.PublishedYear = &year
			changed = true
		}
	}
	return changed
}

func publisherNames(publishers []openlibrary.Publisher) string {
	names := make([]string, 0, len(publishers))
	for _, p := range publishers {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// publishYear extracts the year from free-form dates like "2004" or
// "May 1, 2004".
func publishYear(date string) (int, bool) {
	m := yearPattern.FindString(date)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return year, true
}
