package enrich

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/library"
	"github.com/jukasdrj/bookstrack-backend-sub006/internal/platform/openlibrary"
)

type fakeSource struct {
	books map[string]openlibrary.BookDetails
	err   error
	calls int
}

func (f *fakeSource) GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]openlibrary.BookDetails)
	for _, isbn := range isbns {
		if details, ok := f.books[isbn]; ok {
			out["ISBN:"+isbn] = details
		}
	}
	return out, nil
}

type fakeStore struct {
	missing []library.Book
	updated []library.Book
}

func (f *fakeStore) ListMissingMetadata(ctx context.Context, limit int) ([]library.Book, error) {
	if limit < len(f.missing) {
		return f.missing[:limit], nil
	}
	return f.missing, nil
}

func (f *fakeStore) UpdateMetadata(ctx context.Context, b *library.Book) error {
	f.updated = append(f.updated, *b)
	return nil
}

func strptr(s string) *string { return &s }

func bare(isbn, title string) library.Book {
	return library.Book{ID: "id-" + isbn, ISBN: strptr(isbn), Title: title, Author: "Someone"}
}

func TestServiceRun(t *testing.T) {
	t.Run("backfills missing fields only", func(t *testing.T) {
		existing := bare("9781400033416", "Beloved")
		pub := "Vintage"
		existing.Publisher = &pub

		source := &fakeSource{books: map[string]openlibrary.BookDetails{
			"9780743273565": {
				Publishers:    []openlibrary.Publisher{{Name: "Scribner"}},
				PublishDate:   "September 30, 2004",
				NumberOfPages: 180,
			},
			"9781400033416": {
				Publishers:    []openlibrary.Publisher{{Name: "Should Not Overwrite"}},
				NumberOfPages: 324,
			},
		}}
		store := &fakeStore{missing: []library.Book{bare("9780743273565", "The Great Gatsby"), existing}}

		res, err := NewService(source, store, Config{}).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, res.Scanned)
		assert.Equal(t, 2, res.Fetched)
		assert.Equal(t, 2, res.Updated)
		assert.Equal(t, 0, res.Failures)
		require.Len(t, store.updated, 2)

		byISBN := map[string]library.Book{}
		for _, b := range store.updated {
			byISBN[*b.ISBN] = b
		}

		gatsby := byISBN["9780743273565"]
		require.NotNil(t, gatsby.Publisher)
		assert.Equal(t, "Scribner", *gatsby.Publisher)
		require.NotNil(t, gatsby.PageCount)
		assert.Equal(t, 180, *gatsby.PageCount)
		require.NotNil(t, gatsby.PublishedYear)
		assert.Equal(t, 2004, *gatsby.PublishedYear)

		beloved := byISBN["9781400033416"]
		assert.Equal(t, "Vintage", *beloved.Publisher)
		require.NotNil(t, beloved.PageCount)
		assert.Equal(t, 324, *beloved.PageCount)
	})

	t.Run("skips books the source does not know", func(t *testing.T) {
		source := &fakeSource{books: map[string]openlibrary.BookDetails{}}
		store := &fakeStore{missing: []library.Book{bare("9780000000000", "Obscure")}}

		res, err := NewService(source, store, Config{}).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, res.Scanned)
		assert.Equal(t, 0, res.Updated)
		assert.Empty(t, store.updated)
	})

	t.Run("failed batch is counted and does not abort", func(t *testing.T) {
		source := &fakeSource{err: fmt.Errorf("upstream down")}
		store := &fakeStore{missing: []library.Book{bare("9780743273565", "The Great Gatsby")}}

		res, err := NewService(source, store, Config{}).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, res.Failures)
		assert.Equal(t, 0, res.Updated)
	})

	t.Run("respects batch size", func(t *testing.T) {
		source := &fakeSource{books: map[string]openlibrary.BookDetails{}}
		var missing []library.Book
		for i := 0; i < 5; i++ {
			missing = append(missing, bare(fmt.Sprintf("978000000000%d", i), "Book"))
		}
		store := &fakeStore{missing: missing}

		_, err := NewService(source, store, Config{BatchSize: 2}).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, source.calls)
	})
}

func TestPublishYear(t *testing.T) {
	cases := []struct {
		in   string
		year int
		ok   bool
	}{
		{"2004", 2004, true},
		{"May 1, 1987", 1987, true},
		{"19th century", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		year, ok := publishYear(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.year, year, tc.in)
	}
}
