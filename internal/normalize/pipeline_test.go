package normalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier returns a fixed classification, or an error for authors
// in failFor.
type stubClassifier struct {
	result  Classification
	failFor map[string]bool
}

func (s *stubClassifier) Classify(_ context.Context, _, author, _ string) (Classification, error) {
	if s.failFor[author] {
		return Classification{}, errors.New("inference backend unavailable")
	}
	return s.result, nil
}

func knownStub() *stubClassifier {
	return &stubClassifier{result: Classification{
		AuthorGender:         GenderFemale,
		AuthorCulturalRegion: RegionNorthAmerica,
		Genre:                strptr("fiction"),
		LanguageCode:         strptr("en"),
	}}
}

func gatsbyRow() RawRow {
	return newRow(
		[2]string{"Title", "The Great Gatsby"},
		[2]string{"Author", "F. Scott Fitzgerald"},
		[2]string{"ISBN13", "9780743273565"},
		[2]string{"My Rating", "4"},
		[2]string{"Exclusive Shelf", "read"},
		[2]string{"Date Read", "2024-03-15"},
	)
}

func belovedRow() RawRow {
	return newRow(
		[2]string{"Book Title", "Beloved"},
		[2]string{"Author Name", "Toni Morrison"},
		[2]string{"Rating", "5"},
		[2]string{"Tags", "american-literature;historical"},
		[2]string{"Notes", "From OpenLibrary: https://openlibrary.org/works/OL45804W"},
	)
}

func TestPipeline_Process_GoodreadsStyleRow(t *testing.T) {
	p := NewPipeline(knownStub(), PipelineConfig{})

	records, stats, err := p.Process(context.Background(), []RawRow{gatsbyRow()})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, stats.Emitted)

	rec := records[0]
	assert.Equal(t, "The Great Gatsby", rec.Title)
	assert.Equal(t, "F. Scott Fitzgerald", rec.Author)
	require.NotNil(t, rec.ISBN)
	assert.Equal(t, "9780743273565", *rec.ISBN)
	require.NotNil(t, rec.UserRating)
	assert.Equal(t, 4.0, *rec.UserRating)
	require.NotNil(t, rec.ReadingStatus)
	assert.Equal(t, StatusRead, *rec.ReadingStatus)
	require.NotNil(t, rec.DateRead)
	assert.Equal(t, "2024-03-15", *rec.DateRead)
}

func TestPipeline_Process_AltVendorRow(t *testing.T) {
	p := NewPipeline(knownStub(), PipelineConfig{})

	records, _, err := p.Process(context.Background(), []RawRow{belovedRow()})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Beloved", rec.Title)
	assert.Equal(t, "Toni Morrison", rec.Author)
	assert.Nil(t, rec.ISBN)
	require.NotNil(t, rec.OpenLibraryID)
	assert.Equal(t, "OL45804W", *rec.OpenLibraryID)
	assert.Equal(t, []string{"american-literature", "historical"}, rec.Shelves)
	require.NotNil(t, rec.UserRating)
	assert.Equal(t, 5.0, *rec.UserRating)
}

func TestPipeline_Process_SkipsUnrecoverableRows(t *testing.T) {
	p := NewPipeline(knownStub(), PipelineConfig{})

	rows := []RawRow{
		gatsbyRow(),
		newRow([2]string{"Title", "Orphaned"}),                   // no author
		newRow([2]string{"Notes", "nothing usable"}),             // no title/author
		newRow([2]string{"Title", ""}, [2]string{"Author", ""}),  // empty
		belovedRow(),
	}

	records, stats, err := p.Process(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "The Great Gatsby", records[0].Title)
	assert.Equal(t, "Beloved", records[1].Title)
	assert.Equal(t, 5, stats.RowsSeen)
	assert.Equal(t, 2, stats.Emitted)
	assert.Equal(t, 3, stats.Skipped)
}

func TestPipeline_Process_BadRatingCellStaysSerializable(t *testing.T) {
	p := NewPipeline(knownStub(), PipelineConfig{})

	rows := []RawRow{newRow(
		[2]string{"Title", "The Great Gatsby"},
		[2]string{"Author", "F. Scott Fitzgerald"},
		[2]string{"My Rating", "NaN"},
	)}

	records, stats, err := p.Process(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].UserRating)
	assert.Equal(t, 1, stats.Emitted)

	_, err = json.Marshal(records)
	require.NoError(t, err)
}

func TestPipeline_Process_NilRowsFailsFast(t *testing.T) {
	p := NewPipeline(knownStub(), PipelineConfig{})
	_, _, err := p.Process(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilRows)
}

func TestPipeline_Process_ClassifierFailureDegradesRow(t *testing.T) {
	stub := knownStub()
	stub.failFor = map[string]bool{"Toni Morrison": true}
	p := NewPipeline(stub, PipelineConfig{})

	records, stats, err := p.Process(context.Background(), []RawRow{gatsbyRow(), belovedRow()})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, stats.ClassifierErrors)

	// failed row is still emitted, classifier fields degraded
	assert.Equal(t, GenderUnknown, records[1].AuthorGender)
	assert.Equal(t, RegionUnknown, records[1].AuthorCulturalRegion)
	assert.Nil(t, records[1].Genre)

	// untouched row keeps its classification
	assert.Equal(t, GenderFemale, records[0].AuthorGender)
}

func TestPipeline_Process_DemographicsNeverEmpty(t *testing.T) {
	p := NewPipeline(&stubClassifier{result: Classification{}}, PipelineConfig{})

	records, _, err := p.Process(context.Background(), []RawRow{gatsbyRow()})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, GenderUnknown, records[0].AuthorGender)
	assert.Equal(t, RegionUnknown, records[0].AuthorCulturalRegion)
}

func TestPipeline_Process_ConcurrentPreservesOrder(t *testing.T) {
	rows := make([]RawRow, 0, 200)
	for i := 0; i < 200; i++ {
		rows = append(rows, newRow(
			[2]string{"Title", fmt.Sprintf("Book %03d", i)},
			[2]string{"Author", "Some Author"},
		))
	}
	// sprinkle skippable rows in
	rows[17] = newRow([2]string{"Notes", "junk"})
	rows[130] = newRow([2]string{"Title", "no author"})

	p := NewPipeline(knownStub(), PipelineConfig{Workers: 8})
	records, stats, err := p.Process(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 198, stats.Emitted)
	assert.Equal(t, 2, stats.Skipped)

	prev := ""
	for _, rec := range records {
		assert.Greater(t, rec.Title, prev)
		prev = rec.Title
	}
}

func TestPipeline_Process_Idempotent(t *testing.T) {
	p := NewPipeline(knownStub(), PipelineConfig{Workers: 4})
	rows := []RawRow{gatsbyRow(), belovedRow()}

	first, _, err := p.Process(context.Background(), rows)
	require.NoError(t, err)
	second, _, err := p.Process(context.Background(), rows)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBookRecord_JSONExplicitNulls(t *testing.T) {
	p := NewPipeline(&stubClassifier{result: Classification{}}, PipelineConfig{})
	records, _, err := p.Process(context.Background(), []RawRow{
		newRow([2]string{"Title", "Beloved"}, [2]string{"Author", "Toni Morrison"}),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	raw, err := json.Marshal(records[0])
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{
		"title", "author", "isbn", "openLibraryId", "googleBooksId",
		"goodreadsId", "publishedYear", "publisher", "pageCount",
		"userRating", "readingStatus", "dateRead", "shelves",
		"authorGender", "authorCulturalRegion", "genre", "languageCode",
	} {
		assert.Contains(t, decoded, key)
	}
	assert.Len(t, decoded, 17)
	assert.Equal(t, "null", string(decoded["isbn"]))
	assert.Equal(t, "null", string(decoded["shelves"]))
	assert.Equal(t, `"unknown"`, string(decoded["authorGender"]))
}
