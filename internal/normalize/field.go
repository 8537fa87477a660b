package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Fields holds the typed metadata normalized from one row. Every field
// degrades to nil independently; a bad cell never fails the row.
type Fields struct {
	PublishedYear *int
	Publisher     *string
	PageCount     *int
	UserRating    *float64
	ReadingStatus *ReadingStatus
	DateRead      *string
	Shelves       []string
}

// statusAliases maps vendor shelf/status vocabulary onto the canonical
// reading-status enum. Goodreads uses exclusive-shelf slugs, StoryGraph
// spells the same states out.
var statusAliases = map[string]ReadingStatus{
	"read":      StatusRead,
	"finished":  StatusRead,
	"completed": StatusRead,

	"reading":           StatusReading,
	"currently-reading": StatusReading,
	"currently reading": StatusReading,

	"to-read":      StatusToRead,
	"to read":      StatusToRead,
	"want-to-read": StatusToRead,
	"want to read": StatusToRead,
	"tbr":          StatusToRead,

	"wishlist":  StatusWishlist,
	"wish list": StatusWishlist,

	"dnf":            StatusDNF,
	"did-not-finish": StatusDNF,
	"did not finish": StatusDNF,
	"abandoned":      StatusDNF,
}

// dateLayouts are the full-date formats vendor exports emit. Partial
// dates (year-only, year-month) match none of them and degrade to nil
// rather than being completed by guesswork. Slash dates are read as
// month/day/year, the convention of the US-locale exports these files
// come from.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 02, 2006",
	"January 2, 2006",
}

// NormalizeFields converts the row's mapped metadata cells into typed
// canonical values.
func NormalizeFields(row RawRow, hm HeaderMapping) Fields {
	var f Fields

	if v := hm.Cell(row, FieldPublisher); v != "" {
		f.Publisher = &v
	}
	f.PublishedYear = parseInt(hm.Cell(row, FieldPublishedYear))
	f.PageCount = parseInt(hm.Cell(row, FieldPageCount))
	f.UserRating = parseRating(hm.Cell(row, FieldUserRating))
	f.ReadingStatus = parseStatus(hm.Cell(row, FieldReadingStatus))
	f.DateRead = parseDate(hm.Cell(row, FieldDateRead))
	f.Shelves = parseShelves(hm.Cell(row, FieldShelves))
	return f
}

func parseInt(raw string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// parseRating accepts finite numbers in [0,5]. Out-of-range values are
// dropped, never clamped. ParseFloat also accepts NaN and the
// infinities, which survive the range comparisons and break JSON
// encoding downstream, so non-finite values are rejected explicitly.
func parseRating(raw string) *float64 {
	if raw == "" {
		return nil
	}
	r, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) || r < 0 || r > 5 {
		return nil
	}
	return &r
}

func parseStatus(raw string) *ReadingStatus {
	if raw == "" {
		return nil
	}
	s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return nil
	}
	return &s
}

func parseDate(raw string) *string {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		d := t.Format("2006-01-02")
		return &d
	}
	return nil
}

// parseShelves splits a delimiter-separated shelf/tag cell into trimmed,
// non-empty names. An absent or blank cell yields nil, not an empty
// slice.
func parseShelves(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})
	var shelves []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			shelves = append(shelves, p)
		}
	}
	return shelves
}
