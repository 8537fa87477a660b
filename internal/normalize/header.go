package normalize

import "strings"

// Field is a canonical field key, independent of any vendor's header
// spelling.
type Field string

const (
	FieldTitle         Field = "title"
	FieldAuthor        Field = "author"
	FieldISBN13        Field = "isbn13"
	FieldISBN10        Field = "isbn10"
	FieldGoodreadsID   Field = "goodreadsId"
	FieldUserRating    Field = "userRating"
	FieldReadingStatus Field = "readingStatus"
	FieldDateRead      Field = "dateRead"
	FieldShelves       Field = "shelves"
	FieldPublisher     Field = "publisher"
	FieldPublishedYear Field = "publishedYear"
	FieldPageCount     Field = "pageCount"
)

// headerAliases maps canonicalized header spellings to canonical field
// keys. It covers the column conventions of the Goodreads, StoryGraph
// and LibraryThing export families. Immutable after init; shared
// read-only across all row processing.
var headerAliases = map[string]Field{
	"title":      FieldTitle,
	"book title": FieldTitle,

	"author":      FieldAuthor,
	"author name": FieldAuthor,

	"isbn13":  FieldISBN13,
	"isbn 13": FieldISBN13,

	"isbn":    FieldISBN10,
	"isbn10":  FieldISBN10,
	"isbn 10": FieldISBN10,

	// Goodreads-native numeric book id.
	"book id": FieldGoodreadsID,

	"my rating":   FieldUserRating,
	"rating":      FieldUserRating,
	"star rating": FieldUserRating,

	"exclusive shelf": FieldReadingStatus,
	"read status":     FieldReadingStatus,
	"reading status":  FieldReadingStatus,

	"date read":      FieldDateRead,
	"last date read": FieldDateRead,

	"bookshelves": FieldShelves,
	"shelves":     FieldShelves,
	"tags":        FieldShelves,

	"publisher": FieldPublisher,

	"year published":            FieldPublishedYear,
	"publication year":          FieldPublishedYear,
	"original publication year": FieldPublishedYear,

	"number of pages": FieldPageCount,
	"page count":      FieldPageCount,
	"pages":           FieldPageCount,
}

// HeaderMapping is the result of resolving a row's actual headers:
// canonical field key -> the original header carrying it, plus the
// headers with no synonym entry. Extras are kept in column order because
// identifiers may live in arbitrary vendor columns.
type HeaderMapping struct {
	byField map[Field]string
	Extras  []string
}

// ResolveHeaders maps raw header strings to canonical field keys.
// Matching is case-insensitive and ignores surrounding whitespace and
// quoting. When two headers resolve to the same field the earlier column
// wins. An empty header list yields an empty mapping.
func ResolveHeaders(headers []string) HeaderMapping {
	m := HeaderMapping{byField: make(map[Field]string, len(headers))}
	for _, h := range headers {
		key := canonicalizeHeader(h)
		if key == "" {
			continue
		}
		if f, ok := headerAliases[key]; ok {
			if _, taken := m.byField[f]; !taken {
				m.byField[f] = h
			}
			continue
		}
		m.Extras = append(m.Extras, h)
	}
	return m
}

// Header returns the original header resolved for the canonical field.
func (m HeaderMapping) Header(f Field) (string, bool) {
	h, ok := m.byField[f]
	return h, ok
}

// Cell returns the row's trimmed cell value for the canonical field, or
// "" when the field resolved to no column.
func (m HeaderMapping) Cell(row RawRow, f Field) string {
	h, ok := m.byField[f]
	if !ok {
		return ""
	}
	return row.Value(h)
}

func canonicalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Trim(h, `"'`)
	return strings.Join(strings.Fields(h), " ")
}
