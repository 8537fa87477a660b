package normalize

import "strings"

// ReadingStatus is the canonical reading-status vocabulary. Vendor shelf
// names outside this set normalize to nil, never to an invented status.
type ReadingStatus string

const (
	StatusRead     ReadingStatus = "read"
	StatusReading  ReadingStatus = "reading"
	StatusToRead   ReadingStatus = "to-read"
	StatusWishlist ReadingStatus = "wishlist"
	StatusDNF      ReadingStatus = "dnf"
)

// Gender is the canonical author-gender vocabulary.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "nonBinary"
	GenderUnknown   Gender = "unknown"
)

// Region is the canonical author cultural-region vocabulary.
type Region string

const (
	RegionAfrica       Region = "africa"
	RegionAsia         Region = "asia"
	RegionEurope       Region = "europe"
	RegionNorthAmerica Region = "northAmerica"
	RegionSouthAmerica Region = "southAmerica"
	RegionOceania      Region = "oceania"
	RegionMiddleEast   Region = "middleEast"
	RegionUnknown      Region = "unknown"
)

var genreVocabulary = map[string]struct{}{
	"fiction":     {},
	"non-fiction": {},
	"sci-fi":      {},
	"fantasy":     {},
	"mystery":     {},
	"romance":     {},
	"thriller":    {},
	"biography":   {},
	"history":     {},
	"self-help":   {},
	"poetry":      {},
}

// KnownGenre reports whether g belongs to the closed genre vocabulary.
func KnownGenre(g string) bool {
	_, ok := genreVocabulary[g]
	return ok
}

// BookRecord is the canonical output entity. Title and Author are never
// empty on an emitted record; every other pointer field is nil when the
// value could not be determined. AuthorGender and AuthorCulturalRegion
// are never empty and default to "unknown". The JSON shape carries
// explicit nulls for absent optional fields.
type BookRecord struct {
	Title                string         `json:"title"`
	Author               string         `json:"author"`
	ISBN                 *string        `json:"isbn"`
	OpenLibraryID        *string        `json:"openLibraryId"`
	GoogleBooksID        *string        `json:"googleBooksId"`
	GoodreadsID          *string        `json:"goodreadsId"`
	PublishedYear        *int           `json:"publishedYear"`
	Publisher            *string        `json:"publisher"`
	PageCount            *int           `json:"pageCount"`
	UserRating           *float64       `json:"userRating"`
	ReadingStatus        *ReadingStatus `json:"readingStatus"`
	DateRead             *string        `json:"dateRead"`
	Shelves              []string       `json:"shelves"`
	AuthorGender         Gender         `json:"authorGender"`
	AuthorCulturalRegion Region         `json:"authorCulturalRegion"`
	Genre                *string        `json:"genre"`
	LanguageCode         *string        `json:"languageCode"`
}

// RawRow is one tokenized export row: the original header strings in
// column order plus the cell value for each header. Headers drives the
// stable column-iteration order used by free-text identifier scanning.
type RawRow struct {
	Headers []string
	Values  map[string]string
}

// Value returns the trimmed cell under the given original header.
func (r RawRow) Value(header string) string {
	return strings.TrimSpace(r.Values[header])
}

// Empty reports whether every cell in the row is blank.
func (r RawRow) Empty() bool {
	for _, h := range r.Headers {
		if r.Value(h) != "" {
			return false
		}
	}
	return true
}
