package library

import (
	"errors"
	"time"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/normalize"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book is a persisted canonical record: a normalize.BookRecord plus
// storage metadata. The JSON shape keeps the canonical field set with
// explicit nulls.
type Book struct {
	ID                   string                   `json:"id"`
	Title                string                   `json:"title"`
	Author               string                   `json:"author"`
	ISBN                 *string                  `json:"isbn"`
	OpenLibraryID        *string                  `json:"openLibraryId"`
	GoogleBooksID        *string                  `json:"googleBooksId"`
	GoodreadsID          *string                  `json:"goodreadsId"`
	PublishedYear        *int                     `json:"publishedYear"`
	Publisher            *string                  `json:"publisher"`
	PageCount            *int                     `json:"pageCount"`
	UserRating           *float64                 `json:"userRating"`
	ReadingStatus        *normalize.ReadingStatus `json:"readingStatus"`
	DateRead             *string                  `json:"dateRead"`
	Shelves              []string                 `json:"shelves"`
	AuthorGender         normalize.Gender         `json:"authorGender"`
	AuthorCulturalRegion normalize.Region         `json:"authorCulturalRegion"`
	Genre                *string                  `json:"genre"`
	LanguageCode         *string                  `json:"languageCode"`
	Source               string                   `json:"source,omitempty"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

// FromRecord wraps a canonical record for storage. Source labels which
// export the record came from.
func FromRecord(rec normalize.BookRecord, source string) Book {
	return Book{
		Title:                rec.Title,
		Author:               rec.Author,
		ISBN:                 rec.ISBN,
		OpenLibraryID:        rec.OpenLibraryID,
		GoogleBooksID:        rec.GoogleBooksID,
		GoodreadsID:          rec.GoodreadsID,
		PublishedYear:        rec.PublishedYear,
		Publisher:            rec.Publisher,
		PageCount:            rec.PageCount,
		UserRating:           rec.UserRating,
		ReadingStatus:        rec.ReadingStatus,
		DateRead:             rec.DateRead,
		Shelves:              rec.Shelves,
		AuthorGender:         rec.AuthorGender,
		AuthorCulturalRegion: rec.AuthorCulturalRegion,
		Genre:                rec.Genre,
		LanguageCode:         rec.LanguageCode,
		Source:               source,
	}
}

// Query defines filters and pagination for listing books.
type Query struct {
	Genre    string
	Status   string
	Language string
	Author   string
	Q        string
	Limit    int
	Offset   int
}
