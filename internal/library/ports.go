package library

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	// Upsert inserts the book or updates the existing record matching
	// its ISBN (or title+author when the record carries no ISBN).
	Upsert(ctx context.Context, b *Book) error
	// List books with pagination and filters.
	List(ctx context.Context, q Query) ([]Book, int, error)
	// GetByISBN returns the book with the given ISBN.
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	// ListMissingMetadata returns books that have an ISBN but lack
	// publisher, page count or published year.
	ListMissingMetadata(ctx context.Context, limit int) ([]Book, error)
	// UpdateMetadata persists enriched publisher/pages/year fields.
	UpdateMetadata(ctx context.Context, b *Book) error
}
