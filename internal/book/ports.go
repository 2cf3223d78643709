package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	ReadByID(ctx context.Context, id string) (Book, error)
	// ReadManyByID returns the books that exist among ids, in no particular
	// order. Unknown ids are skipped.
	ReadManyByID(ctx context.Context, ids []string) ([]Book, error)
	Search(ctx context.Context, query string, limit int) ([]Book, error)
	Insert(ctx context.Context, books []Book) (int, error)
}
