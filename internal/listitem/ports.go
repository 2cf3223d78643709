package listitem

import (
	"context"

	"bookshelf/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=listitem

// Repository stores list items. Implementations enforce one item per
// (owner, book) and return ErrDuplicate when it would be violated.
type Repository interface {
	// Query returns matching items in creation order.
	Query(ctx context.Context, f Filter) ([]ListItem, error)
	ReadByID(ctx context.Context, id string) (ListItem, error)
	// Create assigns an id and returns the stored item.
	Create(ctx context.Context, item ListItem) (ListItem, error)
	Update(ctx context.Context, id string, u Updates) (ListItem, error)
	Remove(ctx context.Context, id string) error
}

// BookReader is the part of the catalog list items need.
type BookReader interface {
	ReadByID(ctx context.Context, id string) (book.Book, error)
	ReadManyByID(ctx context.Context, ids []string) ([]book.Book, error)
}
