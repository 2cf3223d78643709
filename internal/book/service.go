package book

import (
	"context"
	"errors"
	"fmt"

	"bookshelf/internal/apperr"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns books whose title or author contains query, ignoring case.
// An empty query lists the catalog.
func (s *Service) Search(ctx context.Context, query string) ([]Book, error) {
	books, err := s.repo.Search(ctx, query, DefaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Get returns the book with id, or a not-found app error.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	b, err := s.repo.ReadByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Book{}, apperr.NotFound(fmt.Sprintf("No book was found with the id of %s", id)).WithCause(err)
		}
		return Book{}, fmt.Errorf("read book %s: %w", id, err)
	}
	return b, nil
}
