// Package listitem manages a user's personal records for books: notes,
// rating and reading dates. Every item belongs to exactly one owner and only
// that owner may read or change it.
package listitem

import (
	"errors"

	"bookshelf/internal/book"
)

var (
	ErrNotFound     = errors.New("list item not found")
	ErrDuplicate    = errors.New("list item already exists for owner and book")
	ErrBookNotFound = errors.New("list item references unknown book")
)

// Unrated is the rating of an item the owner has not rated.
const Unrated = -1

type ListItem struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	BookID  string `json:"bookId"`
	Rating  int    `json:"rating"`
	Notes   string `json:"notes"`
	// Dates are Unix milliseconds.
	StartDate  int64  `json:"startDate"`
	FinishDate *int64 `json:"finishDate"`
}

// Updates is a partial change. Nil fields are left as they are.
type Updates struct {
	Notes      *string `json:"notes"`
	Rating     *int    `json:"rating" validate:"omitempty,gte=-1,lte=5"`
	StartDate  *int64  `json:"startDate"`
	FinishDate *int64  `json:"finishDate"`
}

// Apply returns item with u merged in.
func (u Updates) Apply(item ListItem) ListItem {
	if u.Notes != nil {
		item.Notes = *u.Notes
	}
	if u.Rating != nil {
		item.Rating = *u.Rating
	}
	if u.StartDate != nil {
		item.StartDate = *u.StartDate
	}
	if u.FinishDate != nil {
		finish := *u.FinishDate
		item.FinishDate = &finish
	}
	return item
}

func (u Updates) Empty() bool {
	return u.Notes == nil && u.Rating == nil && u.StartDate == nil && u.FinishDate == nil
}

// Expanded is an item with its book inlined. Book is nil when the book no
// longer exists.
type Expanded struct {
	ListItem
	Book *book.Book `json:"book,omitempty"`
}

// Filter selects items by equality. Empty fields match everything.
type Filter struct {
	OwnerID string
	BookID  string
}

func (f Filter) Match(item ListItem) bool {
	return (f.OwnerID == "" || f.OwnerID == item.OwnerID) &&
		(f.BookID == "" || f.BookID == item.BookID)
}
