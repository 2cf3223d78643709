package user

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("username already exists")
)

// User is a registered account. It never changes after registration.
type User struct {
	ID           string
	Username     string
	PasswordHash string
}

// View is the user as returned to clients, with a bearer token.
type View struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (u User) View(token string) View {
	return View{ID: u.ID, Username: u.Username, Token: token}
}
