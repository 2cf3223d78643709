package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/apperr"
	"bookshelf/internal/platform/crypto"
)

const invalidCredentials = "username or password is invalid"

type Service struct {
	repo      Repository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates the account and returns it with a fresh token.
// Input is assumed to be validated already.
func (s *Service) Register(ctx context.Context, username, password string) (View, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return View{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, &u); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return View{}, apperr.AlreadyExists("username taken").WithCause(err)
		}
		return View{}, fmt.Errorf("create user: %w", err)
	}
	return s.issue(u)
}

// Login checks the credentials. Unknown users and wrong passwords produce
// the same error.
func (s *Service) Login(ctx context.Context, username, password string) (View, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return View{}, apperr.Validation(invalidCredentials)
		}
		return View{}, fmt.Errorf("get user: %w", err)
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return View{}, apperr.Validation(invalidCredentials)
	}
	return s.issue(u)
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) issue(u User) (View, error) {
	token, err := crypto.GenerateToken(s.jwtSecret, u.ID, u.Username, s.tokenTTL)
	if err != nil {
		return View{}, fmt.Errorf("sign token: %w", err)
	}
	return u.View(token.Value), nil
}
