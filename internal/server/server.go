// Package server assembles the HTTP router from the feature packages.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
	"bookshelf/internal/listitem"
	"bookshelf/internal/platform/config"
	"bookshelf/internal/user"
)

const readyTimeout = 500 * time.Millisecond

// Deps are the stores and settings the router is built from.
type Deps struct {
	Config    config.Config
	Logger    *zap.Logger
	Users     user.Repository
	Books     book.Repository
	ListItems listitem.Repository
	// Ready reports whether the backing store can serve requests. Nil means
	// always ready.
	Ready func(ctx context.Context) error
	// RateLimiter is optional.
	RateLimiter *httpx.RateLimitMiddleware
}

func NewRouter(d Deps) http.Handler {
	errs := httpx.NewErrorHandler(d.Logger)

	users := user.NewHTTPHandler(user.NewService(d.Users, d.Config.JWTSecret, d.Config.JWTTTL))
	books := book.NewHTTPHandler(book.NewService(d.Books))
	items := listitem.NewHTTPHandler(listitem.NewService(d.ListItems, d.Books))

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLogMiddleware(d.Logger))
	r.Use(httpx.RecoveryMiddleware(errs))
	r.Use(httpx.SecurityHeadersMiddleware(d.Config.EnableHSTS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Config.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(httpx.RequestSizeLimitMiddleware(d.Config.MaxBodyBytes))
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", errs.Wrap(users.Register))
		r.Post("/auth/login", errs.Wrap(users.Login))

		r.Group(func(r chi.Router) {
			r.Use(httpx.AuthMiddleware(d.Config.JWTSecret, errs))

			r.Get("/auth/me", errs.Wrap(users.Me))

			r.Get("/books", errs.Wrap(books.Search))
			r.Get("/books/{id}", errs.Wrap(books.Get))

			r.Route("/list-items", func(r chi.Router) {
				r.Get("/", errs.Wrap(items.GetListItems))
				r.Post("/", errs.Wrap(items.CreateListItem))
				r.Get("/{id}", errs.Wrap(items.SetListItem(items.GetListItem)))
				r.Put("/{id}", errs.Wrap(items.SetListItem(items.UpdateListItem)))
				r.Delete("/{id}", errs.Wrap(items.SetListItem(items.DeleteListItem)))
			})
		})
	})

	return r
}
