// Package openlibrary fetches catalog data from the Open Library search API.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"bookshelf/internal/book"
)

const (
	DefaultBaseURL = "https://openlibrary.org"
	coverURLFormat = "https://covers.openlibrary.org/b/id/%d-L.jpg"
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(baseURL, userAgent string, rps int, maxRetries int) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

type Doc struct {
	Key            string   `json:"key"`
	Title          string   `json:"title"`
	AuthorNames    []string `json:"author_name"`
	CoverID        int      `json:"cover_i"`
	PagesMedian    int      `json:"number_of_pages_median"`
	Publishers     []string `json:"publisher"`
	FirstSentences []string `json:"first_sentence"`
}

// Book converts the search document to a catalog book. The work key
// ("/works/OL45883W") becomes the id.
func (d Doc) Book() book.Book {
	b := book.Book{
		ID:        strings.TrimPrefix(d.Key, "/works/"),
		Title:     d.Title,
		PageCount: d.PagesMedian,
	}
	if len(d.AuthorNames) > 0 {
		b.Author = d.AuthorNames[0]
	}
	if len(d.Publishers) > 0 {
		b.Publisher = d.Publishers[0]
	}
	if len(d.FirstSentences) > 0 {
		b.Synopsis = d.FirstSentences[0]
	}
	if d.CoverID > 0 {
		b.CoverImageURL = fmt.Sprintf(coverURLFormat, d.CoverID)
	}
	return b
}

// SearchBooks returns up to limit books on subject.
func (c *Client) SearchBooks(ctx context.Context, subject string, limit int) ([]book.Book, error) {
	u := fmt.Sprintf("%s/search.json?q=subject:%s&fields=key,title,author_name,cover_i,number_of_pages_median,publisher,first_sentence&limit=%d",
		c.baseURL, url.QueryEscape(subject), limit)

	var res SearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	books := make([]book.Book, 0, len(res.Docs))
	for _, d := range res.Docs {
		if d.Key == "" || d.Title == "" {
			continue
		}
		books = append(books, d.Book())
	}
	return books, nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.fetch(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// fetch does one request. retry reports whether a failure is transient.
func (c *Client) fetch(ctx context.Context, url string, target any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}
	return false, json.NewDecoder(resp.Body).Decode(target)
}
