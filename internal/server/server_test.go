package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
	"bookshelf/internal/listitem"
	"bookshelf/internal/platform/config"
	"bookshelf/internal/testutil"
	"bookshelf/internal/user"
)

const password = "This-is-A-Secure-#1"

type userEnvelope struct {
	User user.View `json:"user"`
}

type listItemEnvelope struct {
	ListItem listitem.Expanded `json:"listItem"`
}

type listItemsEnvelope struct {
	ListItems []listitem.Expanded `json:"listItems"`
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:          testutil.TestSecret,
		JWTTTL:             time.Hour,
		MaxBodyBytes:       1 << 20,
		CORSAllowedOrigins: []string{"https://app.example.com"},
	}
}

func newTestRouter(t *testing.T, ready func(context.Context) error) http.Handler {
	t.Helper()
	books := book.NewMemoryRepo(book.Samples()...)
	return NewRouter(Deps{
		Config:    testConfig(),
		Logger:    zap.NewNop(),
		Users:     user.NewMemoryRepo(),
		Books:     books,
		ListItems: listitem.NewMemoryRepo(books),
		Ready:     ready,
	})
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func register(t *testing.T, h http.Handler, username string) user.View {
	t.Helper()
	w := serve(h, testutil.NewRequest(http.MethodPost, "/api/auth/register",
		map[string]string{"username": username, "password": password}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return testutil.DecodeBody[userEnvelope](t, w).User
}

func createItem(t *testing.T, h http.Handler, token, bookID string) listitem.Expanded {
	t.Helper()
	w := serve(h, testutil.NewRequestWithAuth(http.MethodPost, "/api/list-items", map[string]string{"bookId": bookID}, token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return testutil.DecodeBody[listItemEnvelope](t, w).ListItem
}

func TestAuthFlow(t *testing.T) {
	h := newTestRouter(t, nil)

	registered := register(t, h, "alice")
	assert.NotEmpty(t, registered.ID)
	assert.Equal(t, "alice", registered.Username)
	assert.NotEmpty(t, registered.Token)

	w := serve(h, testutil.NewRequest(http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": password}))
	require.Equal(t, http.StatusOK, w.Code)
	loggedIn := testutil.DecodeBody[userEnvelope](t, w).User
	assert.Equal(t, registered.ID, loggedIn.ID)
	assert.Equal(t, registered.Username, loggedIn.Username)

	w = serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/api/auth/me", nil, loggedIn.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, loggedIn, testutil.DecodeBody[userEnvelope](t, w).User)
}

func TestAuthErrors(t *testing.T) {
	h := newTestRouter(t, nil)
	register(t, h, "taken")

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantBody   string
	}{
		{
			name: "username must be unique",
			req: testutil.NewRequest(http.MethodPost, "/api/auth/register",
				map[string]string{"username": "taken", "password": password}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"username taken"}`,
		},
		{
			name:       "username required to register",
			req:        testutil.NewRequest(http.MethodPost, "/api/auth/register", map[string]string{"password": password}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"username can't be blank"}`,
		},
		{
			name:       "password required to login",
			req:        testutil.NewRequest(http.MethodPost, "/api/auth/login", map[string]string{"username": "taken"}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"password can't be blank"}`,
		},
		{
			name: "user must exist to login",
			req: testutil.NewRequest(http.MethodPost, "/api/auth/login",
				map[string]string{"username": "__will_never_exist__", "password": password}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"username or password is invalid"}`,
		},
		{
			name:       "me without a token",
			req:        testutil.NewRequest(http.MethodGet, "/api/auth/me", nil),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"code":"credentials_required","message":"No authorization token was found"}`,
		},
		{
			name:       "me with an expired token",
			req:        testutil.NewRequestWithAuth(http.MethodGet, "/api/auth/me", nil, testutil.GenerateExpiredToken("x", "x")),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"code":"invalid_token","message":"jwt expired"}`,
		},
		{
			name:       "me for a user that no longer exists",
			req:        testutil.NewRequestWithAuth(http.MethodGet, "/api/auth/me", nil, testutil.GenerateTestToken("ghost", "ghost")),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"code":"invalid_token","message":"invalid token"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.req)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestListItemCRUD(t *testing.T) {
	h := newTestRouter(t, nil)
	owner := register(t, h, "reader")
	b := book.Samples()[2]

	// create
	created := createItem(t, h, owner.Token, b.ID)
	assert.Equal(t, owner.ID, created.OwnerID)
	assert.Equal(t, b.ID, created.BookID)
	assert.Equal(t, listitem.Unrated, created.Rating)
	assert.Nil(t, created.FinishDate)
	require.NotNil(t, created.Book)
	assert.Equal(t, b, *created.Book)

	itemURL := "/api/list-items/" + created.ID

	// read
	w := serve(h, testutil.NewRequestWithAuth(http.MethodGet, itemURL, nil, owner.Token))
	require.Equal(t, http.StatusOK, w.Code)
	read := testutil.DecodeBody[listItemEnvelope](t, w).ListItem
	assert.Equal(t, created, read)

	// list
	w = serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/api/list-items", nil, owner.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []listitem.Expanded{created}, testutil.DecodeBody[listItemsEnvelope](t, w).ListItems)

	// update
	w = serve(h, testutil.NewRequestWithAuth(http.MethodPut, itemURL,
		map[string]any{"notes": "loved the ending", "rating": 5, "finishDate": 1700000000000}, owner.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := testutil.DecodeBody[listItemEnvelope](t, w).ListItem
	want := read
	want.Notes = "loved the ending"
	want.Rating = 5
	finish := int64(1700000000000)
	want.FinishDate = &finish
	assert.Equal(t, want, updated)

	// delete
	w = serve(h, testutil.NewRequestWithAuth(http.MethodDelete, itemURL, nil, owner.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = serve(h, testutil.NewRequestWithAuth(http.MethodGet, itemURL, nil, owner.Token))
	assert.Equal(t, http.StatusNotFound, w.Code)
	msg := testutil.DecodeBody[httpx.MessageResponse](t, w).Message
	assert.Equal(t, "No list item was found with the id of LIST_ITEM_ID", strings.Replace(msg, created.ID, "LIST_ITEM_ID", 1))
}

func TestCreateListItem_Duplicate(t *testing.T) {
	h := newTestRouter(t, nil)
	owner := register(t, h, "reader")
	bookID := book.Samples()[0].ID
	createItem(t, h, owner.Token, bookID)

	w := serve(h, testutil.NewRequestWithAuth(http.MethodPost, "/api/list-items", map[string]string{"bookId": bookID}, owner.Token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"message":"User `+owner.ID+` already has a list item for the book with the ID `+bookID+`"}`,
		w.Body.String())

	w = serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/api/list-items", nil, owner.Token))
	assert.Len(t, testutil.DecodeBody[listItemsEnvelope](t, w).ListItems, 1)
}

func TestCreateListItem_Validation(t *testing.T) {
	h := newTestRouter(t, nil)
	owner := register(t, h, "reader")

	w := serve(h, testutil.NewRequestWithAuth(http.MethodPost, "/api/list-items", nil, owner.Token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"No bookId provided"}`, w.Body.String())

	w = serve(h, testutil.NewRequestWithAuth(http.MethodPost, "/api/list-items", map[string]string{"bookId": "missing"}, owner.Token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"No book was found with the id of missing"}`, w.Body.String())
}

func TestListItems_OwnershipGate(t *testing.T) {
	h := newTestRouter(t, nil)
	owner := register(t, h, "owner")
	intruder := register(t, h, "intruder")
	item := createItem(t, h, owner.Token, book.Samples()[1].ID)
	itemURL := "/api/list-items/" + item.ID
	forbidden := `{"message":"User with id ` + intruder.ID + ` is not authorized to access the list item ` + item.ID + `"}`

	for _, req := range []*http.Request{
		testutil.NewRequestWithAuth(http.MethodGet, itemURL, nil, intruder.Token),
		testutil.NewRequestWithAuth(http.MethodPut, itemURL, map[string]string{"notes": "mine now"}, intruder.Token),
		testutil.NewRequestWithAuth(http.MethodDelete, itemURL, nil, intruder.Token),
	} {
		t.Run(req.Method, func(t *testing.T) {
			w := serve(h, req)
			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.JSONEq(t, forbidden, w.Body.String())
		})
	}

	w := serve(h, testutil.NewRequestWithAuth(http.MethodGet, itemURL, nil, owner.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, item, testutil.DecodeBody[listItemEnvelope](t, w).ListItem)

	w = serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/api/list-items", nil, intruder.Token))
	assert.JSONEq(t, `{"listItems":[]}`, w.Body.String())
}

func TestListItems_UnknownID(t *testing.T) {
	h := newTestRouter(t, nil)
	owner := register(t, h, "reader")

	w := serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/api/list-items/null", nil, owner.Token))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"No list item was found with the id of null"}`, w.Body.String())
}

func TestListItems_RequireAuth(t *testing.T) {
	h := newTestRouter(t, nil)

	w := serve(h, testutil.NewRequest(http.MethodGet, "/api/list-items", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := testutil.NewRequest(http.MethodGet, "/api/list-items", nil)
	req.Header.Set("Authorization", "Token abc")
	w = serve(h, req)
	assert.JSONEq(t, `{"code":"credentials_bad_scheme","message":"Format is Authorization: Bearer [token]"}`, w.Body.String())
}

func TestBooks(t *testing.T) {
	h := newTestRouter(t, nil)
	token := register(t, h, "reader").Token

	w := serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/api/books?query=tolstoy", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	books := testutil.DecodeBody[map[string][]book.Book](t, w)["books"]
	require.Len(t, books, 1)
	assert.Equal(t, "War and Peace", books[0].Title)

	w = serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/api/books/"+books[0].ID, nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, books[0], testutil.DecodeBody[map[string]book.Book](t, w)["book"])

	w = serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/api/books/nope", nil, token))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"No book was found with the id of nope"}`, w.Body.String())
}

func TestHealthAndReadiness(t *testing.T) {
	h := newTestRouter(t, nil)
	w := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", w.Body.String())
	w = serve(h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, "ready", w.Body.String())

	down := newTestRouter(t, func(context.Context) error { return errors.New("no db") })
	w = serve(down, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGlobalMiddleware(t *testing.T) {
	h := newTestRouter(t, nil)

	t.Run("request id and security headers", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/list-items", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		w := serve(h, req)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("cors rejects unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := serve(h, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown route", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Not Found"}`, w.Body.String())
	})

	t.Run("body too large", func(t *testing.T) {
		big := strings.NewReader(`{"username":"` + strings.Repeat("a", 2<<20) + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", big)
		w := serve(h, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
