package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordbook/internal/config"
	"github.com/heartmarshall/wordbook/internal/domain"
	"github.com/heartmarshall/wordbook/internal/service/practice"
	"github.com/heartmarshall/wordbook/internal/transport/middleware"
)

func newTestRouter(t *testing.T, accounts *accountServiceMock, lookupsPerMinute int) http.Handler {
	t.Helper()

	logger := testLogger()
	lookupSvc := &lookupServiceMock{LookupFunc: func(_ context.Context, word string) (domain.WordEntry, error) {
		return domain.WordEntry{Spell: word, Explains: []domain.Explain{}}, nil
	}}

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	cfg := config.Config{
		CORS:      config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,DELETE,OPTIONS", AllowedHeaders: "Content-Type,X-Account"},
		RateLimit: config.RateLimitConfig{LookupsPerMinute: lookupsPerMinute},
	}

	return NewRouter(Handlers{
		Lookup:   NewLookupHandler(lookupSvc, logger),
		Books:    NewBookHandler(stubLoader(), accounts, logger),
		Sessions: NewSessionHandler(practice.NewManager(logger), accounts, logger),
		Health:   NewHealthHandler(nil, "test"),
	}, cfg, limiter, logger)
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newAccountServiceMock(), 100)

	tests := []struct {
		method string
		target string
		body   string
		want   int
	}{
		{http.MethodGet, "/lookup?word=apple", "", http.StatusOK},
		{http.MethodPost, "/lookup?word=apple", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/books", "apple pear", http.StatusOK},
		{http.MethodGet, "/accounts/alice/book", "", http.StatusNotFound},
		{http.MethodPost, "/sessions", `{"words":[{"spell":"a"}]}`, http.StatusCreated},
		{http.MethodGet, "/sessions/not-a-uuid", "", http.StatusBadRequest},
		{http.MethodGet, "/live", "", http.StatusOK},
		{http.MethodGet, "/ready", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_AccountHeaderSavesBook(t *testing.T) {
	t.Parallel()

	accounts := newAccountServiceMock()
	router := newTestRouter(t, accounts, 100)

	req := httptest.NewRequest(http.MethodPost, "/books?name=fruit", strings.NewReader("apple"))
	req.Header.Set(middleware.AccountHeader, "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/alice/book", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fruit"`)
}

func TestRouter_RateLimitsLookups(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newAccountServiceMock(), 2)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lookup?word=apple", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "health is not rate limited")
}

func TestRouter_BookChargesOneTokenPerWord(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newAccountServiceMock(), 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/books", strings.NewReader("a b c d e f g h")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"spell":"h"`, "body reaches the handler intact")

	// eight words against a burst of five leaves the client in debt
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lookup?word=apple", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouter_BookCostRejectsOverBudget(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newAccountServiceMock(), 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/books", strings.NewReader("a b c")))
	require.Equal(t, http.StatusOK, rec.Code)

	// two tokens left, three needed
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/books", strings.NewReader("d e f")))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouter_Preflight(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newAccountServiceMock(), 100)

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
