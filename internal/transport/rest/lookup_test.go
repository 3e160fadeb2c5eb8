package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordbook/internal/domain"
)

func TestLookupHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError string
	}{
		{name: "found", wantCode: http.StatusOK},
		{name: "empty word", err: domain.NewValidationError("word", "required"), wantCode: http.StatusBadRequest, wantError: "validation: word: required"},
		{name: "network", err: fmt.Errorf("bing: fetch: %w", &domain.NetworkError{Err: context.Canceled}), wantCode: http.StatusBadGateway},
		{name: "timeout", err: fmt.Errorf("lookup: %w", context.DeadlineExceeded), wantCode: http.StatusGatewayTimeout},
		{name: "unexpected", err: fmt.Errorf("boom"), wantCode: http.StatusInternalServerError, wantError: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotWord string
			svc := &lookupServiceMock{LookupFunc: func(_ context.Context, word string) (domain.WordEntry, error) {
				gotWord = word
				if tt.err != nil {
					return domain.WordEntry{}, tt.err
				}
				return domain.WordEntry{Spell: word, Explains: []domain.Explain{}}, nil
			}}
			h := NewLookupHandler(svc, testLogger())

			rec := httptest.NewRecorder()
			h.Lookup(rec, httptest.NewRequest(http.MethodGet, "/lookup?word=apple", nil))

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "apple", gotWord)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.err == nil {
				var entry domain.WordEntry
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&entry))
				assert.Equal(t, "apple", entry.Spell)
				return
			}

			var resp errorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp.Error)
			}
		})
	}
}
