package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordbook/internal/domain"
)

type lookupService interface {
	Lookup(ctx context.Context, word string) (domain.WordEntry, error)
}

// LookupHandler serves single-word lookups.
type LookupHandler struct {
	svc lookupService
	log *slog.Logger
}

// NewLookupHandler creates a LookupHandler.
func NewLookupHandler(svc lookupService, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{svc: svc, log: logger.With("handler", "lookup")}
}

// Lookup handles GET /lookup?word=.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Lookup(r.Context(), r.URL.Query().Get("word"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
