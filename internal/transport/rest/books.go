package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordbook/internal/domain"
	"github.com/heartmarshall/wordbook/internal/service/account"
	"github.com/heartmarshall/wordbook/internal/service/book"
	"github.com/heartmarshall/wordbook/pkg/ctxutil"
)

const maxBookBytes = 1 << 20

type bookLoader interface {
	LoadBook(ctx context.Context, source string) (book.Result, error)
}

type accountService interface {
	Load(ctx context.Context, account string) (domain.SavedBook, error)
	Update(ctx context.Context, account string, fn func(prev domain.SavedBook) domain.SavedBook) error
}

// BookHandler loads books and serves saved ones.
type BookHandler struct {
	loader   bookLoader
	accounts accountService
	log      *slog.Logger
}

// NewBookHandler creates a BookHandler.
func NewBookHandler(loader bookLoader, accounts accountService, logger *slog.Logger) *BookHandler {
	return &BookHandler{loader: loader, accounts: accounts, log: logger.With("handler", "books")}
}

type failedWordResponse struct {
	Index int    `json:"index"`
	Spell string `json:"spell"`
	Error string `json:"error"`
}

type loadBookResponse struct {
	Account string               `json:"account,omitempty"`
	Name    string               `json:"name,omitempty"`
	Words   domain.WordList      `json:"words"`
	Failed  []failedWordResponse `json:"failed"`
}

// Load handles POST /books. The body is the raw book text. When an account
// is given (?account= or X-Account) the result is saved for it under ?name=.
func (h *BookHandler) Load(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBookBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "book too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	res, err := h.loader.LoadBook(r.Context(), string(body))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	resp := loadBookResponse{
		Account: accountFrom(r, r.URL.Query().Get("account")),
		Name:    r.URL.Query().Get("name"),
		Words:   res.Words,
		Failed:  make([]failedWordResponse, 0, len(res.Failed)),
	}
	for _, f := range res.Failed {
		resp.Failed = append(resp.Failed, failedWordResponse{Index: f.Index, Spell: f.Spell, Error: f.Err.Error()})
	}

	if resp.Account != "" {
		if err := h.accounts.Update(r.Context(), resp.Account, account.KeepProgress(resp.Name, res.Words)); err != nil {
			writeServiceError(w, r, h.log, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Saved handles GET /accounts/{name}/book.
func (h *BookHandler) Saved(w http.ResponseWriter, r *http.Request) {
	saved, err := h.accounts.Load(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// bookCost prices a POST /books request at one dictionary lookup per
// token. The body is buffered and put back for the handler.
func bookCost(r *http.Request) int {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBookBytes+1))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil || len(data) > maxBookBytes {
		return 1
	}
	return len(book.Tokenize(string(data)))
}

// accountFrom prefers an explicit account and falls back to the one the
// Account middleware put in the context.
func accountFrom(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	account, _ := ctxutil.AccountFromCtx(r.Context())
	return account
}
