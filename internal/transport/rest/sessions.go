package rest

import (
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordbook/internal/domain"
	"github.com/heartmarshall/wordbook/internal/service/practice"
)

const maxSessionBodyBytes = 4 << 20

type sessionManager interface {
	Start(account, book string, words domain.WordList) (practice.Snapshot, error)
	Get(id uuid.UUID) (practice.Snapshot, error)
	HandleKey(id uuid.UUID, k practice.Key) ([]practice.Outcome, practice.Snapshot, error)
	Finish(id uuid.UUID, commit func(practice.Summary) error) (practice.Summary, error)
}

// SessionHandler drives practice sessions for a UI host.
type SessionHandler struct {
	sessions sessionManager
	accounts accountService
	log      *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions sessionManager, accounts accountService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, accounts: accounts, log: logger.With("handler", "sessions")}
}

type startSessionRequest struct {
	Account string          `json:"account"`
	Book    string          `json:"book"`
	Words   domain.WordList `json:"words"`
}

type keyRequest struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
}

type keyResponse struct {
	Outcomes []practice.Outcome `json:"outcomes"`
	practice.Snapshot
}

// Start handles POST /sessions. Without words in the body the account's
// saved book is practised.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(w, r, maxSessionBodyBytes, &req); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	account := accountFrom(r, req.Account)
	words, bookName := req.Words, req.Book

	if len(words) == 0 && account != "" {
		saved, err := h.accounts.Load(r.Context(), account)
		if err != nil {
			writeServiceError(w, r, h.log, err)
			return
		}
		words, bookName = saved.Words, saved.Name
	}

	snap, err := h.sessions.Start(account, bookName, words)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// Get handles GET /sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	snap, err := h.sessions.Get(id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Key handles POST /sessions/{id}/keys with {"key": "a", "shift": false}.
// An ignored key answers 200 with no outcomes.
func (h *SessionHandler) Key(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req keyRequest
	if err := decodeJSON(w, r, 1<<10, &req); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if utf8.RuneCountInString(req.Key) != 1 {
		writeError(w, r, http.StatusBadRequest, "key must be exactly one character")
		return
	}
	key, _ := utf8.DecodeRuneInString(req.Key)

	outcomes, snap, err := h.sessions.HandleKey(id, practice.Key{Rune: key, Shift: req.Shift})
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if outcomes == nil {
		outcomes = []practice.Outcome{}
	}
	writeJSON(w, http.StatusOK, keyResponse{Outcomes: outcomes, Snapshot: snap})
}

// Finish handles DELETE /sessions/{id}. The practised list and the updated
// progress are saved back to the session's account, if it has one. When the
// save fails the session stays open so the client can retry.
func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	sum, err := h.sessions.Finish(id, func(sum practice.Summary) error {
		if sum.Account == "" {
			return nil
		}
		return h.accounts.Update(r.Context(), sum.Account, sum.SavedBook)
	})
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, sum)
}


func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, domain.NewValidationError("id", "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
