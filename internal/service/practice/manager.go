package practice

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordbook/internal/domain"
)

// Snapshot is a read-only view of a session, safe to hand to a UI host.
type Snapshot struct {
	ID       uuid.UUID `json:"id"`
	Account  string    `json:"account,omitempty"`
	Book     string    `json:"book,omitempty"`
	State    State     `json:"state"`
	Cursor   int       `json:"cursor"`
	Total    int       `json:"total"`
	Position int       `json:"position"`
	Mask     string    `json:"mask"`
	Prompt   *Prompt   `json:"prompt,omitempty"`
	Stats    Stats     `json:"stats"`
}

// Prompt is what the UI shows for the current word. It leaves out the
// spelling, which is what the user has to type.
type Prompt struct {
	Symbols       domain.Symbols       `json:"symbols"`
	Pronunciation domain.Pronunciation `json:"pronunciation"`
	Explains      []domain.Explain     `json:"explains"`
}

// Summary is returned when a session is finished.
type Summary struct {
	Snapshot
	Words   domain.WordList `json:"words"`
	Results []WordResult    `json:"results"`
}

// SavedBook returns what to store for the session's account: the practised
// words under the session's book name, with prev's progress updated by each
// word the session got past. Skipped words and the word left half-typed are
// not recorded.
func (s Summary) SavedBook(prev domain.SavedBook) domain.SavedBook {
	out := domain.SavedBook{
		Name:     s.Book,
		Words:    s.Words,
		Progress: slices.Clone(prev.Progress),
	}
	for i, res := range s.Results {
		if i >= s.Cursor || res.Skipped {
			continue
		}
		out.Record(res.Spell, res.Mistakes == 0)
	}
	return out
}

type managed struct {
	session   *Session
	account   string
	book      string
	finishing bool
}

// Manager is a registry of live sessions keyed by id.
type Manager struct {
	log *slog.Logger
	now func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*managed
}

// NewManager creates an empty Manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		log:      logger.With("service", "practice"),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*managed),
	}
}

// Start opens a session over words. account and book are labels carried
// into the summary; both may be empty.
func (m *Manager) Start(account, book string, words domain.WordList) (Snapshot, error) {
	s, err := Start(words, WithClock(m.now))
	if err != nil {
		return Snapshot{}, err
	}

	mg := &managed{session: s, account: account, book: book}

	m.mu.Lock()
	m.sessions[s.ID()] = mg
	m.mu.Unlock()

	m.log.Info("practice session started",
		slog.String("session_id", s.ID().String()),
		slog.String("account", account),
		slog.Int("words", len(words)),
	)

	return mg.snapshot(), nil
}

// Get returns the current view of a session.
func (m *Manager) Get(id uuid.UUID) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mg, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("practice: session %s: %w", id, domain.ErrNotFound)
	}
	return mg.snapshot(), nil
}

// HandleKey forwards a keystroke to a session.
func (m *Manager) HandleKey(id uuid.UUID, k Key) ([]Outcome, Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mg, ok := m.sessions[id]
	if !ok {
		return nil, Snapshot{}, fmt.Errorf("practice: session %s: %w", id, domain.ErrNotFound)
	}

	if mg.finishing {
		return nil, mg.snapshot(), fmt.Errorf("practice: session %s is finishing: %w", id, domain.ErrInvalidState)
	}

	outcomes, err := mg.session.HandleKey(k)
	if err != nil {
		return nil, mg.snapshot(), err
	}
	return outcomes, mg.snapshot(), nil
}

// Finish ends a session and returns its summary. Unfinished sessions may be
// finished early.
//
// commit, if not nil, runs with the summary before the session is removed.
// If it fails the session stays live and Finish may be retried. Keys and a
// second Finish are refused with domain.ErrInvalidState while commit runs.
func (m *Manager) Finish(id uuid.UUID, commit func(Summary) error) (Summary, error) {
	m.mu.Lock()
	mg, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return Summary{}, fmt.Errorf("practice: session %s: %w", id, domain.ErrNotFound)
	}
	if mg.finishing {
		m.mu.Unlock()
		return Summary{}, fmt.Errorf("practice: session %s is finishing: %w", id, domain.ErrInvalidState)
	}
	mg.finishing = true
	sum := Summary{
		Snapshot: mg.snapshot(),
		Words:    mg.session.Words(),
		Results:  mg.session.Results(),
	}
	m.mu.Unlock()

	if sum.Stats.EndedAt.IsZero() {
		sum.Stats.EndedAt = m.now()
	}

	if commit != nil {
		if err := commit(sum); err != nil {
			m.mu.Lock()
			mg.finishing = false
			m.mu.Unlock()

			m.log.Warn("practice session kept after failed finish",
				slog.String("session_id", id.String()),
				slog.String("account", mg.account),
				slog.String("error", err.Error()),
			)
			return Summary{}, err
		}
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.log.Info("practice session finished",
		slog.String("session_id", id.String()),
		slog.String("account", mg.account),
		slog.String("state", sum.State.String()),
		slog.Int("correct", sum.Stats.Correct),
		slog.Int("incorrect", sum.Stats.Incorrect),
	)

	return sum, nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (mg *managed) snapshot() Snapshot {
	s := mg.session
	snap := Snapshot{
		ID:       s.ID(),
		Account:  mg.account,
		Book:     mg.book,
		State:    s.State(),
		Cursor:   s.Cursor(),
		Total:    len(s.words),
		Position: s.Position(),
		Mask:     s.Mask(),
		Stats:    s.Stats(),
	}
	if cur, ok := s.Current(); ok {
		snap.Prompt = &Prompt{
			Symbols:       cur.Symbols,
			Pronunciation: cur.Pronunciation,
			Explains:      cur.Explains,
		}
	}
	return snap
}
