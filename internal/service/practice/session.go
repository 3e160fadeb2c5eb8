// Package practice implements the "type the word" quiz.
//
// A Session walks a WordList one word at a time. The current word is shown
// as a mask of blanks; each correct keystroke reveals the next character.
// Sessions are not safe for concurrent use; Manager serializes access.
package practice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordbook/internal/domain"
)

// Blank is the mask symbol for a character not yet typed.
const Blank = '_'

// punctuation lists the non-letter keys a word may require.
const punctuation = "'-.,"

// Session is one practice run over a word list.
type Session struct {
	id    uuid.UUID
	now   func() time.Time
	words domain.WordList

	state    State
	cursor   int
	answer   []rune
	mask     []rune
	position int

	results []WordResult
	stats   Stats
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithID sets the session id instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		s.id = id
	}
}

// Start begins a session over words. It fails with domain.ErrEmptyList when
// there is nothing to practise, including lists where no word has a single
// typeable character.
func Start(words domain.WordList, opts ...Option) (*Session, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("practice: start: %w", domain.ErrEmptyList)
	}

	s := &Session{
		now:   time.Now,
		words: append(domain.WordList(nil), words...),
		state: StateAwaitingWord,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == uuid.Nil {
		s.id = uuid.New()
	}

	s.results = make([]WordResult, len(s.words))
	for i, w := range s.words {
		s.results[i].Spell = w.Spell
	}
	s.stats.StartedAt = s.now()

	if !s.loadWord(0) {
		return nil, fmt.Errorf("practice: start: no typeable words: %w", domain.ErrEmptyList)
	}
	return s, nil
}

// HandleKey feeds one keystroke into the session.
//
// Keys outside the accepted set are ignored: no outcomes, no state change.
// A wrong key yields [Rejected]. A right key yields [Accepted], or
// [WordCompleted] when it finishes the word, or
// [WordCompleted, SessionCompleted] when it finishes the last word.
// Once the session is complete every call fails with domain.ErrInvalidState.
func (s *Session) HandleKey(k Key) ([]Outcome, error) {
	if s.state != StateTypingWord {
		return nil, fmt.Errorf("practice: handle key in state %s: %w", s.state, domain.ErrInvalidState)
	}

	r, ok := normalizeKey(k)
	if !ok {
		return nil, nil
	}

	if r != s.answer[s.position] {
		s.results[s.cursor].Mistakes++
		s.stats.Incorrect++
		return []Outcome{OutcomeRejected}, nil
	}

	s.stats.Correct++
	s.mask[s.position] = r
	s.position++
	s.skipUntypeable()

	if s.position < len(s.answer) {
		return []Outcome{OutcomeAccepted}, nil
	}

	s.state = StateWordComplete
	if s.loadWord(s.cursor + 1) {
		return []Outcome{OutcomeWordCompleted}, nil
	}
	return []Outcome{OutcomeWordCompleted, OutcomeSessionCompleted}, nil
}

// loadWord makes words[i] current, skipping words with nothing to type.
// It reports false and completes the session when no word is left.
func (s *Session) loadWord(i int) bool {
	for ; i < len(s.words); i++ {
		answer := []rune(s.words[i].Spell)
		if !hasTypeable(answer) {
			s.results[i].Skipped = true
			continue
		}

		s.cursor = i
		s.answer = answer
		s.mask = make([]rune, len(answer))
		for j, r := range answer {
			if typeable(r) {
				s.mask[j] = Blank
			} else {
				s.mask[j] = r
			}
		}
		s.position = 0
		s.skipUntypeable()
		s.state = StateTypingWord
		return true
	}

	s.cursor = len(s.words)
	s.answer = nil
	s.mask = nil
	s.position = 0
	s.state = StateSessionComplete
	s.stats.EndedAt = s.now()
	return false
}

func (s *Session) skipUntypeable() {
	for s.position < len(s.answer) && !typeable(s.answer[s.position]) {
		s.position++
	}
}

// ID returns the session handle.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Cursor is the index of the current word; len(Words()) once complete.
func (s *Session) Cursor() int { return s.cursor }

// Position is the index of the next character to type in the current word.
func (s *Session) Position() int { return s.position }

// Mask renders the current word with untyped characters blanked.
func (s *Session) Mask() string { return string(s.mask) }

// Current returns the word being typed.
func (s *Session) Current() (domain.WordEntry, bool) {
	if s.state == StateSessionComplete {
		return domain.WordEntry{}, false
	}
	return s.words[s.cursor], true
}

// Words returns the practised list.
func (s *Session) Words() domain.WordList {
	return append(domain.WordList(nil), s.words...)
}

// Results returns per-word mistake counts in list order.
func (s *Session) Results() []WordResult {
	return append([]WordResult(nil), s.results...)
}

// Stats returns the keystroke counters.
func (s *Session) Stats() Stats { return s.stats }

// normalizeKey maps a keystroke to the character it types. Letters take
// their case from Shift; listed punctuation ignores it.
func normalizeKey(k Key) (rune, bool) {
	r := k.Rune
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		if k.Shift {
			return toUpper(r), true
		}
		return toLower(r), true
	case strings.ContainsRune(punctuation, r):
		return r, true
	}
	return 0, false
}

func typeable(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || strings.ContainsRune(punctuation, r)
}

func hasTypeable(rs []rune) bool {
	for _, r := range rs {
		if typeable(r) {
			return true
		}
	}
	return false
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}
