package practice

import (
	"fmt"
	"time"
)

// State is the session lifecycle state.
type State int

const (
	StateAwaitingWord State = iota
	StateTypingWord
	StateWordComplete
	StateSessionComplete
)

var stateNames = map[State]string{
	StateAwaitingWord:    "awaiting_word",
	StateTypingWord:      "typing_word",
	StateWordComplete:    "word_complete",
	StateSessionComplete: "session_complete",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is what a single keystroke produced.
type Outcome int

const (
	OutcomeAccepted Outcome = iota + 1
	OutcomeRejected
	OutcomeWordCompleted
	OutcomeSessionCompleted
)

var outcomeNames = map[Outcome]string{
	OutcomeAccepted:         "accepted",
	OutcomeRejected:         "rejected",
	OutcomeWordCompleted:    "word_completed",
	OutcomeSessionCompleted: "session_completed",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Key is one raw keystroke from the UI host.
type Key struct {
	Rune  rune
	Shift bool
}

// WordResult is the per-word record kept while practising.
type WordResult struct {
	Spell    string `json:"spell"`
	Mistakes int    `json:"mistakes"`
	// Skipped is set for words with nothing to type.
	Skipped bool `json:"skipped,omitempty"`
}

// Stats counts keystrokes over the whole session.
type Stats struct {
	Correct   int       `json:"correct"`
	Incorrect int       `json:"incorrect"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitzero"`
}

// Accuracy is the share of accepted keystrokes, 0 when nothing was typed.
func (s Stats) Accuracy() float64 {
	total := s.Correct + s.Incorrect
	if total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(total)
}
