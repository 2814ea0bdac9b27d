package prediction

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/card"
)

// Store holds the prediction schedule, persisted as a JSON map keyed by game
// number. All operations are thread-safe.
type Store struct {
	mu    sync.Mutex
	path  string
	preds map[string]*Prediction
}

// NewStore loads the prediction file at path, starting empty when the file
// does not exist.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  path,
		preds: make(map[string]*Prediction),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading predictions: %w", err)
	}
	if err := json.Unmarshal(raw, &s.preds); err != nil {
		return nil, fmt.Errorf("parsing predictions: %w", err)
	}
	if s.preds == nil {
		s.preds = make(map[string]*Prediction)
	}
	return s, nil
}

// Put inserts or replaces the prediction for its game number.
func (s *Store) Put(p *Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preds[key(p.Numero)] = p
	return s.save()
}

// PutAll inserts a batch in one persisted write. When replace is true the
// existing schedule is dropped first; the previous entry count is returned.
func (s *Store) PutAll(preds []*Prediction, replace bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := len(s.preds)
	if replace {
		s.preds = make(map[string]*Prediction, len(preds))
	}
	for _, p := range preds {
		s.preds[key(p.Numero)] = p
	}
	return old, s.save()
}

// Get returns the prediction for a game number.
func (s *Store) Get(numero int) (*Prediction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.preds[key(numero)]
	return p, ok
}

// Clear drops all predictions and returns how many were removed.
func (s *Store) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.preds)
	s.preds = make(map[string]*Prediction)
	return n, s.save()
}

// Stats counts predictions by state.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.preds)}
	for _, p := range s.preds {
		switch {
		case p.Verified:
			st.Verified++
		case p.Launched:
			st.Launched++
		default:
			st.Pending++
		}
	}
	return st
}

// ActiveCount returns the number of launched, unverified predictions.
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.preds {
		if p.Launched && !p.Verified {
			n++
		}
	}
	return n
}

// FindClose returns the pending prediction closest ahead of gameNumber
// within the launch window (1 <= numero-gameNumber <= LaunchWindow).
func (s *Store) FindClose(gameNumber int) (*Prediction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *Prediction
	for _, p := range s.preds {
		if p.Launched || p.Verified {
			continue
		}
		gap := p.Numero - gameNumber
		if gap < 1 || gap > LaunchWindow {
			continue
		}
		if best == nil || p.Numero < best.Numero {
			best = p
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// MarkLaunched records the published message of a prediction.
func (s *Store) MarkLaunched(numero int, messageID int, channelID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.preds[key(numero)]
	if !ok {
		return fmt.Errorf("prédiction inconnue: %d", numero)
	}
	p.Launched = true
	p.MessageID = messageID
	p.ChannelID = channelID
	p.CurrentOffset = 0
	return s.save()
}

// MarkVerified flags a prediction as resolved after its message edit
// succeeded.
func (s *Store) MarkVerified(numero int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.preds[key(numero)]
	if !ok {
		return fmt.Errorf("prédiction inconnue: %d", numero)
	}
	p.Verified = true
	return s.save()
}

// Advance runs the verification pass for one final game result. Offsets of
// launched predictions advance as game numbers pass them; resolved
// predictions come back as outcomes for their messages to be edited. The
// caller confirms each edit with MarkVerified.
func (s *Store) Advance(gameNumber int, messageText string) []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A result only verifies once the message is final; in-progress edits
	// (⏰/▶ markers) are ignored until the source channel settles them.
	final := card.IsFinal(messageText)
	winner, _ := card.ResultWinner(messageText)

	var outcomes []Outcome
	dirty := false

	for k, p := range s.preds {
		if !p.Launched || p.Verified {
			continue
		}

		target := p.Numero + p.CurrentOffset

		// Skipped game numbers burn offsets.
		if gameNumber > target {
			for p.CurrentOffset <= MaxOffset && gameNumber > p.Numero+p.CurrentOffset {
				p.CurrentOffset++
			}
			dirty = true
			if p.CurrentOffset > MaxOffset {
				outcomes = append(outcomes, s.outcome(k, p, StatusFailed))
				continue
			}
		}

		if gameNumber != p.Numero+p.CurrentOffset {
			continue
		}
		if !final {
			// The result is still being edited; wait for the final version.
			continue
		}

		if winner == p.Victoire {
			outcomes = append(outcomes, s.outcome(k, p, StatusWon(p.CurrentOffset)))
			dirty = true
			continue
		}

		p.CurrentOffset++
		dirty = true
		if p.CurrentOffset > MaxOffset {
			outcomes = append(outcomes, s.outcome(k, p, StatusFailed))
		}
	}

	if dirty {
		if err := s.save(); err != nil {
			// Offsets stay correct in memory; the next successful save
			// catches up.
			return outcomes
		}
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Numero < outcomes[j].Numero })
	return outcomes
}

func (s *Store) outcome(k string, p *Prediction, status string) Outcome {
	return Outcome{
		Key:       k,
		Numero:    p.Numero,
		Victoire:  p.Victoire,
		Status:    status,
		MessageID: p.MessageID,
		ChannelID: p.ChannelID,
	}
}

// save persists the schedule. Caller must hold s.mu.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.preds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding predictions: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("writing predictions: %w", err)
	}
	return nil
}

func key(numero int) string {
	return strconv.Itoa(numero)
}
