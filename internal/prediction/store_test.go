package prediction

import (
	"path/filepath"
	"testing"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/card"
)

// Result fixtures: (4♦️5♥️)(7♦️8♣️) scores 9 vs 5 (Joueur wins),
// (3♦️9♥️)(10♦️8♣️) scores 2 vs 8 (Banquier wins).

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "predictions.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := s.Put(&Prediction{Numero: 881, Victoire: card.WinnerPlayer}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.MarkLaunched(881, 42, -100); err != nil {
		t.Fatalf("MarkLaunched: %v", err)
	}

	s2, err := NewStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	p, ok := s2.Get(881)
	if !ok {
		t.Fatal("prediction lost across reload")
	}
	if !p.Launched || p.MessageID != 42 || p.ChannelID != -100 {
		t.Errorf("reloaded prediction = %+v", p)
	}
}

func TestPutAllReplace(t *testing.T) {
	s := newStore(t)
	s.Put(&Prediction{Numero: 100, Victoire: card.WinnerPlayer})

	old, err := s.PutAll([]*Prediction{
		{Numero: 881, Victoire: card.WinnerPlayer},
		{Numero: 886, Victoire: card.WinnerBanker},
	}, true)
	if err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	if old != 1 {
		t.Errorf("old count = %d, want 1", old)
	}
	if _, ok := s.Get(100); ok {
		t.Error("replace mode kept old prediction")
	}
	if st := s.Stats(); st.Total != 2 || st.Pending != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestFindClose(t *testing.T) {
	tests := []struct {
		name       string
		numero     int
		gameNumber int
		want       bool
	}{
		{"one ahead", 881, 880, true},
		{"window edge", 881, 878, true},
		{"too far ahead", 881, 877, false},
		{"already reached", 881, 881, false},
		{"already passed", 881, 882, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			s.Put(&Prediction{Numero: tt.numero, Victoire: card.WinnerPlayer})

			p, ok := s.FindClose(tt.gameNumber)
			if ok != tt.want {
				t.Fatalf("FindClose(%d) ok = %v, want %v", tt.gameNumber, ok, tt.want)
			}
			if ok && p.Numero != tt.numero {
				t.Errorf("FindClose returned %d", p.Numero)
			}
		})
	}
}

func TestFindClosePrefersNearest(t *testing.T) {
	s := newStore(t)
	s.Put(&Prediction{Numero: 883, Victoire: card.WinnerPlayer})
	s.Put(&Prediction{Numero: 881, Victoire: card.WinnerBanker})

	p, ok := s.FindClose(880)
	if !ok || p.Numero != 881 {
		t.Errorf("FindClose = (%v, %v), want numero 881", p, ok)
	}
}

func TestFindCloseSkipsLaunched(t *testing.T) {
	s := newStore(t)
	s.Put(&Prediction{Numero: 881, Victoire: card.WinnerPlayer})
	s.MarkLaunched(881, 1, -100)

	if _, ok := s.FindClose(880); ok {
		t.Error("FindClose returned a launched prediction")
	}
}

func launched(t *testing.T, s *Store, numero int, winner card.Winner) {
	t.Helper()
	if err := s.Put(&Prediction{Numero: numero, Victoire: winner}); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkLaunched(numero, 7, -100); err != nil {
		t.Fatal(err)
	}
}

func TestAdvanceWinAtOffsetZero(t *testing.T) {
	s := newStore(t)
	launched(t, s, 881, card.WinnerPlayer)

	outcomes := s.Advance(881, "#N881. (4♦️5♥️)(7♦️8♣️)")
	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %v", outcomes)
	}
	if outcomes[0].Status != "✅0️⃣" {
		t.Errorf("status = %q, want ✅0️⃣", outcomes[0].Status)
	}
	if outcomes[0].MessageID != 7 || outcomes[0].ChannelID != -100 {
		t.Errorf("outcome message ref = %+v", outcomes[0])
	}
}

func TestAdvanceWinAtOffsetOne(t *testing.T) {
	s := newStore(t)
	launched(t, s, 881, card.WinnerPlayer)

	// Banker wins game 881: offset advances, nothing resolves
	if out := s.Advance(881, "#N881. (3♦️9♥️)(10♦️8♣️)"); len(out) != 0 {
		t.Fatalf("unexpected outcomes: %v", out)
	}
	p, _ := s.Get(881)
	if p.CurrentOffset != 1 {
		t.Fatalf("offset = %d, want 1", p.CurrentOffset)
	}

	// Player wins game 882: resolves at offset 1
	out := s.Advance(882, "#N882. (4♦️5♥️)(7♦️8♣️)")
	if len(out) != 1 || out[0].Status != "✅1️⃣" {
		t.Errorf("outcomes = %v, want ✅1️⃣", out)
	}
}

func TestAdvanceFailAfterLastOffset(t *testing.T) {
	s := newStore(t)
	launched(t, s, 881, card.WinnerPlayer)

	s.Advance(881, "#N881. (3♦️9♥️)(10♦️8♣️)")
	s.Advance(882, "#N882. (3♦️9♥️)(10♦️8♣️)")
	out := s.Advance(883, "#N883. (3♦️9♥️)(10♦️8♣️)")

	if len(out) != 1 || out[0].Status != StatusFailed {
		t.Errorf("outcomes = %v, want %s", out, StatusFailed)
	}
}

func TestAdvanceSkippedNumbersBurnOffsets(t *testing.T) {
	s := newStore(t)
	launched(t, s, 881, card.WinnerPlayer)

	// Source jumps straight to 883: offsets 0 and 1 are burned, game 883
	// is exactly offset 2 and the player wins there.
	out := s.Advance(883, "#N883. (4♦️5♥️)(7♦️8♣️)")
	if len(out) != 1 || out[0].Status != "✅2️⃣" {
		t.Errorf("outcomes = %v, want ✅2️⃣", out)
	}
}

func TestAdvanceSkipPastWindowFails(t *testing.T) {
	s := newStore(t)
	launched(t, s, 881, card.WinnerPlayer)

	out := s.Advance(890, "#N890. (4♦️5♥️)(7♦️8♣️)")
	if len(out) != 1 || out[0].Status != StatusFailed {
		t.Errorf("outcomes = %v, want %s", out, StatusFailed)
	}
}

func TestAdvanceIgnoresNonFinalResult(t *testing.T) {
	s := newStore(t)
	launched(t, s, 881, card.WinnerPlayer)

	out := s.Advance(881, "#N881 ⏰ (4♦️5♥️)(7♦️8♣️)")
	if len(out) != 0 {
		t.Fatalf("unexpected outcomes: %v", out)
	}
	p, _ := s.Get(881)
	if p.CurrentOffset != 0 {
		t.Errorf("offset advanced on non-final result: %d", p.CurrentOffset)
	}
}

func TestAdvanceResolvesAfterInProgressEdit(t *testing.T) {
	s := newStore(t)
	launched(t, s, 881, card.WinnerPlayer)

	// The source channel posts the result while still editing it, then
	// settles it. Only the settled version resolves the prediction.
	if out := s.Advance(881, "#N881. ⏰ (4♦️5♥️)(7♦️8♣️)"); len(out) != 0 {
		t.Fatalf("in-progress message resolved the prediction: %v", out)
	}
	out := s.Advance(881, "#N881. (4♦️5♥️)(7♦️8♣️)")
	if len(out) != 1 || out[0].Status != "✅0️⃣" {
		t.Errorf("outcomes = %v, want ✅0️⃣", out)
	}
}

func TestAdvanceTieMatchesNeither(t *testing.T) {
	s := newStore(t)
	launched(t, s, 881, card.WinnerPlayer)

	// 8 vs 8: tie, player prediction does not win; offset advances
	out := s.Advance(881, "#N881. (4♦️4♥️)(3♦️5♣️)")
	if len(out) != 0 {
		t.Fatalf("unexpected outcomes: %v", out)
	}
	p, _ := s.Get(881)
	if p.CurrentOffset != 1 {
		t.Errorf("offset = %d, want 1", p.CurrentOffset)
	}
}

func TestMarkVerified(t *testing.T) {
	s := newStore(t)
	launched(t, s, 881, card.WinnerPlayer)

	if err := s.MarkVerified(881); err != nil {
		t.Fatalf("MarkVerified: %v", err)
	}
	if s.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", s.ActiveCount())
	}
	// Verified predictions leave the verification pass
	if out := s.Advance(881, "#N881. (4♦️5♥️)(7♦️8♣️)"); len(out) != 0 {
		t.Errorf("verified prediction resolved again: %v", out)
	}
}

func TestStatusWon(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{0, "✅0️⃣"},
		{1, "✅1️⃣"},
		{2, "✅2️⃣"},
		{3, StatusFailed},
		{-1, StatusFailed},
	}
	for _, tt := range tests {
		if got := StatusWon(tt.offset); got != tt.want {
			t.Errorf("StatusWon(%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestClear(t *testing.T) {
	s := newStore(t)
	s.Put(&Prediction{Numero: 1, Victoire: card.WinnerPlayer})
	s.Put(&Prediction{Numero: 2, Victoire: card.WinnerBanker})

	n, err := s.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear = %d, want 2", n)
	}
	if st := s.Stats(); st.Total != 0 {
		t.Errorf("stats after clear = %+v", st)
	}
}
