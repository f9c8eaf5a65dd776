package dealer

import (
	"math/rand"
	"testing"

	"github.com/lox/acpc/game"
	"github.com/lox/acpc/poker"
)

func holdem(t *testing.T) *game.Definition {
	t.Helper()
	def, err := game.NewDefinition(game.DefinitionConfig{
		BettingType:   game.NoLimitBetting,
		NumPlayers:    3,
		NumRounds:     4,
		Stacks:        []int{20000, 20000, 20000},
		Blinds:        []int{50, 100, 0},
		NumHoleCards:  2,
		NumBoardCards: []int{0, 3, 1, 1},
		FirstPlayers:  []int{2, 0, 0, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	return def
}

func TestDeckDealsEveryCardOnce(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))

	seen := make(map[poker.Card]bool)
	for _, c := range d.Deal(poker.NumCards) {
		if !c.Valid() {
			t.Fatalf("dealt invalid card %d", uint8(c))
		}
		if seen[c] {
			t.Fatalf("card %s dealt twice", c)
		}
		seen[c] = true
	}
	if len(seen) != poker.NumCards {
		t.Fatalf("dealt %d distinct cards, want %d", len(seen), poker.NumCards)
	}
	if d.CardsRemaining() != 0 {
		t.Errorf("CardsRemaining() = %d, want 0", d.CardsRemaining())
	}
	if d.Deal(1) != nil {
		t.Error("dealing from an empty deck should return nil")
	}
}

func TestDeckDeterministicBySeed(t *testing.T) {
	a := NewDeck(rand.New(rand.NewSource(7))).Deal(10)
	b := NewDeck(rand.New(rand.NewSource(7))).Deal(10)
	c := NewDeck(rand.New(rand.NewSource(8))).Deal(10)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at card %d: %s vs %s", i, a[i], b[i])
		}
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced an identical deal")
	}
}

func TestDealHand(t *testing.T) {
	def := holdem(t)
	s := game.NewState(def, 0)
	d := New(42)

	if err := d.DealHand(s); err != nil {
		t.Fatal(err)
	}

	seen := make(map[poker.Card]bool)
	for p := 0; p < def.NumPlayers(); p++ {
		cards, err := s.HoleCards(p)
		if err != nil {
			t.Fatal(err)
		}
		if len(cards) != def.NumHoleCards() {
			t.Fatalf("player %d has %d hole cards, want %d", p, len(cards), def.NumHoleCards())
		}
		for _, c := range cards {
			if seen[c] {
				t.Fatalf("card %s dealt twice", c)
			}
			seen[c] = true
		}
	}
	if board := s.BoardCards(); len(board) != 0 {
		t.Errorf("preflop board has %d cards, want 0", len(board))
	}
}

func TestRevealFollowsRounds(t *testing.T) {
	s := game.NewState(holdem(t), 0)
	d := New(42)
	if err := d.DealHand(s); err != nil {
		t.Fatal(err)
	}

	// Close the first round: call, call, call (big blind checks).
	for _, a := range []game.Action{game.CallAction(), game.CallAction(), game.CallAction()} {
		if err := s.Apply(a); err != nil {
			t.Fatal(err)
		}
	}
	if s.Round() != 1 {
		t.Fatalf("Round() = %d, want 1", s.Round())
	}
	if err := d.Reveal(s); err != nil {
		t.Fatal(err)
	}
	if got := len(s.BoardCards()); got != 3 {
		t.Errorf("flop board has %d cards, want 3", got)
	}
}

func TestRevealAfterAllInRunout(t *testing.T) {
	s := game.NewState(holdem(t), 0)
	d := New(42)
	if err := d.DealHand(s); err != nil {
		t.Fatal(err)
	}

	for _, a := range []game.Action{game.RaiseTo(20000), game.FoldAction(), game.CallAction()} {
		if err := s.Apply(a); err != nil {
			t.Fatal(err)
		}
	}
	if !s.IsFinished() {
		t.Fatal("hand should be finished")
	}
	if err := d.Reveal(s); err != nil {
		t.Fatal(err)
	}
	if got := len(s.BoardCards()); got != 5 {
		t.Errorf("runout board has %d cards, want 5", got)
	}

	// The runout makes the hand valuable without further input.
	sum := 0.0
	for p := 0; p < 3; p++ {
		v, err := s.ValueOfState(p)
		if err != nil {
			t.Fatal(err)
		}
		sum += v
	}
	if sum != 0 {
		t.Errorf("payoffs sum to %v, want 0", sum)
	}
}
