package game

import (
	"errors"
	"math"
	"testing"

	"github.com/lox/acpc/poker"
)

func TestValueOfStateBeforeFinish(t *testing.T) {
	s := holdemState(t)

	if _, err := s.ValueOfState(0); !errors.Is(err, ErrNotFinished) {
		t.Errorf("ValueOfState error = %v, want ErrNotFinished", err)
	}
	if _, err := s.ValueOfState(3); !errors.Is(err, ErrInvalidPlayer) {
		t.Errorf("ValueOfState(3) error = %v, want ErrInvalidPlayer", err)
	}
}

func TestShowdownReference(t *testing.T) {
	// Reference fixture: players 1 and 2 tie with the better kicker and
	// split the pot; player 0 loses their ante.
	s := holdemState(t)
	playUntilShowdown(t, s)

	holeCards := [][]poker.Card{{1, 35}, {5, 50}, {11, 51}}
	for p, cards := range holeCards {
		if err := s.SetHoleCards(p, cards); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SetBoardCards([]poker.Card{17, 19, 23, 29, 37}); err != nil {
		t.Fatal(err)
	}

	for p, want := range []float64{-100, 50, 50} {
		got, err := s.ValueOfState(p)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ValueOfState(%d) = %v, want %v", p, got, want)
		}
	}

	if _, err := s.ValueOfState(3); !errors.Is(err, ErrInvalidPlayer) {
		t.Errorf("ValueOfState(3) error = %v, want ErrInvalidPlayer", err)
	}
}

func TestShowdownZeroSum(t *testing.T) {
	deals := [][][]poker.Card{
		{{1, 35}, {5, 50}, {11, 51}},
		{{0, 4}, {8, 12}, {16, 20}},
		{{51, 47}, {3, 7}, {22, 26}},
	}
	boards := [][]poker.Card{
		{17, 19, 23, 29, 37},
		{24, 28, 32, 36, 40},
		{2, 6, 10, 14, 18},
	}

	for i := range deals {
		s := NewState(holdemGame(t), uint32(i))
		playUntilShowdown(t, s)

		for p, cards := range deals[i] {
			if err := s.SetHoleCards(p, cards); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.SetBoardCards(boards[i]); err != nil {
			t.Fatal(err)
		}

		sum := 0.0
		for p := 0; p < 3; p++ {
			v, err := s.ValueOfState(p)
			if err != nil {
				t.Fatal(err)
			}
			sum += v
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("deal %d: payoffs sum to %v, want 0", i, sum)
		}
	}
}

func TestFoldedPlayersLoseTheirSpent(t *testing.T) {
	s := holdemState(t)

	// Seat 2 raises, everyone folds.
	for _, a := range []Action{RaiseTo(300), FoldAction(), FoldAction()} {
		if err := s.Apply(a); err != nil {
			t.Fatal(err)
		}
	}
	if !s.IsFinished() {
		t.Fatal("hand should end when one player remains")
	}

	// No cards needed when the hand ends by folds.
	for p, want := range []float64{-50, -100, 150} {
		got, err := s.ValueOfState(p)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ValueOfState(%d) = %v, want %v", p, got, want)
		}
	}
}

func TestShowdownRequiresCards(t *testing.T) {
	s := holdemState(t)
	playUntilShowdown(t, s)

	if _, err := s.ValueOfState(0); err == nil {
		t.Error("expected error without dealt cards")
	}

	holeCards := [][]poker.Card{{1, 35}, {5, 50}, {11, 51}}
	for p, cards := range holeCards {
		if err := s.SetHoleCards(p, cards); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.ValueOfState(0); err == nil {
		t.Error("expected error without board cards")
	}
}

func TestLimitShowdownPairWins(t *testing.T) {
	s := leducState(t)

	// Check-down: one call per seat ends each round.
	for _, a := range []Action{CallAction(), CallAction(), CallAction(), CallAction()} {
		if err := s.Apply(a); err != nil {
			t.Fatal(err)
		}
	}
	if !s.IsFinished() {
		t.Fatal("hand should finish after the check-down")
	}

	// Seat 1's ace pairs the board; seat 0 plays deuce high.
	if err := s.SetHoleCards(0, []poker.Card{0}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetHoleCards(1, []poker.Card{48}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBoardCards([]poker.Card{49}); err != nil {
		t.Fatal(err)
	}

	for p, want := range []float64{-1, 1} {
		got, err := s.ValueOfState(p)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ValueOfState(%d) = %v, want %v", p, got, want)
		}
	}
}

func TestLimitShowdownRaisedPot(t *testing.T) {
	s := leducState(t)

	// One raise per round, called both times.
	for _, a := range []Action{RaiseTo(3), CallAction(), RaiseTo(7), CallAction()} {
		if err := s.Apply(a); err != nil {
			t.Fatal(err)
		}
	}
	if !s.IsFinished() {
		t.Fatal("hand should finish after the final call")
	}

	// Seat 0 pairs the board this time.
	if err := s.SetHoleCards(0, []poker.Card{48}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetHoleCards(1, []poker.Card{44}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBoardCards([]poker.Card{49}); err != nil {
		t.Fatal(err)
	}

	for p, want := range []float64{7, -7} {
		got, err := s.ValueOfState(p)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ValueOfState(%d) = %v, want %v", p, got, want)
		}
	}
}

func TestLimitShowdownTieSplits(t *testing.T) {
	s := leducState(t)

	for _, a := range []Action{CallAction(), CallAction(), CallAction(), CallAction()} {
		if err := s.Apply(a); err != nil {
			t.Fatal(err)
		}
	}

	// Matching kings against an ace board; suits never break ties.
	if err := s.SetHoleCards(0, []poker.Card{44}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetHoleCards(1, []poker.Card{45}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBoardCards([]poker.Card{49}); err != nil {
		t.Fatal(err)
	}

	for p := 0; p < 2; p++ {
		got, err := s.ValueOfState(p)
		if err != nil {
			t.Fatal(err)
		}
		if got != 0 {
			t.Errorf("ValueOfState(%d) = %v, want 0", p, got)
		}
	}
}

func TestShowdownSingleWinnerTakesPot(t *testing.T) {
	s := holdemState(t)
	playUntilShowdown(t, s)

	// Seat 0 holds aces; the others hold low offsuit cards.
	holeCards := [][]poker.Card{{50, 51}, {5, 11}, {13, 21}}
	for p, cards := range holeCards {
		if err := s.SetHoleCards(p, cards); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SetBoardCards([]poker.Card{17, 30, 34, 38, 46}); err != nil {
		t.Fatal(err)
	}

	v0, err := s.ValueOfState(0)
	if err != nil {
		t.Fatal(err)
	}
	if v0 != 200 {
		t.Errorf("ValueOfState(0) = %v, want 200", v0)
	}
	for p := 1; p < 3; p++ {
		v, err := s.ValueOfState(p)
		if err != nil {
			t.Fatal(err)
		}
		if v != -100 {
			t.Errorf("ValueOfState(%d) = %v, want -100", p, v)
		}
	}
}
