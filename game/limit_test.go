package game

import (
	"errors"
	"testing"
)

func leducState(t *testing.T) *State {
	t.Helper()
	return NewState(leducGame(t), 0)
}

func TestLimitRaiseBounds(t *testing.T) {
	s := leducState(t)

	// Round 0: fixed raise of 2 on top of the blind of 1.
	min, max, err := s.RaiseBounds()
	if err != nil {
		t.Fatal(err)
	}
	if min != 3 || max != 3 {
		t.Fatalf("RaiseBounds() = (%d, %d), want (3, 3)", min, max)
	}

	if s.IsValidAction(RaiseTo(2)) {
		t.Error("RaiseTo(2) should be invalid in a limit game with bounds (3, 3)")
	}
	if !s.IsValidAction(RaiseTo(3)) {
		t.Error("RaiseTo(3) should be valid")
	}

	if err := s.Apply(RaiseTo(3)); err != nil {
		t.Fatal(err)
	}
	min, max, err = s.RaiseBounds()
	if err != nil {
		t.Fatal(err)
	}
	if min != 5 || max != 5 {
		t.Fatalf("after one raise RaiseBounds() = (%d, %d), want (5, 5)", min, max)
	}
}

func TestLimitRaiseCap(t *testing.T) {
	s := leducState(t)

	if err := s.Apply(RaiseTo(3)); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(RaiseTo(5)); err != nil {
		t.Fatal(err)
	}

	// maxRaises = 2 for the round; a third raise is not allowed.
	if _, _, err := s.RaiseBounds(); !errors.Is(err, ErrNotRaisable) {
		t.Errorf("RaiseBounds error = %v, want ErrNotRaisable", err)
	}
	if s.IsValidAction(RaiseTo(7)) {
		t.Error("third raise should be invalid")
	}
	if !s.IsValidAction(CallAction()) {
		t.Error("call should remain valid at the raise cap")
	}
}

func TestLimitFoldInvalidWhenBetMatched(t *testing.T) {
	s := leducState(t)

	// Both blinds are equal, so the opener has matched the bet and a fold
	// would surrender nothing; it is rejected like a check-fold.
	if s.IsValidAction(FoldAction()) {
		t.Error("fold should be invalid when commitment matches the bet")
	}
	if err := s.Apply(RaiseTo(3)); err != nil {
		t.Fatal(err)
	}
	if !s.IsValidAction(FoldAction()) {
		t.Error("fold should be valid when facing a raise")
	}
}

func TestLimitRoundAdvance(t *testing.T) {
	s := leducState(t)

	if err := s.Apply(RaiseTo(3)); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(CallAction()); err != nil {
		t.Fatal(err)
	}
	if s.Round() != 1 {
		t.Fatalf("Round() = %d, want 1", s.Round())
	}

	// Round 1: raise size is 4.
	min, max, err := s.RaiseBounds()
	if err != nil {
		t.Fatal(err)
	}
	if min != 7 || max != 7 {
		t.Fatalf("round 1 RaiseBounds() = (%d, %d), want (7, 7)", min, max)
	}

	// Call-call completes the last round and the hand.
	if err := s.Apply(CallAction()); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(CallAction()); err != nil {
		t.Fatal(err)
	}
	if !s.IsFinished() {
		t.Error("hand should finish after the last round's betting")
	}
}

func TestLimitFoldEndsHand(t *testing.T) {
	s := leducState(t)

	if err := s.Apply(RaiseTo(3)); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(FoldAction()); err != nil {
		t.Fatal(err)
	}

	if !s.IsFinished() {
		t.Fatal("hand should end when the last opponent folds")
	}

	v0, err := s.ValueOfState(0)
	if err != nil {
		t.Fatal(err)
	}
	v1, err := s.ValueOfState(1)
	if err != nil {
		t.Fatal(err)
	}
	if v0 != 1 || v1 != -1 {
		t.Errorf("payoffs = (%v, %v), want (1, -1)", v0, v1)
	}
}
