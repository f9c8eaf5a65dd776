package tree

import (
	"math"
	"strings"
	"testing"

	"github.com/lox/acpc/game"
)

func leduc(t *testing.T) *game.Definition {
	t.Helper()
	def, err := game.NewDefinition(game.DefinitionConfig{
		BettingType:   game.LimitBetting,
		NumPlayers:    2,
		NumRounds:     2,
		Blinds:        []int{1, 1},
		RaiseSizes:    []int{2, 4},
		MaxRaises:     []int{2, 2},
		NumHoleCards:  1,
		NumBoardCards: []int{0, 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return def
}

func TestBuildLeduc(t *testing.T) {
	tr, err := Build(leduc(t))
	if err != nil {
		t.Fatal(err)
	}

	// Each round admits 14 action prefixes; 5 of round 0's closing
	// sequences reach round 1.
	if got := tr.Len(); got != 84 {
		t.Errorf("Len() = %d, want 84", got)
	}
	if got := len(tr.Terminals()); got != 49 {
		t.Errorf("terminals = %d, want 49", got)
	}
}

func TestFirstTerminalIsCheckDown(t *testing.T) {
	tr, err := Build(leduc(t))
	if err != nil {
		t.Fatal(err)
	}

	term := tr.Terminals()[0]
	if got, want := tr.History(term.Node), "P0:c P1:c P0:c P1:c"; got != want {
		t.Errorf("History() = %q, want %q", got, want)
	}
	if !term.State.IsFinished() {
		t.Error("terminal state should be finished")
	}
	if term.State.Round() != 1 {
		t.Errorf("Round() = %d, want 1", term.State.Round())
	}
}

func TestFoldTerminalsZeroSum(t *testing.T) {
	tr, err := Build(leduc(t))
	if err != nil {
		t.Fatal(err)
	}

	folds := 0
	for _, term := range tr.Terminals() {
		if tr.Node(term.Node).Action.Type != game.Fold {
			continue
		}
		folds++
		sum := 0.0
		for p := 0; p < 2; p++ {
			v, err := term.State.ValueOfState(p)
			if err != nil {
				t.Fatal(err)
			}
			sum += v
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("%s: payoffs sum to %v, want 0", tr.History(term.Node), sum)
		}
	}
	if folds != 24 {
		t.Errorf("fold terminals = %d, want 24", folds)
	}
}

func TestHistoryShowsRaiseTargets(t *testing.T) {
	tr, err := Build(leduc(t))
	if err != nil {
		t.Fatal(err)
	}

	sawOpen, sawReraise := false, false
	for _, term := range tr.Terminals() {
		h := tr.History(term.Node)
		if strings.Contains(h, "r3") {
			sawOpen = true
		}
		if strings.Contains(h, "r5") {
			sawReraise = true
		}
	}
	if !sawOpen || !sawReraise {
		t.Errorf("expected raise targets 3 and 5 in histories, got open=%v reraise=%v", sawOpen, sawReraise)
	}
}

func TestPathParentConsistency(t *testing.T) {
	tr, err := Build(leduc(t))
	if err != nil {
		t.Fatal(err)
	}

	for _, term := range tr.Terminals() {
		path := tr.Path(term.Node)
		if len(path) == 0 {
			t.Fatal("terminal with empty path")
		}
		last := path[len(path)-1]
		if last != tr.Node(term.Node) {
			t.Errorf("path end %+v != terminal node %+v", last, tr.Node(term.Node))
		}
	}
}

func TestWithActionsCallOnly(t *testing.T) {
	callOnly := func(s *game.State) []game.Action {
		return []game.Action{game.CallAction()}
	}

	tr, err := Build(leduc(t), WithActions(callOnly))
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if got := len(tr.Terminals()); got != 1 {
		t.Errorf("terminals = %d, want 1", got)
	}
}
