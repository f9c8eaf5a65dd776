package game

import (
	"fmt"
	"strings"

	"github.com/lox/acpc/poker"
)

// PlayerDescription is one player's view in a state snapshot.
type PlayerDescription struct {
	Seat      int
	Spent     int
	Stack     int
	Folded    bool
	AllIn     bool
	HoleCards []poker.Card
}

// Description is a point-in-time snapshot of a hand, suitable for logging
// or wire encoding. It shares no memory with the live state.
type Description struct {
	HandID   uint32
	Round    int
	Finished bool
	Pot      int
	MaxSpent int
	ToAct    int // -1 once finished
	Board    []poker.Card
	Players  []PlayerDescription
}

// Describe returns a snapshot of the current state.
func (s *State) Describe() Description {
	d := Description{
		HandID:   s.handID,
		Round:    s.round,
		Finished: s.finished,
		Pot:      s.TotalSpent(),
		MaxSpent: s.maxSpent,
		ToAct:    -1,
		Board:    append([]poker.Card(nil), s.board...),
		Players:  make([]PlayerDescription, s.def.numPlayers),
	}
	if !s.finished {
		d.ToAct = s.currentPlayer()
	}

	for p := 0; p < s.def.numPlayers; p++ {
		pd := PlayerDescription{
			Seat:   p,
			Spent:  s.spent[p],
			Stack:  s.def.stack[p],
			Folded: s.folded[p],
			AllIn:  !s.folded[p] && s.spent[p] >= s.def.stack[p],
		}
		if s.holeCards[p] != nil {
			pd.HoleCards = append([]poker.Card(nil), s.holeCards[p]...)
		}
		d.Players[p] = pd
	}
	return d
}

// String renders a compact one-line summary, e.g.
// "hand 7 round 1 pot 300 board 6d6s7s to-act 2".
func (d Description) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "hand %d round %d pot %d", d.HandID, d.Round, d.Pot)
	if len(d.Board) > 0 {
		fmt.Fprintf(&b, " board %s", poker.FormatCards(d.Board))
	}
	if d.Finished {
		b.WriteString(" finished")
	} else {
		fmt.Fprintf(&b, " to-act %d", d.ToAct)
	}
	for _, p := range d.Players {
		fmt.Fprintf(&b, " p%d:%d", p.Seat, p.Spent)
		if p.Folded {
			b.WriteString("f")
		} else if p.AllIn {
			b.WriteString("a")
		}
	}
	return b.String()
}
