// Package dealer draws cards for hands of a game. The card schedule comes
// from the game definition; the betting state machine never touches the
// deck itself.
package dealer

import (
	"fmt"
	"math/rand"

	"github.com/lox/acpc/game"
	"github.com/lox/acpc/poker"
)

// Dealer deals hole and board cards for successive hands from a seeded
// deck. Not safe for concurrent use.
type Dealer struct {
	deck  *Deck
	board []poker.Card
}

// New creates a dealer seeded for reproducible card sequences.
func New(seed int64) *Dealer {
	return &Dealer{deck: NewDeck(rand.New(rand.NewSource(seed)))}
}

// DealHand reshuffles, deals every player's hole cards into the state and
// draws the complete board for later reveals.
func (d *Dealer) DealHand(s *game.State) error {
	def := s.Definition()

	d.deck.Shuffle()
	for p := 0; p < def.NumPlayers(); p++ {
		cards := d.deck.Deal(def.NumHoleCards())
		if cards == nil {
			return fmt.Errorf("deck exhausted dealing to player %d", p)
		}
		if err := s.SetHoleCards(p, cards); err != nil {
			return err
		}
	}

	total, err := def.BoardCardsThrough(def.NumRounds() - 1)
	if err != nil {
		return err
	}
	d.board = d.deck.Deal(total)
	if total > 0 && d.board == nil {
		return fmt.Errorf("deck exhausted dealing %d board cards", total)
	}
	return d.Reveal(s)
}

// Reveal sets the board cards visible in the state's current round. Call it
// after every round change; it is a no-op when the round reveals nothing
// new.
func (d *Dealer) Reveal(s *game.State) error {
	n, err := s.Definition().BoardCardsThrough(s.Round())
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return s.SetBoardCards(d.board[:n])
}
