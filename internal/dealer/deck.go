package dealer

import (
	"math/rand"

	"github.com/lox/acpc/poker"
)

// Deck is a standard 52-card deck with a deterministic shuffle.
type Deck struct {
	cards [poker.NumCards]poker.Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a shuffled deck drawing randomness from rng.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	i := 0
	for rank := uint8(0); rank < poker.NumRanks; rank++ {
		for suit := uint8(0); suit < poker.NumSuits; suit++ {
			d.cards[i] = poker.NewCard(rank, suit)
			i++
		}
	}
	d.Shuffle()
	return d
}

// Shuffle reshuffles the full deck with Fisher-Yates and rewinds dealing.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards, or nil when fewer remain.
func (d *Deck) Deal(n int) []poker.Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// CardsRemaining returns the number of undealt cards.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
