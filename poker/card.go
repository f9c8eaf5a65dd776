// Package poker provides card identifiers and hand evaluation for the
// betting engine. Cards use the ACPC integer encoding so that card values
// can round-trip through match logs unchanged.
package poker

import "fmt"

// Card identifies a rank and suit as a single small integer using the ACPC
// encoding rank*4+suit. Rank 0 is the deuce and rank 12 the ace; suits are
// ordered clubs, diamonds, hearts, spades.
type Card uint8

const (
	NumRanks = 13
	NumSuits = 4
	NumCards = NumRanks * NumSuits
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// NewCard builds a card from a rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(rank*NumSuits + suit)
}

// Rank returns the card's rank, 0 (deuce) through 12 (ace).
func (c Card) Rank() uint8 {
	return uint8(c) / NumSuits
}

// Suit returns the card's suit, 0 (clubs) through 3 (spades).
func (c Card) Suit() uint8 {
	return uint8(c) % NumSuits
}

// Valid reports whether the card is one of the 52 playable values.
func (c Card) Valid() bool {
	return c < NumCards
}

// String formats the card in the usual two-character notation, e.g. "As".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string(rankChars[c.Rank()]) + string(suitChars[c.Suit()])
}

// ParseCard parses two-character notation like "Td" or "as".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q", s)
	}

	rank := -1
	for i := 0; i < NumRanks; i++ {
		if s[0] == rankChars[i] || s[0] == lower(rankChars[i]) {
			rank = i
			break
		}
	}
	if rank < 0 {
		return 0, fmt.Errorf("invalid card rank %q", s)
	}

	suit := -1
	for i := 0; i < NumSuits; i++ {
		if s[1] == suitChars[i] || s[1] == upper(suitChars[i]) {
			suit = i
			break
		}
	}
	if suit < 0 {
		return 0, fmt.Errorf("invalid card suit %q", s)
	}

	return NewCard(uint8(rank), uint8(suit)), nil
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// FormatCards renders a card sequence like "AsTd9c".
func FormatCards(cards []Card) string {
	out := make([]byte, 0, len(cards)*2)
	for _, c := range cards {
		out = append(out, c.String()...)
	}
	return string(out)
}
