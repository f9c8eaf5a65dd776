package poker

import (
	"fmt"
	"sort"

	ph "github.com/paulhankin/poker"
)

// HandRank is the comparable strength of a hand. Higher ranks win; equal
// ranks split the pot. Ranks are only comparable between hands of the same
// card count.
type HandRank int32

// Compare returns 1 if a beats b, -1 if b beats a and 0 on a tie.
func (a HandRank) Compare(b HandRank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// Evaluator ranks a complete set of cards (hole cards plus board) at
// showdown. Implementations must induce a total order.
type Evaluator interface {
	Rank(cards []Card) (HandRank, error)
}

type stdEvaluator struct{}

// NewEvaluator returns the default evaluator, which ranks the best
// five-card hand from the cards given. Three, five and seven card sets are
// evaluated directly; larger sets fall back to the best five-card subset.
// Hands of fewer than three cards, as in games with single hole cards and
// short boards, rank on groups of a kind with rank kickers.
func NewEvaluator() Evaluator {
	return stdEvaluator{}
}

func (stdEvaluator) Rank(cards []Card) (HandRank, error) {
	libCards := make([]ph.Card, len(cards))
	for i, c := range cards {
		lc, err := toLibrary(c)
		if err != nil {
			return 0, err
		}
		libCards[i] = lc
	}

	switch len(cards) {
	case 0:
		return 0, fmt.Errorf("cannot rank an empty hand")
	case 1, 2, 4:
		return rankGroups(cards), nil
	case 3:
		var a3 [3]ph.Card
		copy(a3[:], libCards)
		return HandRank(ph.Eval3(&a3)), nil
	case 5:
		var a5 [5]ph.Card
		copy(a5[:], libCards)
		return HandRank(ph.Eval5(&a5)), nil
	case 7:
		var a7 [7]ph.Card
		copy(a7[:], libCards)
		return HandRank(ph.Eval7(&a7)), nil
	default:
		return bestFiveOf(libCards), nil
	}
}

// rankGroups orders hands too small for five-card categories: larger groups
// of a kind beat smaller ones, ties break on the grouped ranks from the
// biggest group down. Suits never matter.
func rankGroups(cards []Card) HandRank {
	var count [NumRanks]int
	for _, c := range cards {
		count[c.Rank()]++
	}

	type group struct{ size, rank int }
	groups := make([]group, 0, len(cards))
	for r := NumRanks - 1; r >= 0; r-- {
		if count[r] > 0 {
			groups = append(groups, group{count[r], r})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].size > groups[j].size
	})

	var category HandRank
	switch {
	case groups[0].size == 4:
		category = 4
	case groups[0].size == 3:
		category = 3
	case groups[0].size == 2 && len(groups) > 1 && groups[1].size == 2:
		category = 2
	case groups[0].size == 2:
		category = 1
	}

	rank := category << 16
	shift := uint(12)
	for _, g := range groups {
		rank |= HandRank(g.rank) << shift
		shift -= 4
	}
	return rank
}

// bestFiveOf evaluates every five-card subset and keeps the strongest.
func bestFiveOf(cards []ph.Card) HandRank {
	n := len(cards)
	best := HandRank(-1 << 15)
	var five [5]ph.Card
	var choose [5]int

	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			for i := 0; i < 5; i++ {
				five[i] = cards[choose[i]]
			}
			if r := HandRank(ph.Eval5(&five)); r > best {
				best = r
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			choose[k] = i
			rec(i+1, k+1)
		}
	}
	rec(0, 0)

	return best
}

// Describe returns a human-readable description of the best hand in the
// cards, e.g. "Pair of Sixes".
func Describe(cards []Card) (string, error) {
	libCards := make([]ph.Card, len(cards))
	for i, c := range cards {
		lc, err := toLibrary(c)
		if err != nil {
			return "", err
		}
		libCards[i] = lc
	}
	return ph.Describe(libCards)
}

// toLibrary converts an ACPC card id to the evaluator library's encoding,
// which numbers aces 1 and kings 13.
func toLibrary(c Card) (ph.Card, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("invalid card %d", uint8(c))
	}

	var rank ph.Rank
	if c.Rank() == 12 {
		rank = ph.Rank(1) // ace
	} else {
		rank = ph.Rank(c.Rank() + 2)
	}

	var suit ph.Suit
	switch c.Suit() {
	case 0:
		suit = ph.Club
	case 1:
		suit = ph.Diamond
	case 2:
		suit = ph.Heart
	default:
		suit = ph.Spade
	}

	return ph.MakeCard(suit, rank)
}
