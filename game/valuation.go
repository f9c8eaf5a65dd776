package game

import (
	"fmt"

	"github.com/lox/acpc/poker"
)

// ValueOfState returns the terminal payoff for a player, or ErrNotFinished
// while the hand is still being played. Payoffs are zero-sum across all
// players: a folded player loses their commitment, a sole survivor collects
// everyone else's, and a showdown splits the whole pot evenly among the
// players sharing the best rank. Unequal all-in commitments do not create
// side pots; the full pot goes to the top rank set, matching the reference
// behavior.
func (s *State) ValueOfState(player int) (float64, error) {
	if err := s.def.checkPlayer(player); err != nil {
		return 0, err
	}
	if !s.finished {
		return 0, ErrNotFinished
	}

	if s.folded[player] {
		return -float64(s.spent[player]), nil
	}

	survivors := make([]int, 0, s.def.numPlayers)
	for p := 0; p < s.def.numPlayers; p++ {
		if !s.folded[p] {
			survivors = append(survivors, p)
		}
	}

	if len(survivors) == 1 {
		// No showdown; the survivor collects every opponent's commitment.
		return float64(s.TotalSpent() - s.spent[player]), nil
	}

	winners, err := s.showdownWinners(survivors)
	if err != nil {
		return 0, err
	}

	for _, w := range winners {
		if w == player {
			share := float64(s.TotalSpent()) / float64(len(winners))
			return share - float64(s.spent[player]), nil
		}
	}
	return -float64(s.spent[player]), nil
}

// showdownWinners ranks each survivor's hole cards plus the board and
// returns the seats sharing the best rank.
func (s *State) showdownWinners(survivors []int) ([]int, error) {
	required, err := s.def.BoardCardsThrough(s.def.numRounds - 1)
	if err != nil {
		return nil, err
	}
	if len(s.board) < required {
		return nil, fmt.Errorf("showdown needs %d board cards, have %d", required, len(s.board))
	}

	var winners []int
	var best poker.HandRank
	for _, p := range survivors {
		if s.holeCards[p] == nil {
			return nil, fmt.Errorf("no hole cards dealt to player %d", p)
		}

		cards := make([]poker.Card, 0, len(s.holeCards[p])+len(s.board))
		cards = append(cards, s.holeCards[p]...)
		cards = append(cards, s.board...)

		rank, err := s.evaluator.Rank(cards)
		if err != nil {
			return nil, fmt.Errorf("ranking player %d: %w", p, err)
		}

		switch {
		case len(winners) == 0 || rank.Compare(best) > 0:
			best = rank
			winners = winners[:0]
			winners = append(winners, p)
		case rank.Compare(best) == 0:
			winners = append(winners, p)
		}
	}
	return winners, nil
}
