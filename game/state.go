package game

import (
	"fmt"

	"github.com/lox/acpc/poker"
)

// LoggedAction records one applied action and the seat that made it.
type LoggedAction struct {
	Player int
	Action Action
}

// State tracks the betting for a single hand: commitments, folds, the
// per-round action log and the cards supplied by the dealer. A State is
// mutated only through Apply and becomes read-only once the hand finishes.
// It is not safe for concurrent mutation; one hand has one caller.
type State struct {
	def       *Definition
	handID    uint32
	round     int
	finished  bool
	maxSpent  int
	minRaise  int // no-limit minimum raise-to total
	spent     []int
	folded    []bool
	actions   [][]LoggedAction
	holeCards [][]poker.Card // nil until dealt
	board     []poker.Card
	evaluator poker.Evaluator
}

// StateOption configures a new State.
type StateOption func(*State)

// WithEvaluator overrides the showdown evaluator.
func WithEvaluator(ev poker.Evaluator) StateOption {
	return func(s *State) {
		s.evaluator = ev
	}
}

// NewState starts a fresh hand: blinds are seeded into the players'
// commitments, the no-limit minimum raise is primed and the first round's
// opener is determined by the definition.
func NewState(def *Definition, handID uint32, opts ...StateOption) *State {
	s := &State{
		def:       def,
		handID:    handID,
		spent:     make([]int, def.numPlayers),
		folded:    make([]bool, def.numPlayers),
		actions:   make([][]LoggedAction, def.numRounds),
		holeCards: make([][]poker.Card, def.numPlayers),
		evaluator: poker.NewEvaluator(),
	}

	for p := 0; p < def.numPlayers; p++ {
		s.spent[p] = def.blind[p]
		if def.blind[p] > s.maxSpent {
			s.maxSpent = def.blind[p]
		}
	}

	if def.bettingType == NoLimitBetting {
		if s.maxSpent > 0 {
			// The opener must call the largest blind and raise by at
			// least that much again.
			s.minRaise = 2 * s.maxSpent
		} else {
			s.minRaise = 1
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clone returns an independent deep copy of the state.
func (s *State) Clone() *State {
	c := &State{
		def:       s.def,
		handID:    s.handID,
		round:     s.round,
		finished:  s.finished,
		maxSpent:  s.maxSpent,
		minRaise:  s.minRaise,
		spent:     append([]int(nil), s.spent...),
		folded:    append([]bool(nil), s.folded...),
		actions:   make([][]LoggedAction, len(s.actions)),
		holeCards: make([][]poker.Card, len(s.holeCards)),
		board:     append([]poker.Card(nil), s.board...),
		evaluator: s.evaluator,
	}
	for r := range s.actions {
		c.actions[r] = append([]LoggedAction(nil), s.actions[r]...)
	}
	for p := range s.holeCards {
		if s.holeCards[p] != nil {
			c.holeCards[p] = append([]poker.Card(nil), s.holeCards[p]...)
		}
	}
	return c
}

// Definition returns the rules the hand is played under.
func (s *State) Definition() *Definition {
	return s.def
}

// HandID returns the identifier given at construction.
func (s *State) HandID() uint32 {
	return s.handID
}

// Round returns the current betting round, 0-based. Once finished it is the
// round the hand ended in (the final round after an all-in runout).
func (s *State) Round() int {
	return s.round
}

// IsFinished reports whether the hand is over.
func (s *State) IsFinished() bool {
	return s.finished
}

// Spent returns the chips a player has committed this hand.
func (s *State) Spent(player int) (int, error) {
	if err := s.def.checkPlayer(player); err != nil {
		return 0, err
	}
	return s.spent[player], nil
}

// MaxSpent returns the largest current commitment, the amount other players
// must match to call.
func (s *State) MaxSpent() int {
	return s.maxSpent
}

// Money returns the chips a player has left behind their commitment.
func (s *State) Money(player int) (int, error) {
	if err := s.def.checkPlayer(player); err != nil {
		return 0, err
	}
	return s.def.stack[player] - s.spent[player], nil
}

// Ante returns the chips a player has put into the pot, the same value as
// Spent under the reference naming.
func (s *State) Ante(player int) (int, error) {
	return s.Spent(player)
}

// TotalSpent returns the pot: the sum of every player's commitment.
func (s *State) TotalSpent() int {
	total := 0
	for _, v := range s.spent {
		total += v
	}
	return total
}

// PlayerFolded reports whether a player has folded.
func (s *State) PlayerFolded(player int) (bool, error) {
	if err := s.def.checkPlayer(player); err != nil {
		return false, err
	}
	return s.folded[player], nil
}

// NumFolded returns how many players have folded.
func (s *State) NumFolded() int {
	count := 0
	for _, f := range s.folded {
		if f {
			count++
		}
	}
	return count
}

// NumAllIn returns how many non-folded players have committed their entire
// stack.
func (s *State) NumAllIn() int {
	count := 0
	for p := 0; p < s.def.numPlayers; p++ {
		if !s.folded[p] && s.spent[p] >= s.def.stack[p] {
			count++
		}
	}
	return count
}

// NumActingPlayers returns how many players can still act: not folded and
// not all-in.
func (s *State) NumActingPlayers() int {
	count := 0
	for p := 0; p < s.def.numPlayers; p++ {
		if !s.folded[p] && s.spent[p] < s.def.stack[p] {
			count++
		}
	}
	return count
}

// NumActions returns how many actions have been applied in a round.
func (s *State) NumActions(round int) (int, error) {
	if err := s.def.checkRound(round); err != nil {
		return 0, err
	}
	return len(s.actions[round]), nil
}

// ActionLog returns a copy of the ordered actions applied in a round.
func (s *State) ActionLog(round int) ([]LoggedAction, error) {
	if err := s.def.checkRound(round); err != nil {
		return nil, err
	}
	return append([]LoggedAction(nil), s.actions[round]...), nil
}

// NumCalled returns how many still-acting players have matched the current
// bet since the last raise. The raiser counts as the last caller; the count
// restarts at each raise.
func (s *State) NumCalled() int {
	count := 0
	log := s.actions[s.round]
	for i := len(log) - 1; i >= 0; i-- {
		p := log[i].Player
		switch log[i].Action.Type {
		case Raise:
			if s.spent[p] < s.def.stack[p] {
				count++
			}
			return count
		case Call:
			if s.spent[p] < s.def.stack[p] {
				count++
			}
		}
	}
	return count
}

// numRaises counts raises in the current round.
func (s *State) numRaises() int {
	count := 0
	for _, la := range s.actions[s.round] {
		if la.Action.Type == Raise {
			count++
		}
	}
	return count
}

// nextActor returns the next seat after from, in turn order, that can still
// act. Panics if no seat can act; callers check hand state first.
func (s *State) nextActor(from int) int {
	n := from
	for i := 0; i < s.def.numPlayers; i++ {
		n = (n + 1) % s.def.numPlayers
		if !s.folded[n] && s.spent[n] < s.def.stack[n] {
			return n
		}
	}
	panic("game: no acting player in unfinished hand")
}

// CurrentPlayer returns the seat whose turn it is to act, or
// ErrHandFinished once the hand is over.
func (s *State) CurrentPlayer() (int, error) {
	if s.finished {
		return 0, ErrHandFinished
	}
	return s.currentPlayer(), nil
}

func (s *State) currentPlayer() int {
	log := s.actions[s.round]
	if len(log) > 0 {
		return s.nextActor(log[len(log)-1].Player)
	}
	return s.nextActor(s.def.firstPlayer[s.round] + s.def.numPlayers - 1)
}

// RaiseBounds returns the inclusive range of valid raise-to totals for the
// acting player, or ErrNotRaisable when no raise is legal: the round's
// raise cap is reached, no opponent can respond, or the player has no chips
// beyond matching the current bet. Limit games return a single-point range
// of maxSpent plus the round's fixed raise size, capped at the stack.
func (s *State) RaiseBounds() (minRaise, maxRaise int, err error) {
	if s.finished {
		return 0, 0, ErrHandFinished
	}
	if s.numRaises() >= s.def.maxRaises[s.round] {
		return 0, 0, fmt.Errorf("%w: raise cap reached for round %d", ErrNotRaisable, s.round)
	}
	if s.NumActingPlayers() <= 1 {
		return 0, 0, fmt.Errorf("%w: no opponent left to call", ErrNotRaisable)
	}

	p := s.currentPlayer()
	stack := s.def.stack[p]

	if s.def.bettingType == LimitBetting {
		if stack <= s.maxSpent {
			return 0, 0, fmt.Errorf("%w: no chips beyond a call", ErrNotRaisable)
		}
		target := s.maxSpent + s.def.raiseSize[s.round]
		if target > stack {
			target = stack
		}
		return target, target, nil
	}

	minRaise = s.minRaise
	maxRaise = stack
	if minRaise > maxRaise {
		if s.maxSpent >= stack {
			return 0, 0, fmt.Errorf("%w: no chips beyond a call", ErrNotRaisable)
		}
		// Not enough for a full raise; an all-in raise is still allowed.
		minRaise = maxRaise
	}
	return minRaise, maxRaise, nil
}

// IsValidAction reports whether the action is legal for the acting player.
// Fold is illegal when the player already matches the current bet or is
// all-in; a raise target must lie within RaiseBounds.
func (s *State) IsValidAction(a Action) bool {
	if s.finished || a.Type == Invalid {
		return false
	}

	switch a.Type {
	case Raise:
		min, max, err := s.RaiseBounds()
		if err != nil {
			return false
		}
		return a.Size >= min && a.Size <= max
	case Fold:
		p := s.currentPlayer()
		return s.spent[p] != s.maxSpent && s.spent[p] != s.def.stack[p]
	case Call:
		return true
	default:
		return false
	}
}

// Apply validates and applies one action for the acting player. An invalid
// action returns ErrInvalidAction and leaves the state untouched. After a
// valid action the round advances when every acting player has matched the
// bet since the last raise; the hand finishes when one player remains, the
// last round completes, or no further betting is possible (in which case
// the round index jumps to the final round for the runout).
func (s *State) Apply(a Action) error {
	if !s.IsValidAction(a) {
		return fmt.Errorf("%w: %s", ErrInvalidAction, a)
	}
	if len(s.actions[s.round]) >= MaxActionsPerRound {
		return fmt.Errorf("%w: round %d action limit reached", ErrInvalidAction, s.round)
	}

	p := s.currentPlayer()
	s.actions[s.round] = append(s.actions[s.round], LoggedAction{Player: p, Action: a})

	switch a.Type {
	case Fold:
		s.folded[p] = true

	case Call:
		if s.maxSpent > s.def.stack[p] {
			// Calling puts the player all-in for less than the full bet.
			s.spent[p] = s.def.stack[p]
		} else {
			s.spent[p] = s.maxSpent
		}

	case Raise:
		if s.def.bettingType == NoLimitBetting {
			// The next raise must call this bet and raise by at least the
			// size of the raise just made.
			if next := 2*a.Size - s.maxSpent; next > s.minRaise {
				s.minRaise = next
			}
			s.spent[p] = a.Size
			s.maxSpent = a.Size
		} else {
			target := s.maxSpent + s.def.raiseSize[s.round]
			if target > s.def.stack[p] {
				s.spent[p] = s.def.stack[p]
				if s.spent[p] > s.maxSpent {
					s.maxSpent = s.spent[p]
				}
			} else {
				s.spent[p] = target
				s.maxSpent = target
			}
		}
	}

	s.advance()
	return nil
}

// advance ends the round or hand when the betting is settled.
func (s *State) advance() {
	if s.NumFolded()+1 >= s.def.numPlayers {
		// One player left; the hand ends with no showdown.
		s.finished = true
		return
	}

	acting := s.NumActingPlayers()
	if s.NumCalled() < acting {
		return
	}

	if acting <= 1 {
		// Everyone left is all-in (or one player faces only all-ins).
		// No more betting; run out the remaining board for the showdown.
		s.finished = true
		s.round = s.def.numRounds - 1
		return
	}

	if s.round+1 >= s.def.numRounds {
		s.finished = true
		return
	}

	s.round++
	if s.def.bettingType == NoLimitBetting {
		min := 1
		for _, b := range s.def.blind {
			if b > min {
				min = b
			}
		}
		s.minRaise = min + s.maxSpent
	}
}

// SetHoleCards stores the hole cards dealt to a player. The card count must
// match the definition.
func (s *State) SetHoleCards(player int, cards []poker.Card) error {
	if err := s.def.checkPlayer(player); err != nil {
		return err
	}
	if len(cards) != s.def.numHoleCards {
		return fmt.Errorf("expected %d hole cards, got %d", s.def.numHoleCards, len(cards))
	}
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("invalid card %d", uint8(c))
		}
	}
	s.holeCards[player] = append([]poker.Card(nil), cards...)
	return nil
}

// HoleCards returns a copy of a player's hole cards, or nil if they have
// not been dealt.
func (s *State) HoleCards(player int) ([]poker.Card, error) {
	if err := s.def.checkPlayer(player); err != nil {
		return nil, err
	}
	if s.holeCards[player] == nil {
		return nil, nil
	}
	return append([]poker.Card(nil), s.holeCards[player]...), nil
}

// SetBoardCards stores the full board revealed so far. The count must equal
// the cumulative board cards through the current round.
func (s *State) SetBoardCards(cards []poker.Card) error {
	want, err := s.def.BoardCardsThrough(s.round)
	if err != nil {
		return err
	}
	if len(cards) != want {
		return fmt.Errorf("expected %d board cards through round %d, got %d", want, s.round, len(cards))
	}
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("invalid card %d", uint8(c))
		}
	}
	s.board = append([]poker.Card(nil), cards...)
	return nil
}

// BoardCards returns a copy of the board cards revealed so far.
func (s *State) BoardCards() []poker.Card {
	return append([]poker.Card(nil), s.board...)
}
