package game

import (
	"fmt"
	"math"
)

// Capacity limits shared with the ACPC protocol. Definitions are validated
// against these at construction; nothing is silently truncated.
const (
	MaxPlayers         = 10
	MaxRounds          = 4
	MaxHoleCards       = 3
	MaxBoardCards      = 7
	MaxActionsPerRound = 64
)

// BettingType selects the raise rule for a game.
type BettingType int

const (
	// LimitBetting fixes the raise size per round.
	LimitBetting BettingType = iota

	// NoLimitBetting allows raising to any amount up to the stack.
	NoLimitBetting
)

func (b BettingType) String() string {
	if b == NoLimitBetting {
		return "nolimit"
	}
	return "limit"
}

// DefinitionConfig is the input to NewDefinition. Zero-valued optional
// fields take ACPC defaults: stacks of math.MaxInt32, no blinds, 255 raises
// per round, seat 0 opening every round.
type DefinitionConfig struct {
	BettingType   BettingType
	NumPlayers    int
	NumRounds     int
	Stacks        []int
	Blinds        []int
	RaiseSizes    []int // per round, limit games only
	MaxRaises     []int // per round
	FirstPlayers  []int // seat opening each round, 0-based
	NumHoleCards  int
	NumBoardCards []int // cards newly revealed entering each round
}

// Definition is the immutable rules container for a game: stakes, blind
// structure, raise rule and card schedule. One Definition may be shared
// read-only by any number of concurrent hands.
type Definition struct {
	bettingType   BettingType
	numPlayers    int
	numRounds     int
	stack         []int
	blind         []int
	raiseSize     []int
	maxRaises     []int
	firstPlayer   []int
	numHoleCards  int
	numBoardCards []int
}

// NewDefinition validates the configuration and builds a fully-initialized
// Definition. A partially-built definition is never observable.
func NewDefinition(cfg DefinitionConfig) (*Definition, error) {
	if cfg.NumPlayers < 2 || cfg.NumPlayers > MaxPlayers {
		return nil, fmt.Errorf("numPlayers must be 2-%d, got %d", MaxPlayers, cfg.NumPlayers)
	}
	if cfg.NumRounds < 1 || cfg.NumRounds > MaxRounds {
		return nil, fmt.Errorf("numRounds must be 1-%d, got %d", MaxRounds, cfg.NumRounds)
	}
	if cfg.NumHoleCards < 1 || cfg.NumHoleCards > MaxHoleCards {
		return nil, fmt.Errorf("numHoleCards must be 1-%d, got %d", MaxHoleCards, cfg.NumHoleCards)
	}

	d := &Definition{
		bettingType:  cfg.BettingType,
		numPlayers:   cfg.NumPlayers,
		numRounds:    cfg.NumRounds,
		numHoleCards: cfg.NumHoleCards,
	}

	var err error
	if d.stack, err = perPlayer(cfg.Stacks, cfg.NumPlayers, math.MaxInt32, "stack"); err != nil {
		return nil, err
	}
	if d.blind, err = perPlayer(cfg.Blinds, cfg.NumPlayers, 0, "blind"); err != nil {
		return nil, err
	}
	for p := 0; p < cfg.NumPlayers; p++ {
		if d.stack[p] <= 0 {
			return nil, fmt.Errorf("stack for player %d must be positive", p)
		}
		if d.blind[p] < 0 {
			return nil, fmt.Errorf("blind for player %d must not be negative", p)
		}
		if d.blind[p] > d.stack[p] {
			return nil, fmt.Errorf("blind for player %d exceeds stack", p)
		}
	}

	if d.maxRaises, err = perRound(cfg.MaxRaises, cfg.NumRounds, 255, "maxRaises"); err != nil {
		return nil, err
	}
	if d.firstPlayer, err = perRound(cfg.FirstPlayers, cfg.NumRounds, 0, "firstPlayer"); err != nil {
		return nil, err
	}
	for r := 0; r < cfg.NumRounds; r++ {
		if d.firstPlayer[r] < 0 || d.firstPlayer[r] >= cfg.NumPlayers {
			return nil, fmt.Errorf("firstPlayer for round %d out of range", r)
		}
		if d.maxRaises[r] < 0 {
			return nil, fmt.Errorf("maxRaises for round %d must not be negative", r)
		}
	}

	if cfg.BettingType == LimitBetting {
		if len(cfg.RaiseSizes) != cfg.NumRounds {
			return nil, fmt.Errorf("limit games need %d raiseSize values, got %d", cfg.NumRounds, len(cfg.RaiseSizes))
		}
		d.raiseSize = append([]int(nil), cfg.RaiseSizes...)
		for r, size := range d.raiseSize {
			if size <= 0 {
				return nil, fmt.Errorf("raiseSize for round %d must be positive", r)
			}
		}
	}

	if len(cfg.NumBoardCards) != cfg.NumRounds {
		return nil, fmt.Errorf("need %d numBoardCards values, got %d", cfg.NumRounds, len(cfg.NumBoardCards))
	}
	d.numBoardCards = append([]int(nil), cfg.NumBoardCards...)
	total := 0
	for r, n := range d.numBoardCards {
		if n < 0 {
			return nil, fmt.Errorf("numBoardCards for round %d must not be negative", r)
		}
		total += n
	}
	if total > MaxBoardCards {
		return nil, fmt.Errorf("total board cards %d exceeds %d", total, MaxBoardCards)
	}

	return d, nil
}

func perPlayer(vals []int, numPlayers, def int, name string) ([]int, error) {
	if vals == nil {
		out := make([]int, numPlayers)
		for i := range out {
			out[i] = def
		}
		return out, nil
	}
	if len(vals) != numPlayers {
		return nil, fmt.Errorf("need %d %s values, got %d", numPlayers, name, len(vals))
	}
	return append([]int(nil), vals...), nil
}

func perRound(vals []int, numRounds, def int, name string) ([]int, error) {
	if vals == nil {
		out := make([]int, numRounds)
		for i := range out {
			out[i] = def
		}
		return out, nil
	}
	if len(vals) != numRounds {
		return nil, fmt.Errorf("need %d %s values, got %d", numRounds, name, len(vals))
	}
	return append([]int(nil), vals...), nil
}

// Betting returns the game's raise rule.
func (d *Definition) Betting() BettingType {
	return d.bettingType
}

// NumPlayers returns the number of seats in the game.
func (d *Definition) NumPlayers() int {
	return d.numPlayers
}

// NumRounds returns the number of betting rounds.
func (d *Definition) NumRounds() int {
	return d.numRounds
}

// NumHoleCards returns how many hole cards each player is dealt.
func (d *Definition) NumHoleCards() int {
	return d.numHoleCards
}

// Stack returns the starting stack for a player.
func (d *Definition) Stack(player int) (int, error) {
	if err := d.checkPlayer(player); err != nil {
		return 0, err
	}
	return d.stack[player], nil
}

// Blind returns the blind posted by a player at the start of a hand.
func (d *Definition) Blind(player int) (int, error) {
	if err := d.checkPlayer(player); err != nil {
		return 0, err
	}
	return d.blind[player], nil
}

// TotalMoney returns the sum of all starting stacks.
func (d *Definition) TotalMoney() int64 {
	var sum int64
	for _, s := range d.stack[:d.numPlayers] {
		sum += int64(s)
	}
	return sum
}

// RaiseSize returns the fixed raise increment for a round of a limit game.
func (d *Definition) RaiseSize(round int) (int, error) {
	if err := d.checkRound(round); err != nil {
		return 0, err
	}
	if d.bettingType != LimitBetting {
		return 0, fmt.Errorf("no fixed raise size in a %s game", d.bettingType)
	}
	return d.raiseSize[round], nil
}

// MaxRaises returns the raise cap for a round.
func (d *Definition) MaxRaises(round int) (int, error) {
	if err := d.checkRound(round); err != nil {
		return 0, err
	}
	return d.maxRaises[round], nil
}

// FirstPlayer returns the seat that opens the betting in a round.
func (d *Definition) FirstPlayer(round int) (int, error) {
	if err := d.checkRound(round); err != nil {
		return 0, err
	}
	return d.firstPlayer[round], nil
}

// BoardCardStart returns the index of the first board card revealed
// entering a round.
func (d *Definition) BoardCardStart(round int) (int, error) {
	if err := d.checkRound(round); err != nil {
		return 0, err
	}
	start := 0
	for r := 0; r < round; r++ {
		start += d.numBoardCards[r]
	}
	return start, nil
}

// BoardCardsThrough returns the cumulative number of board cards revealed
// by the end of a round.
func (d *Definition) BoardCardsThrough(round int) (int, error) {
	start, err := d.BoardCardStart(round)
	if err != nil {
		return 0, err
	}
	return start + d.numBoardCards[round], nil
}

func (d *Definition) checkPlayer(player int) error {
	if player < 0 || player >= d.numPlayers {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	return nil
}

func (d *Definition) checkRound(round int) error {
	if round < 0 || round >= d.numRounds {
		return fmt.Errorf("invalid round %d", round)
	}
	return nil
}
