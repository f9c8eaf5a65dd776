// Package simulator plays offline matches between built-in strategies. It
// drives the betting state machine hand by hand and settles each hand with
// the terminal valuation.
package simulator

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/lox/acpc/game"
	"github.com/lox/acpc/internal/dealer"
)

// Result accumulates match outcomes per seat.
type Result struct {
	Hands  int
	Totals []float64 // chips won per seat over the match
}

// Mean returns a seat's average winnings per hand.
func (r *Result) Mean(seat int) float64 {
	if r.Hands == 0 {
		return 0
	}
	return r.Totals[seat] / float64(r.Hands)
}

// Simulator runs hands of one game between fixed strategies.
type Simulator struct {
	def        *game.Definition
	strategies []Strategy
	dealer     *dealer.Dealer
	logger     *log.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger replaces the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// New creates a simulator. One strategy per seat is required; the card
// sequence is determined by seed.
func New(def *game.Definition, strategies []Strategy, seed int64, opts ...Option) (*Simulator, error) {
	if len(strategies) != def.NumPlayers() {
		return nil, fmt.Errorf("need %d strategies, got %d", def.NumPlayers(), len(strategies))
	}
	s := &Simulator{
		def:        def,
		strategies: strategies,
		dealer:     dealer.New(seed),
		logger:     log.Default().WithPrefix("simulator"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run plays the given number of hands and returns per-seat totals. The
// context cancels the match between hands.
func (sim *Simulator) Run(ctx context.Context, hands int) (*Result, error) {
	result := &Result{Totals: make([]float64, sim.def.NumPlayers())}

	for h := 0; h < hands; h++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := sim.playHand(uint32(h), result); err != nil {
			return result, fmt.Errorf("hand %d: %w", h, err)
		}
		result.Hands++
	}

	sim.logger.Info("match complete", "hands", result.Hands, "totals", result.Totals)
	return result, nil
}

func (sim *Simulator) playHand(handID uint32, result *Result) error {
	s := game.NewState(sim.def, handID)
	if err := sim.dealer.DealHand(s); err != nil {
		return err
	}

	round := s.Round()
	for !s.IsFinished() {
		p, err := s.CurrentPlayer()
		if err != nil {
			return err
		}
		a, err := sim.strategies[p].Act(s, p)
		if err != nil {
			return fmt.Errorf("seat %d (%s): %w", p, sim.strategies[p].Name(), err)
		}
		if err := s.Apply(a); err != nil {
			return fmt.Errorf("seat %d (%s) chose %s: %w", p, sim.strategies[p].Name(), a, err)
		}
		if s.Round() != round {
			round = s.Round()
			if err := sim.dealer.Reveal(s); err != nil {
				return err
			}
		}
	}

	sum := 0.0
	for p := 0; p < sim.def.NumPlayers(); p++ {
		v, err := s.ValueOfState(p)
		if err != nil {
			return err
		}
		result.Totals[p] += v
		sum += v
	}
	if math.Abs(sum) > 1e-6 {
		return fmt.Errorf("payoffs sum to %v, money not conserved", sum)
	}

	sim.logger.Debug("hand settled", "hand", handID, "pot", s.TotalSpent(), "round", s.Round())
	return nil
}

// StrategiesFromNames builds one strategy per name, sharing a seeded random
// source across the rand strategies.
func StrategiesFromNames(names []string, seed int64) ([]Strategy, error) {
	rng := rand.New(rand.NewSource(seed))
	strategies := make([]Strategy, len(names))
	for i, name := range names {
		s, err := NewStrategy(name, rng)
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w", i, err)
		}
		strategies[i] = s
	}
	return strategies, nil
}
