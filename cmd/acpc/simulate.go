package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/acpc/game"
	"github.com/lox/acpc/internal/config"
	"github.com/lox/acpc/internal/simulator"
)

// SimulateCmd plays an offline match between built-in strategies.
type SimulateCmd struct {
	Config   string   `short:"c" default:"acpc.hcl" help:"Path to HCL configuration file"`
	Game     string   `short:"g" help:"Game definition file (overrides config)"`
	Hands    int      `help:"Number of hands to play (overrides config)"`
	Seed     int64    `help:"RNG seed, 0 picks one from the clock (overrides config)"`
	Strategy []string `help:"Per-seat strategies in seat order (overrides config bots)"`
	Debug    bool     `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Game != "" {
		cfg.Engine.GameFile = c.Game
	}
	if c.Hands > 0 {
		cfg.Engine.Hands = c.Hands
	}
	if c.Seed != 0 {
		cfg.Engine.Seed = c.Seed
	}
	if c.Debug {
		cfg.Engine.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(cfg.Engine.LogLevel)

	def, err := game.LoadDefinition(cfg.Engine.GameFile)
	if err != nil {
		return err
	}

	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("using random seed", "seed", seed)
	}

	names := c.Strategy
	if len(names) == 0 {
		names = seatStrategies(cfg, def.NumPlayers())
	}
	strategies, err := simulator.StrategiesFromNames(names, seed)
	if err != nil {
		return err
	}

	sim, err := simulator.New(def, strategies, seed, simulator.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting match",
		"game", cfg.Engine.GameFile,
		"hands", cfg.Engine.Hands,
		"strategies", names)

	start := time.Now()
	result, err := sim.Run(ctx, cfg.Engine.Hands)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Played %d hands in %v (%.0f hands/sec)\n",
		result.Hands, elapsed.Round(time.Millisecond),
		float64(result.Hands)/elapsed.Seconds())
	for seat, total := range result.Totals {
		fmt.Printf("  seat %d (%s): %+.1f total, %+.4f per hand\n",
			seat, names[seat], total, result.Mean(seat))
	}
	return nil
}

// seatStrategies maps config bots onto seats, filling unassigned seats with
// the call strategy.
func seatStrategies(cfg *config.Config, numPlayers int) []string {
	names := make([]string, numPlayers)
	taken := make([]bool, numPlayers)

	for _, bot := range cfg.Bots {
		if bot.Seat > 0 && bot.Seat <= numPlayers {
			names[bot.Seat-1] = bot.Strategy
			taken[bot.Seat-1] = true
		}
	}
	next := 0
	for _, bot := range cfg.Bots {
		if bot.Seat != 0 {
			continue
		}
		for next < numPlayers && taken[next] {
			next++
		}
		if next >= numPlayers {
			break
		}
		names[next] = bot.Strategy
		taken[next] = true
	}
	for i, name := range names {
		if name == "" {
			names[i] = "call"
		}
	}
	return names
}
