package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/acpc/game"
	"github.com/lox/acpc/internal/config"
	"github.com/lox/acpc/internal/server"
)

// ServeCmd runs the websocket dealer until the match completes.
type ServeCmd struct {
	Config    string `short:"c" default:"acpc.hcl" help:"Path to HCL configuration file"`
	Addr      string `short:"a" help:"Listen address (overrides config)"`
	Game      string `short:"g" help:"Game definition file (overrides config)"`
	Hands     int    `help:"Number of hands to deal (overrides config)"`
	Seed      int64  `help:"RNG seed, 0 picks one from the clock (overrides config)"`
	TimeoutMs int    `help:"Per-action timeout in milliseconds (overrides config)"`
	Debug     bool   `help:"Enable debug logging"`
}

func (c *ServeCmd) Run() error {
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
	if c.TimeoutMs > 0 {
		cfg.Server.ActionTimeoutMS = c.TimeoutMs
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

	addr := cfg.ServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	srv := server.New(def, server.Config{
		Addr:          addr,
		Hands:         cfg.Engine.Hands,
		Seed:          seed,
		ActionTimeout: time.Duration(cfg.Server.ActionTimeoutMS) * time.Millisecond,
	}, logger, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting dealer",
		"addr", addr,
		"game", cfg.Engine.GameFile,
		"hands", cfg.Engine.Hands,
		"seats", def.NumPlayers())
	return srv.Run(ctx)
}
