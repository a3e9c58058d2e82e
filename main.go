package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"

	"github.com/wfunc/blackjack/config"
	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/monitor"
	"github.com/wfunc/blackjack/persistence"
	"github.com/wfunc/blackjack/server"
	"github.com/wfunc/blackjack/services"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"." help:"Directory holding config.yaml"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("blackjack"),
		kong.Description("Two-player blackjack chains with leaderboard and directory projections"),
		kong.UsageOnError(),
	)

	// Load configuration
	cfg, err := config.LoadConfig(CLI.Config)
	kctx.FatalIfErrorf(err, "load configuration")
	if CLI.LogLevel != "" {
		cfg.Log.Level = CLI.LogLevel
	}

	// Initialize logger
	kctx.FatalIfErrorf(logger.Init(cfg.Log.Level), "init logger")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := persistence.Open(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Log.Infow("Database connection successful.", "driver", cfg.Database.Driver)

	mon := monitor.NewMonitor("blackjack")
	node, err := services.NewNode(ctx, cfg, db, quartz.NewReal(), mon)
	if err != nil {
		logger.Log.Fatalf("Failed to start chains: %v", err)
	}
	defer node.Close()

	// Start Server
	gameServer := server.NewGameServer(cfg.Server, node, mon)
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(ctx); err != nil {
		logger.Log.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}
