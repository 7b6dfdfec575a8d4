// Command warchess runs a hot-seat game in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/warchess/warchess-go/internal/config"
	"github.com/warchess/warchess-go/internal/game"
	"github.com/warchess/warchess-go/internal/game/pieces"
	"github.com/warchess/warchess-go/internal/game/watchers"
	"github.com/warchess/warchess-go/internal/logging"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The screen owns stdout and stderr, so logs go to a file or nowhere.
	logger := zap.NewNop()
	if cfg.Logging.File != "" {
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("terminal session failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "warchess: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting warchess", zap.String("version", version))

	combat := watchers.NewCombatWatcher()
	turns := watchers.NewTurnWatcher()
	g := game.NewGameState(logger, pieces.NewFactory(cfg.PieceStats()), combat, turns)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	if cfg.UI.Mouse {
		screen.EnableMouse()
	}

	ui := newTerminal(screen, g, combat, turns, logger, cfg.UI.ShowLegend)
	if err := g.Initialize(); err != nil {
		return fmt.Errorf("set up game: %w", err)
	}

	for {
		ui.draw()
		if !ui.handle(screen.PollEvent()) {
			break
		}
	}
	logger.Info("warchess stopped")
	return nil
}
