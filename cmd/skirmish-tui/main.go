package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
	"github.com/Garsondee/Grid-Skirmish/internal/term"
)

func main() {
	configPath := flag.String("config", "", "optional YAML battle config")
	seed := flag.Int64("seed", 0, "battle seed (0 = clock)")
	flag.Parse()

	if err := run(*configPath, *seed); err != nil {
		fmt.Fprintln(os.Stderr, "skirmish-tui:", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64) error {
	cfg := game.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.Seed = game.SeedOrClock(cfg.Seed)

	b, err := game.NewBattle(cfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := term.NewApp(screen, b).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
