package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
	"github.com/Garsondee/Grid-Skirmish/internal/view"
)

func main() {
	configPath := flag.String("config", "", "optional YAML battle config")
	seed := flag.Int64("seed", 0, "battle seed (0 = clock)")
	verbose := flag.Bool("verbose", false, "record per-tick unit entries in the battle log")
	flag.Parse()

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	cfg.Seed = game.SeedOrClock(cfg.Seed)

	b, err := game.NewBattle(cfg, game.WithLog(game.NewBattleLog(*verbose)))
	if err != nil {
		log.Fatal(err)
	}
	v := view.New(b, cfg.Seed)

	ebiten.SetWindowTitle("Grid Skirmish")
	ebiten.SetWindowSize(v.Size())
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
