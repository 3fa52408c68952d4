// Command navview is an interactive view of the navigation graph. Left click
// sets the player's goal, right click toggles a wall.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/config"
	"github.com/milk9111/isocore/internal/logging"
	"github.com/milk9111/isocore/internal/world"
	"go.uber.org/zap"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

func main() {
	configPath := flag.String("config", "", "YAML or TOML config file (defaults when empty)")
	savePath := flag.String("save", "scene.isoc", "file written by F5 and read by F9")
	empty := flag.Bool("empty", false, "start without the demo walls")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	w, err := world.New(cfg, logger, cp.Vector{X: screenWidth, Y: screenHeight})
	if err != nil {
		logger.Fatal("create world", zap.Error(err))
	}
	if *empty {
		if _, err := w.AddPlayer(cp.Vector{}); err != nil {
			logger.Fatal("add player", zap.Error(err))
		}
	} else if err := w.SeedDemo(cp.Vector{X: 6, Y: 0}); err != nil {
		logger.Fatal("seed demo", zap.Error(err))
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("isocore navview")
	ebiten.SetTPS(cfg.Simulation.TickRate)

	game := NewGame(w, cfg, logger.Named("navview"), *savePath)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
