// Command isocore runs the isometric scene headless: a player walks to a
// goal around a line of walls while the simulation is logged.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/config"
	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
	"github.com/milk9111/isocore/internal/logging"
	"github.com/milk9111/isocore/internal/world"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "YAML or TOML config file (defaults when empty)")
	ticks := flag.Int("ticks", -1, "ticks to simulate, overriding simulation.ticks")
	savePath := flag.String("save", "", "write the scene here when the run ends")
	loadPath := flag.String("load", "", "load a saved scene instead of seeding the demo")
	goalX := flag.Int("gx", 6, "goal grid x")
	goalY := flag.Int("gy", 0, "goal grid y")
	watch := flag.Bool("watch", false, "run in real time and reload the cost script when it changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *ticks >= 0 {
		cfg.Simulation.Ticks = *ticks
	}
	if *savePath != "" {
		cfg.Simulation.SavePath = *savePath
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *loadPath, cp.Vector{X: float64(*goalX), Y: float64(*goalY)}, *watch); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, loadPath string, goal cp.Vector, watch bool) error {
	w, err := world.New(cfg, logger, cp.Vector{})
	if err != nil {
		return err
	}

	if loadPath != "" {
		if err := w.Scene.Load(loadPath); err != nil {
			return fmt.Errorf("load %s: %w", loadPath, err)
		}
		logger.Info("loaded scene", zap.String("path", loadPath), zap.Int("entities", len(w.Scene.Entities().Entities())))
	} else if err := w.SeedDemo(goal); err != nil {
		return err
	}

	if watch {
		err = runWatched(ctx, cfg, logger, w)
	} else {
		err = runFixed(ctx, cfg, logger, w)
	}
	if err != nil {
		return err
	}

	report(logger, w)
	if path := cfg.Simulation.SavePath; path != "" {
		if err := w.Scene.Save(path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		logger.Info("saved scene", zap.String("path", path))
	}
	return nil
}

// runFixed advances the scene as fast as possible for the configured number
// of ticks.
func runFixed(ctx context.Context, cfg *config.Config, logger *zap.Logger, w *world.World) error {
	dt := cfg.TickSeconds()
	every := cfg.Simulation.TickRate
	for i := 0; i < cfg.Simulation.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			logger.Info("interrupted", zap.Int("tick", i))
			return nil
		}
		w.Scene.Update(dt)
		if (i+1)%every == 0 {
			report(logger, w)
		}
	}
	return nil
}

// runWatched ticks in real time until interrupted, reloading the cost script
// whenever the file changes. A script that fails to compile is logged and
// the previous version stays in use.
func runWatched(ctx context.Context, cfg *config.Config, logger *zap.Logger, w *world.World) error {
	if w.Cost == nil {
		return errors.New("watch: navigation.cost_script is not set")
	}
	watcher, err := config.NewWatcher(w.Cost.Path())
	if err != nil {
		return err
	}
	defer watcher.Close()

	script, _ := filepath.Abs(w.Cost.Path())
	interval := time.Second / time.Duration(cfg.Simulation.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	var ticks int
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			w.Scene.Update(now.Sub(last).Seconds())
			last = now
			ticks++
			if ticks%cfg.Simulation.TickRate == 0 {
				report(logger, w)
			}
		case path, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if path != script {
				continue
			}
			if err := w.Cost.Reload(); err != nil {
				logger.Warn("cost script reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Info("cost script reloaded", zap.String("path", path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

func report(logger *zap.Logger, w *world.World) {
	player, ok := w.Player()
	if !ok {
		logger.Info("no player", zap.Uint64("tick", w.Scene.Ticks()))
		return
	}
	pos := ecs.Get(player, component.PositionComponent.Kind())
	vel := ecs.Get(player, component.VelocityComponent.Kind())
	pf := ecs.Get(player, component.PathfindingComponent.Kind())
	logger.Info("player",
		zap.Uint64("tick", w.Scene.Ticks()),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
		zap.Float64("speed", vel.Speed),
		zap.Any("cell", pf.Current),
		zap.Any("goal", pf.Goal),
		zap.Bool("arrived", pf.HasCurrent && pf.Current == pf.Goal),
		zap.Int("route", len(w.Route())),
	)
}
