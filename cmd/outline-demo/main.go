// Command outline-demo renders a lit scene and outlines one object through an off-screen mask.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-outline/config"
	"github.com/Carmen-Shannon/oxy-outline/engine"
	"github.com/Carmen-Shannon/oxy-outline/engine/profiler"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/resource"
	"github.com/Carmen-Shannon/oxy-outline/engine/window"
	"github.com/Carmen-Shannon/oxy-outline/game"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration; a missing file means defaults")
	seed := flag.Uint64("seed", 0, "seed for object placement, 0 picks one from the clock")
	flag.Parse()

	if err := run(*configPath, *seed); err != nil {
		log.Fatalf("[Main] %v", err)
	}
}

// run builds the demo and blocks until the window closes. Errors are returned so the deferred
// releases run before the process exits.
func run(configPath string, seed uint64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	cache := resource.NewCache(
		resource.WithDir(cfg.Resources.Dir),
		resource.WithMaxTextureSize(cfg.Resources.MaxTextureSize),
		resource.WithWorkers(cfg.Resources.PreloadWorkers),
	)
	defer cache.Close()

	var opts []game.GameBuilderOption
	if seed != 0 {
		opts = append(opts, game.WithSeed(seed))
	}
	if cfg.Resources.Watch && isDir(cfg.Resources.Dir) {
		w, err := resource.NewWatcher(cfg.Resources.Dir)
		if err != nil {
			log.Printf("[Main] hot reload disabled: %v", err)
		} else {
			defer w.Close()
			go func() {
				for err := range w.Errors {
					log.Printf("[Main] watcher: %v", err)
				}
			}()
			opts = append(opts, game.WithReloadEvents(w.Events))
			log.Printf("[Main] watching %s", cfg.Resources.Dir)
		}
	}

	g, err := game.New(cfg, cache, opts...)
	if err != nil {
		return err
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithResizable(cfg.Window.Resizable),
		window.WithMouseVisible(!cfg.Window.MouseHidden),
	)

	presentMode := renderer.PresentModeVSync
	if !cfg.Window.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, renderer.WithPresentMode(presentMode))
	if err != nil {
		return err
	}
	defer r.Release()

	hud := profiler.NewProfiler(profiler.WithReporter(func(s profiler.Stats) {
		win.SetTitle(cfg.Window.Title + " | " + s.String())
		log.Printf("[Profiler] %s", s)
	}))

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithProfiler(hud),
		engine.WithFrameLimit(float64(cfg.Debug.FrameLimit)),
	)
	if err := g.Attach(eng); err != nil {
		return err
	}

	log.Printf("[Main] running, seed %d, present mode %s", g.Seed(), presentMode)
	eng.Run()
	return nil
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
