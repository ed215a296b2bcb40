// cmd/racer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-circuit-racer/pkg/bridge"
	"github.com/opd-ai/go-circuit-racer/pkg/config"
	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/event"
	"github.com/opd-ai/go-circuit-racer/pkg/health"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
	"github.com/opd-ai/go-circuit-racer/pkg/render"
	engorender "github.com/opd-ai/go-circuit-racer/pkg/render/engo"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	rendererName := flag.String("renderer", "engo", "Renderer: null, terminal, engo or bridge")
	trackName := flag.String("track", "", "Track layout, overrides the configuration")
	levelName := flag.String("log-level", "", "Log level: debug, info, warn or error (default $"+logging.LevelEnvVar+")")
	cols := flag.Int("cols", 100, "Terminal renderer width in cells")
	rows := flag.Int("rows", 36, "Terminal renderer height in cells")
	flag.Parse()

	if *levelName == "" {
		*levelName = os.Getenv(logging.LevelEnvVar)
	}
	level, ok := logging.ParseLevel(*levelName)
	logger := logging.NewLoggerWithWriter(os.Stderr, level)
	ctx := context.Background()
	if !ok && *levelName != "" {
		logger.Warn(ctx, "Unknown log level, using info", "level", *levelName)
	}

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}
	if *trackName != "" {
		cfg.Track = *trackName
	}

	layout, err := track.Load(cfg.Track)
	if err != nil {
		logger.Error(ctx, "Unknown track", err, "available", track.Names())
		os.Exit(1)
	}

	game, err := engine.NewGame(cfg, layout, event.NewEventBus(), logger)
	if err != nil {
		logger.Error(ctx, "Failed to create game", err)
		os.Exit(1)
	}
	reveal := game.ScheduleReveal(time.Duration(cfg.UI.RevealDelayMs) * time.Millisecond)
	defer reveal.Stop()

	logger.Info(ctx, "Starting circuit racer",
		"track", layout.Name,
		"renderer", *rendererName,
		"collision", cfg.Collision.Enabled,
		"traffic", cfg.Traffic.Enabled,
	)

	if *rendererName == "engo" {
		scene := engorender.NewGameScene(game, cfg, logger)
		engorender.Run(scene, 1280, 720)
		return
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, game, cfg, logger, *rendererName, *cols, *rows); err != nil {
		logger.Error(ctx, "Racer stopped with error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Racer stopped")
}

func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.GameConfig, error) {
	var cfg *config.GameConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment configuration: %w", err)
	}
	return cfg, nil
}

// run drives the game with the frame loop until ctx is done. Driving
// commands are read from stdin for every headless renderer.
func run(ctx context.Context, game *engine.Game, cfg *config.GameConfig, logger *logging.Logger, name string, cols, rows int) error {
	var sink render.Renderer
	switch name {
	case "null":
		sink = render.NewNullRenderer(logger)
	case "terminal":
		sink = render.NewTerminalRenderer(os.Stdout, cols, rows, cfg.Camera.Width)
	case "bridge":
		hub := bridge.NewHub(game, cfg, logger)
		server := bridge.NewServer(hub, cfg.Bridge, logger)
		sink = render.Multi{render.NewNullRenderer(logger), hub}
		loop := engine.NewLoop(game, sink, cfg.FrameRate, logger)
		server.Health().AddCheck(health.NewLoopHealthCheck(
			func() bool { return game.Phase() == engine.PhaseRunning },
			loop.LastTick,
			time.Second,
		))
		sink.RenderTrack(game.Layout())

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		loopErr := make(chan error, 1)
		go func() { loopErr <- loop.Run(ctx) }()
		err := server.ListenAndServe(ctx)
		cancel()
		if lerr := <-loopErr; err == nil {
			err = lerr
		}
		return err
	default:
		return fmt.Errorf("unknown renderer %q", name)
	}

	sink.RenderTrack(game.Layout())
	loop := engine.NewLoop(game, sink, cfg.FrameRate, logger)
	go readCommands(ctx, os.Stdin, game.HandleInput, logger)
	return loop.Run(ctx)
}
