// pkg/render/engo/scene.go
package engo

import (
	"bytes"
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/go-circuit-racer/pkg/config"
	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/event"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
)

const hudFontURL = "goregular.ttf"

// GameScene runs a game inside an engo window. engo owns the frame clock:
// every update advances the game and hands the snapshot to the renderer.
type GameScene struct {
	game   *engine.Game
	cfg    *config.GameConfig
	logger *logging.Logger

	world    *ecs.World
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem

	resizeSub *event.Subscription
	clockMs   float64
}

// NewGameScene creates a new game scene
func NewGameScene(game *engine.Game, cfg *config.GameConfig, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &GameScene{
		game:   game,
		cfg:    cfg,
		logger: logger.With("renderer", "engo"),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "CircuitRacer"
}

// Preload registers the HUD font (required by Engo)
func (scene *GameScene) Preload() {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(goregular.TTF)); err != nil {
		scene.logger.Error(context.Background(), "Failed to load HUD font", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	ctx := context.Background()
	scene.world, _ = u.(*ecs.World)
	common.SetBackground(LawnColor)
	SetupInputBindings()

	rs := &common.RenderSystem{}
	scene.world.AddSystem(rs)

	assets := NewAssetManager()
	if err := assets.LoadAssets(); err != nil {
		scene.logger.Error(ctx, "Failed to load sprites", err)
	}

	width, height := float64(engo.WindowWidth()), float64(engo.WindowHeight())
	scene.camera = NewCameraSystem(scene.cfg.Camera.Width, width, height, scene.game.Bus())
	scene.camera.ListenForResize()
	scene.world.AddSystem(scene.camera)

	scene.hud = NewHUDSystem(float32(width), float32(height))
	scene.hud.Attach(rs, scene.loadFont(ctx))
	scene.world.AddSystem(scene.hud)
	scene.resizeSub = scene.game.Bus().Subscribe(event.ViewportResized, func(e event.Event) {
		if re, ok := e.(*event.ResizeEvent); ok {
			scene.hud.Resize(float32(re.Width), float32(re.Height))
		}
	})

	scene.input = NewInputSystem(scene.game.HandleInput, scene.hud)
	scene.world.AddSystem(scene.input)

	scene.renderer = NewEngoRenderer(rs, assets, scene.camera, scene.hud)
	scene.renderer.RenderTrack(scene.game.Layout())
	scene.world.AddSystem(&frameSystem{scene: scene})

	scene.logger.Info(ctx, "Scene ready",
		"track", scene.game.Layout().Name,
		"width", width,
		"height", height,
	)
}

func (scene *GameScene) loadFont(ctx context.Context) *common.Font {
	font := &common.Font{URL: hudFontURL, FG: color.White, Size: 24}
	if err := font.CreatePreloaded(); err != nil {
		scene.logger.Warn(ctx, "HUD text disabled", "error", err)
		return nil
	}
	return font
}

// Advance moves the scene clock by ms and renders the resulting frame.
func (scene *GameScene) Advance(ms float64) {
	scene.clockMs += ms
	scene.game.Frame(scene.clockMs)
	scene.renderer.RenderFrame(scene.game.Snapshot())
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	if scene.resizeSub != nil {
		scene.resizeSub.Cancel()
	}
	scene.logger.Info(context.Background(), "Scene closed")
}

// frameSystem drives the game from engo's update loop.
type frameSystem struct {
	scene *GameScene
}

func (f *frameSystem) Remove(ecs.BasicEntity) {}

func (f *frameSystem) Update(dt float32) {
	f.scene.Advance(float64(dt) * 1000)
}

// Run opens a window and blocks until it closes.
func Run(scene *GameScene, width, height int) {
	engo.Run(engo.RunOptions{
		Title:    "Circuit Racer",
		Width:    width,
		Height:   height,
		FPSLimit: scene.cfg.FrameRate,
	}, scene)
}
