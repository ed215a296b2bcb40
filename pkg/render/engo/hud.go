// pkg/render/engo/hud.go
package engo

import (
	"image/color"
	"sync"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-circuit-racer/pkg/engine"
	"github.com/opd-ai/go-circuit-racer/pkg/input"
)

// HUD copy.
const (
	InstructionsText = "Press UP to start. Arrow keys drive, R resets."
	ResultsText      = "You hit another vehicle. Press R to try again."
)

const (
	hudMargin     = 20
	hudButtonSize = 80
	hudPanelH     = 60
	hudZIndex     = 1000
)

// hudElement is one positioned piece of the overlay, in viewport pixels.
type hudElement struct {
	name    string
	text    string
	x, y    float32
	w, h    float32
	color   color.Color
	visible bool
	control input.Control
	button  bool
}

func (e hudElement) contains(x, y float32) bool {
	return x >= e.x && x < e.x+e.w && y >= e.y && y < e.y+e.h
}

// hudLayout places every overlay element for a viewport.
func hudLayout(ui engine.UIState, width, height float32) []hudElement {
	panel := color.RGBA{A: 0xb0}
	buttonX := width - hudMargin - hudButtonSize
	return []hudElement{
		{
			name:    "status",
			text:    ui.Status,
			x:       width/2 - 100,
			y:       hudMargin,
			w:       200,
			h:       hudPanelH,
			color:   color.White,
			visible: ui.Status != "",
		},
		{
			name:    "instructions",
			text:    InstructionsText,
			x:       hudMargin,
			y:       height/2 - hudPanelH/2,
			w:       width - 2*hudMargin,
			h:       hudPanelH,
			color:   panel,
			visible: ui.InstructionsVisible,
		},
		{
			name:    "results",
			text:    ResultsText,
			x:       hudMargin,
			y:       height/2 - hudPanelH/2,
			w:       width - 2*hudMargin,
			h:       hudPanelH,
			color:   panel,
			visible: ui.ResultsVisible,
		},
		{
			name:    "accelerate",
			text:    "UP",
			x:       buttonX,
			y:       height - 2*(hudMargin+hudButtonSize),
			w:       hudButtonSize,
			h:       hudButtonSize,
			color:   panel,
			visible: ui.ButtonsVisible,
			control: input.Accelerate,
			button:  true,
		},
		{
			name:    "decelerate",
			text:    "DOWN",
			x:       buttonX,
			y:       height - hudMargin - hudButtonSize,
			w:       hudButtonSize,
			h:       hudButtonSize,
			color:   panel,
			visible: ui.ButtonsVisible,
			control: input.Decelerate,
			button:  true,
		},
	}
}

type hudEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

type hudWidget struct {
	background *hudEntity
	label      *hudEntity
}

// HUDSystem draws the status line, the instruction and result panels and
// the on-screen driving buttons.
type HUDSystem struct {
	mu       sync.Mutex
	ui       engine.UIState
	width    float32
	height   float32
	elements []hudElement

	renderSystem *common.RenderSystem
	font         *common.Font
	widgets      map[string]*hudWidget
}

// NewHUDSystem creates a HUD for a viewport of the given size.
func NewHUDSystem(width, height float32) *HUDSystem {
	hud := &HUDSystem{
		width:   width,
		height:  height,
		widgets: make(map[string]*hudWidget),
	}
	hud.elements = hudLayout(hud.ui, width, height)
	return hud
}

// Add satisfies the ecs.System interface
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Attach creates the overlay entities. Without a font the labels are
// skipped and only the panels are drawn.
func (hud *HUDSystem) Attach(rs *common.RenderSystem, font *common.Font) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.renderSystem, hud.font = rs, font

	for _, el := range hud.elements {
		w := &hudWidget{background: newHUDEntity(common.Rectangle{}, el.color)}
		rs.Add(&w.background.BasicEntity, &w.background.RenderComponent, &w.background.SpaceComponent)
		if font != nil {
			w.label = newHUDEntity(common.Text{Font: font, Text: el.text}, color.White)
			w.label.SetZIndex(hudZIndex + 1)
			rs.Add(&w.label.BasicEntity, &w.label.RenderComponent, &w.label.SpaceComponent)
		}
		hud.widgets[el.name] = w
	}
}

func newHUDEntity(d common.Drawable, c color.Color) *hudEntity {
	e := &hudEntity{BasicEntity: ecs.NewBasic()}
	e.RenderComponent = common.RenderComponent{Drawable: d, Color: c}
	e.SetShader(common.HUDShader)
	e.SetZIndex(hudZIndex)
	return e
}

// Update pushes the latest layout into the overlay entities.
func (hud *HUDSystem) Update(dt float32) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	for _, el := range hud.elements {
		w, ok := hud.widgets[el.name]
		if !ok {
			continue
		}
		w.background.Hidden = !el.visible
		w.background.Position = engo.Point{X: el.x, Y: el.y}
		w.background.Width, w.background.Height = el.w, el.h
		if el.name == "status" {
			w.background.Color = color.Transparent
		}
		if w.label != nil {
			w.label.Hidden = !el.visible
			w.label.Drawable = common.Text{Font: hud.font, Text: el.text}
			w.label.Position = engo.Point{X: el.x + 10, Y: el.y + 10}
		}
	}
}

// UpdateUI records the overlay state from a frame.
func (hud *HUDSystem) UpdateUI(ui engine.UIState) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.ui = ui
	hud.elements = hudLayout(ui, hud.width, hud.height)
}

// Resize re-lays the overlay for a new viewport.
func (hud *HUDSystem) Resize(width, height float32) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.width, hud.height = width, height
	hud.elements = hudLayout(hud.ui, width, height)
}

// ButtonAt returns the control of the visible on-screen button under the
// viewport point.
func (hud *HUDSystem) ButtonAt(x, y float32) (input.Control, bool) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	for _, el := range hud.elements {
		if el.button && el.visible && el.contains(x, y) {
			return el.control, true
		}
	}
	return 0, false
}

// Visible reports whether the named overlay element is shown.
func (hud *HUDSystem) Visible(name string) bool {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	for _, el := range hud.elements {
		if el.name == name {
			return el.visible
		}
	}
	return false
}
