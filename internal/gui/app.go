package gui

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/sim"
)

// Theme Colors
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColReading = rl.NewColor(0, 228, 48, 255)
)

const (
	maxTelemetry  = 200
	reticleRadius = 10
)

type App struct {
	Sim  *sim.Simulator
	Log  *zap.Logger
	Dt   float64
	Font rl.Font

	Width, Height int32
	ShowPartners  bool
	ShowField     bool
	Telemetry     []float64

	dragID   int
	dragging bool
	quit     bool

	pixels   []color.RGBA
	potTex   rl.Texture2D
	texReady bool
}

// initWindow opens a fixed-size window matching the simulation layout.
func initWindow(w, h int32) {
	rl.InitWindow(w, h, "chargesim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp wraps s for interactive use. The window must already be open.
func NewApp(s *sim.Simulator, dt float64, log *zap.Logger) *App {
	l := s.Layout()
	return &App{
		Sim:       s,
		Log:       log,
		Dt:        dt,
		Font:      loadFont(),
		Width:     int32(l.Width),
		Height:    int32(l.Height),
		ShowField: true,
		Telemetry: make([]float64, 0, maxTelemetry),
	}
}

// Run opens a window sized to the simulator's layout and blocks until it
// is closed or ctx is done.
func Run(ctx context.Context, s *sim.Simulator, dt float64, log *zap.Logger) error {
	l := s.Layout()
	initWindow(int32(l.Width), int32(l.Height))
	defer rl.CloseWindow()

	app := NewApp(s, dt, log)
	defer app.unload()
	return app.RunLoop(ctx)
}

func (a *App) RunLoop(ctx context.Context) error {
	for !rl.WindowShouldClose() && !a.quit {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := a.Update(ctx); err != nil {
			return err
		}
		a.Draw()
	}
	return nil
}

func (a *App) unload() {
	if a.texReady {
		rl.UnloadTexture(a.potTex)
	}
	rl.UnloadFont(a.Font)
}

func mouseWorld() r2.Vec {
	m := rl.GetMousePosition()
	return r2.Vec{X: float64(m.X), Y: float64(m.Y)}
}

func (a *App) Update(ctx context.Context) error {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return nil
	}
	if rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeySpace) {
		paused := a.Sim.TogglePause()
		a.Log.Debug("pause toggled", zap.Bool("paused", paused))
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.Sim.ToggleVoltmeter()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.Sim.ClearEquipotentials()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		a.ShowField = !a.ShowField
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.ShowPartners = !a.ShowPartners
	}

	mouse := mouseWorld()
	a.handleMouse(mouse)

	volt := a.Sim.Voltmeter()
	if volt.Active() {
		a.Sim.SetProbePosition(mouse)
		if rl.IsKeyPressed(rl.KeyEnter) || rl.IsMouseButtonPressed(rl.MouseMiddleButton) {
			level := a.Sim.PinEquipotential()
			a.Log.Debug("equipotential pinned", zap.Float64("level", level))
		}
	}

	report, err := a.Sim.Tick(ctx, a.Dt)
	if err != nil {
		a.Log.Error("tick failed", zap.Error(err))
		return err
	}
	if volt.Active() {
		a.Telemetry = append(a.Telemetry, report.Reading)
		if len(a.Telemetry) > maxTelemetry {
			a.Telemetry = a.Telemetry[1:]
		}
	}
	return nil
}

// handleMouse starts and ends drags, pins levels on click while the
// voltmeter is active, and otherwise spawns charges on free ground.
func (a *App) handleMouse(mouse r2.Vec) {
	left := rl.IsMouseButtonPressed(rl.MouseLeftButton)
	right := rl.IsMouseButtonPressed(rl.MouseRightButton)

	if a.dragging {
		if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
			a.dragging = false
			return
		}
		if err := a.Sim.MoveCharge(a.dragID, mouse); err != nil {
			a.dragging = false
		}
		return
	}
	if !left && !right {
		return
	}

	if a.Sim.Voltmeter().Active() {
		a.Sim.PinEquipotential()
		return
	}
	if id, ok := a.Sim.ChargeAt(mouse); ok && left {
		a.dragID, a.dragging = id, true
		return
	}
	sign := physics.Positive
	if right {
		sign = physics.Negative
	}
	fixed := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	if _, err := a.Sim.PlaceAt(sign, mouse, fixed); err != nil && !errors.Is(err, sim.ErrOccupied) {
		a.Log.Warn("placement rejected", zap.Error(err))
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawPotential()
	if a.ShowField {
		a.drawField()
	}
	a.drawCharges()
	a.drawVoltmeter()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("chargesim", 10, 10, 20, ColSelect)
	a.drawText(fmt.Sprintf("%d charges  t=%.2fs", a.Sim.Len(), a.Sim.Time()), 10, 34, 14, ColText)
	a.drawStatus()
	a.DrawTelemetry()

	rl.DrawFPS(10, a.Height-24)
	a.drawText("[LMB] +  [RMB] -  [SHIFT] FIXED  [V] VOLTMETER  [ENTER] PIN  [C] CLEAR  [ESC] PAUSE",
		110, int(a.Height)-20, 12, ColTextDim)
}

// drawStatus draws a play triangle while running and two bars while
// paused, in the top right corner.
func (a *App) drawStatus() {
	w := float32(a.Width)
	if a.Sim.Paused() {
		rl.DrawRectangleV(rl.NewVector2(w-30, 10), rl.NewVector2(7, 20), ColSelect)
		rl.DrawRectangleV(rl.NewVector2(w-17, 10), rl.NewVector2(7, 20), ColSelect)
		return
	}
	rl.DrawTriangle(
		rl.NewVector2(w-10, 20),
		rl.NewVector2(w-30, 10),
		rl.NewVector2(w-30, 30),
		ColSelect,
	)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 10, 60
	width, height := 200, 40

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("V: %.1f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
