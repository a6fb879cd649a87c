package gui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/render"
)

func vec(v r2.Vec) rl.Vector2 { return rl.NewVector2(float32(v.X), float32(v.Y)) }

// drawPotential uploads the sampled grid into a texture, one texel per
// sample, and stretches it over the window.
func (a *App) drawPotential() {
	g := a.Sim.Grid()
	if g == nil || g.Len() == 0 {
		return
	}
	if !a.texReady {
		img := rl.GenImageColor(g.Cols, g.Rows, ColBg)
		a.potTex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		a.pixels = make([]color.RGBA, g.Len())
		a.texReady = true
	}
	render.PotentialImage(g, render.MaxPotential, a.pixels)
	rl.UpdateTexture(a.potTex, a.pixels)
	rl.DrawTextureEx(a.potTex, rl.NewVector2(0, 0), 0, float32(g.Spacing), rl.White)
}

func (a *App) drawField() {
	probes := a.Sim.Probes()
	peak := a.Sim.ProbeMax()
	for i := range probes {
		if arrow, ok := render.FieldArrow(&probes[i], peak); ok {
			drawArrow(arrow)
		}
	}
}

func (a *App) drawCharges() {
	charges := a.Sim.Charges()
	for i := range charges {
		c := &charges[i]
		center := vec(c.Pos)
		r := float32(c.Radius)
		rl.DrawCircleV(center, r, render.BodyColor(c.Sign))

		thick := r / 4
		half := r / 2
		switch c.Sign {
		case physics.Positive:
			rl.DrawLineEx(rl.NewVector2(center.X-half, center.Y), rl.NewVector2(center.X+half, center.Y), thick, rl.White)
			rl.DrawLineEx(rl.NewVector2(center.X, center.Y-half), rl.NewVector2(center.X, center.Y+half), thick, rl.White)
		case physics.Negative:
			rl.DrawLineEx(rl.NewVector2(center.X-half, center.Y), rl.NewVector2(center.X+half, center.Y), thick, rl.White)
		}
		if c.Fixed {
			a.drawText("f", int(center.X+r/6), int(center.Y-r/4)-16, 16, rl.White)
		}
		if a.dragging && c.ID == a.dragID {
			rl.DrawCircleLines(int32(center.X), int32(center.Y), r+2, render.Selection)
		}

		if c.Sign == physics.Neutral {
			continue
		}
		if a.ShowPartners {
			for _, arrow := range render.PartnerArrows(c) {
				drawArrow(arrow)
			}
		}
		drawArrow(render.NetForceArrow(c))
	}
}

func (a *App) drawVoltmeter() {
	v := a.Sim.Voltmeter()
	if !v.Active() {
		return
	}
	c := vec(v.Position())
	rl.DrawCircleLines(int32(c.X), int32(c.Y), reticleRadius, rl.White)
	rl.DrawLineV(rl.NewVector2(c.X-reticleRadius, c.Y), rl.NewVector2(c.X+reticleRadius, c.Y), rl.White)
	rl.DrawLineV(rl.NewVector2(c.X, c.Y-reticleRadius), rl.NewVector2(c.X, c.Y+reticleRadius), rl.White)
	rl.DrawLineEx(rl.NewVector2(c.X, c.Y+reticleRadius), rl.NewVector2(c.X, c.Y+40), 3, rl.White)

	box := rl.NewRectangle(c.X-50, c.Y+40, 100, 30)
	rl.DrawRectangleLinesEx(box, 2, rl.White)
	a.drawText(fmt.Sprintf("%.1f V", v.Reading()), int(box.X)+10, int(box.Y)+7, 16, ColReading)

	if n := len(v.Levels()); n > 0 {
		a.drawText(fmt.Sprintf("%d pinned", n), int(box.X)+10, int(box.Y+box.Height)+4, 12, ColText)
	}
}

// drawArrow draws a shaft and a head. Both windings of the head are
// submitted because raylib culls clockwise triangles.
func drawArrow(a render.Arrow) {
	if a.Dot() {
		rl.DrawCircleV(vec(a.From), 3, a.Color)
		return
	}
	rl.DrawLineEx(vec(a.From), vec(a.Shaft), render.BodyWidth, a.Color)
	tip, l, r := vec(a.To), vec(a.Left), vec(a.Right)
	rl.DrawTriangle(tip, l, r, a.Color)
	rl.DrawTriangle(tip, r, l, a.Color)
}
