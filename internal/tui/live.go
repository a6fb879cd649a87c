package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/sim"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	trailLen    = 30
)

// LiveRenderer draws a plain-text view of a headless run as it ticks.
// It implements sim.Observer.
type LiveRenderer struct {
	out       io.Writer
	scenario  string
	frameRate int
	lastFrame time.Time
	view      viewport
	canvas    [][]rune
	trails    map[int][]r2.Vec
	energy    []float64
}

func NewLiveRenderer(out io.Writer, scenario string, worldW, worldH float64, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		scenario:  scenario,
		frameRate: max(frameRate, 1),
		view:      newViewport(width, height, worldW, worldH),
		canvas:    canvas,
		trails:    make(map[int][]r2.Vec),
	}
}

func (r *LiveRenderer) OnTick(s sim.Snapshot) {
	var ke float64
	for i := range s.Charges {
		c := &s.Charges[i]
		ke += c.KineticEnergy()
		r.trails[c.ID] = append(r.trails[c.ID], c.Pos)
		if len(r.trails[c.ID]) > trailLen {
			r.trails[c.ID] = r.trails[c.ID][1:]
		}
	}
	r.energy = append(r.energy, ke)
	if len(r.energy) > width {
		r.energy = r.energy[1:]
	}

	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()
	r.draw(s)
	r.render(s)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) draw(s sim.Snapshot) {
	live := make(map[int]bool, len(s.Charges))
	for i := range s.Charges {
		live[s.Charges[i].ID] = true
	}
	for id, trail := range r.trails {
		if !live[id] {
			delete(r.trails, id)
			continue
		}
		for _, pt := range trail {
			x, y := r.view.cellOf(pt)
			r.set(x, y, '.')
		}
	}
	for i := range s.Charges {
		c := &s.Charges[i]
		x, y := r.view.cellOf(c.Pos)
		r.set(x, y, signRune(c.Sign))
	}
}

func (r *LiveRenderer) render(s sim.Snapshot) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  tick=%d  t=%.2fs  charges=%d\n", r.scenario, s.Tick, s.Time, len(s.Charges)))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  |")
		b.WriteString(string(row))
		b.WriteString("|\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  reading=%.2f V  merges=%d  collisions=%d\n", s.Reading, s.Merges, s.Collisions))
	if len(r.energy) > 1 {
		b.WriteString(asciigraph.Plot(r.energy, asciigraph.Height(4), asciigraph.Width(40), asciigraph.Caption("kinetic energy")) + "\n")
	}

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
