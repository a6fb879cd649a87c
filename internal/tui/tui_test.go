package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/field"
	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/sim"
	"github.com/san-kum/chargesim/internal/voltmeter"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	l := field.DefaultLayout()
	l.GridSpacing = 10
	l.Workers = 1
	s, err := sim.New(physics.DefaultParams(), l, voltmeter.DefaultTolerance())
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	return newModel(context.Background(), s, 1.0/60, zap.NewNop())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func TestViewportMapping(t *testing.T) {
	v := newViewport(80, 20, 800, 500)
	if v.cellW != 10 || v.cellH != 25 {
		t.Fatalf("cell size = %vx%v", v.cellW, v.cellH)
	}
	if got := v.center(0, 0); got != (r2.Vec{X: 5, Y: 12.5}) {
		t.Errorf("center(0,0) = %v", got)
	}
	col, row := v.cellOf(r2.Vec{X: 795, Y: 499})
	if col != 79 || row != 19 {
		t.Errorf("cellOf corner = %d,%d", col, row)
	}
	col, row = v.cellOf(r2.Vec{X: -50, Y: 900})
	if col != 0 || row != 19 {
		t.Errorf("cellOf clamps to %d,%d", col, row)
	}
}

func TestKeyPlacement(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, runes("+"))
	if m.sim.Len() != 1 {
		t.Fatalf("expected 1 charge, got %d", m.sim.Len())
	}

	// Same spot again is inside the first charge's square.
	m = update(t, m, runes("-"))
	if m.sim.Len() != 1 {
		t.Errorf("placement over a charge should be refused, got %d charges", m.sim.Len())
	}

	m = update(t, m, runes("x"))
	if m.sim.Len() != 0 {
		t.Errorf("x should remove the charge under the cursor")
	}
}

func TestFixedMode(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, runes("f"))
	m = update(t, m, runes("+"))
	cs := m.sim.Charges()
	if len(cs) != 1 || !cs[0].Fixed {
		t.Fatalf("expected one fixed charge, got %+v", cs)
	}
}

func TestVoltmeterKeys(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, runes("v"))
	if !m.sim.Voltmeter().Active() {
		t.Fatal("v should activate the voltmeter")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if n := len(m.sim.Voltmeter().Levels()); n != 1 {
		t.Errorf("expected 1 pinned level, got %d", n)
	}
	m = update(t, m, runes("+"))
	if m.sim.Len() != 0 {
		t.Error("placement must be refused while the voltmeter is active")
	}
	m = update(t, m, runes("c"))
	if n := len(m.sim.Voltmeter().Levels()); n != 0 {
		t.Errorf("c should clear levels, got %d", n)
	}
}

func TestPauseKey(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.sim.Paused() {
		t.Error("space should pause")
	}
	m = update(t, m, runes("p"))
	if m.sim.Paused() {
		t.Error("p should resume")
	}
}

func TestMousePlacement(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.MouseMsg{X: 1, Y: 3, Button: tea.MouseButtonRight, Action: tea.MouseActionPress})
	cs := m.sim.Charges()
	if len(cs) != 1 || cs[0].Sign != physics.Negative {
		t.Fatalf("expected one negative charge, got %+v", cs)
	}

	// Clicks outside the map are ignored.
	m = update(t, m, tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.sim.Len() != 1 {
		t.Errorf("click in the header should not place, got %d charges", m.sim.Len())
	}
}

func TestTickAdvancesSimulation(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tickMsg{})
	if m.sim.TickCount() != 1 {
		t.Errorf("expected 1 tick, got %d", m.sim.TickCount())
	}
	if m.err != nil {
		t.Errorf("unexpected error: %v", m.err)
	}
}

func TestTickReportsMerges(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.sim.PlaceCharge(physics.Positive, r2.Vec{X: 380, Y: 250}, true); err != nil {
		t.Fatalf("PlaceCharge: %v", err)
	}
	if _, err := m.sim.PlaceCharge(physics.Negative, r2.Vec{X: 420, Y: 250}, true); err != nil {
		t.Fatalf("PlaceCharge: %v", err)
	}
	m = update(t, m, tickMsg{})
	if m.sim.Len() != 1 {
		t.Fatalf("expected 1 charge after merge, got %d", m.sim.Len())
	}
	if !strings.HasPrefix(m.status, "1 merge(s)") {
		t.Errorf("status = %q, want merge notice", m.status)
	}
}

func TestViewShowsCharges(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, runes("+"))
	m = update(t, m, tickMsg{})
	view := m.View()
	if !strings.Contains(view, "chargesim") || !strings.Contains(view, "+") {
		t.Errorf("view missing title or glyph")
	}
	if !strings.Contains(view, "voltmeter off") {
		t.Errorf("view should report voltmeter state")
	}
}

func TestLiveRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "dipole", 800, 500, 1000)
	p := physics.DefaultParams()
	snap := sim.Snapshot{
		Tick: 3,
		Charges: []physics.Charge{
			physics.NewCharge(0, physics.Positive, r2.Vec{X: 100, Y: 100}, false, p),
			physics.NewCharge(1, physics.Negative, r2.Vec{X: 700, Y: 400}, true, p),
		},
	}
	r.OnTick(snap)

	out := buf.String()
	for _, want := range []string{"dipole", "tick=3", "charges=2", "+", "-"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if len(r.trails) != 2 {
		t.Errorf("expected 2 trails, got %d", len(r.trails))
	}

	snap.Charges = snap.Charges[:1]
	r.lastFrame = r.lastFrame.Add(-1e9)
	r.OnTick(snap)
	if len(r.trails) != 1 {
		t.Errorf("trail of removed charge should be dropped, got %d", len(r.trails))
	}
}
