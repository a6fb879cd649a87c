package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/sim"
)

const (
	chromeRows  = 10
	historySize = 60
)

type model struct {
	sim *sim.Simulator
	log *zap.Logger
	ctx context.Context
	dt  float64

	cursor  r2.Vec
	fixed   bool
	history []float64
	status  string
	err     error

	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func newModel(ctx context.Context, s *sim.Simulator, dt float64, log *zap.Logger) model {
	l := s.Layout()
	return model{
		sim:     s,
		log:     log,
		ctx:     ctx,
		dt:      dt,
		cursor:  r2.Vec{X: l.Width / 2, Y: l.Height / 2},
		history: make([]float64, 0, historySize),
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) viewport() viewport {
	l := m.sim.Layout()
	return newViewport(m.width-2, m.height-chromeRows, l.Width, l.Height)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		now := time.Now()
		if !m.lastFrame.IsZero() {
			if d := now.Sub(m.lastFrame).Seconds(); d > 0 {
				m.fps = 1.0 / d
			}
		}
		m.lastFrame = now
		if err := m.step(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) step() error {
	report, err := m.sim.Tick(m.ctx, m.dt)
	if err != nil {
		m.log.Error("tick failed", zap.Error(err))
		return err
	}
	if m.sim.Voltmeter().Active() {
		m.history = append(m.history, report.Reading)
		if len(m.history) > historySize {
			m.history = m.history[1:]
		}
	}
	if n := len(report.Merges); n > 0 {
		m.status = fmt.Sprintf("%d merge(s) at t=%.2fs", n, report.Time)
	}
	return nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	v := m.viewport()
	l := m.sim.Layout()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "p", "esc":
		if m.sim.TogglePause() {
			m.status = "paused"
		} else {
			m.status = "running"
		}
	case "up", "k":
		m.cursor.Y = max(m.cursor.Y-v.cellH, 0)
	case "down", "j":
		m.cursor.Y = min(m.cursor.Y+v.cellH, l.Height)
	case "left", "h":
		m.cursor.X = max(m.cursor.X-v.cellW, 0)
	case "right", "l":
		m.cursor.X = min(m.cursor.X+v.cellW, l.Width)
	case "+", "=":
		m.place(physics.Positive)
	case "-", "_":
		m.place(physics.Negative)
	case "f":
		m.fixed = !m.fixed
	case "x":
		if id, ok := m.sim.ChargeAt(m.cursor); ok {
			_ = m.sim.RemoveCharge(id)
		}
	case "v":
		m.sim.ToggleVoltmeter()
		m.history = m.history[:0]
	case "enter":
		if m.sim.Voltmeter().Active() {
			m.status = fmt.Sprintf("pinned %.1f V", m.sim.PinEquipotential())
		}
	case "c":
		m.sim.ClearEquipotentials()
		m.status = "equipotentials cleared"
	}
	m.syncProbe()
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) model {
	v := m.viewport()
	// Three header rows and one left margin column precede the map.
	col, row := msg.X-1, msg.Y-3
	if col < 0 || row < 0 || col >= v.cols || row >= v.rows {
		return m
	}
	m.cursor = v.center(col, row)
	m.syncProbe()

	if msg.Action != tea.MouseActionPress {
		return m
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		if m.sim.Voltmeter().Active() {
			m.status = fmt.Sprintf("pinned %.1f V", m.sim.PinEquipotential())
			return m
		}
		m.place(physics.Positive)
	case tea.MouseButtonRight:
		m.place(physics.Negative)
	case tea.MouseButtonMiddle:
		if m.sim.Voltmeter().Active() {
			m.status = fmt.Sprintf("pinned %.1f V", m.sim.PinEquipotential())
		}
	}
	return m
}

func (m *model) syncProbe() {
	if m.sim.Voltmeter().Active() {
		m.sim.SetProbePosition(m.cursor)
	}
}

func (m *model) place(sign physics.Sign) {
	id, err := m.sim.PlaceAt(sign, m.cursor, m.fixed)
	if errors.Is(err, sim.ErrOccupied) {
		m.status = "cannot place here"
		return
	}
	if err != nil {
		m.log.Warn("placement rejected", zap.Error(err))
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("placed %s#%d", sign, id)
}

func (m model) View() string {
	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.sim.Paused() {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	mode := dim.Render("free")
	if m.fixed {
		mode = yellow.Render("fixed")
	}
	b.WriteString(fmt.Sprintf("\n %s %s  %s  %s  %s\n\n",
		statusIcon, cyan.Render("chargesim"), statusText, mode,
		dim.Render(fmt.Sprintf("%d charges  t=%.1fs  %.0ffps", m.sim.Len(), m.sim.Time(), m.fps))))

	for _, line := range strings.Split(strings.TrimSuffix(paint(m.sim, m.viewport(), m.cursor, true), "\n"), "\n") {
		b.WriteString(" " + line + "\n")
	}

	volt := m.sim.Voltmeter()
	if volt.Active() {
		b.WriteString(fmt.Sprintf(" %s %s  %s\n", green.Render("V"),
			white.Render(fmt.Sprintf("%.1f V", volt.Reading())),
			dim.Render(fmt.Sprintf("%d pinned", len(volt.Levels())))))
		if len(m.history) > 1 {
			b.WriteString(asciigraph.Plot(m.history, asciigraph.Height(3), asciigraph.Width(40)) + "\n")
		}
	} else {
		b.WriteString(dimmer.Render(" voltmeter off") + "\n")
	}

	if m.status != "" {
		b.WriteString(" " + dim.Render(m.status) + "\n")
	}
	b.WriteString(dim.Render(" +/- place  f fixed  x remove  v voltmeter  enter pin  c clear  space pause  q quit") + "\n")
	return b.String()
}

// RunInteractive runs the terminal sandbox until the user quits.
func RunInteractive(ctx context.Context, s *sim.Simulator, dt float64, log *zap.Logger) error {
	p := tea.NewProgram(newModel(ctx, s, dt, log), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return nil
}
