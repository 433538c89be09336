package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/railsim/internal/render"
	"github.com/san-kum/railsim/internal/sim"
	"github.com/san-kum/railsim/internal/train"
)

const (
	canvasWidth     = 96
	canvasHeight    = 28
	historyCapacity = 600
	lookStep        = 0.06 // radians per key press in free look
)

type TickMsg time.Time

// Model is the live driving view: the simulator rasterizes into a
// braille canvas and a side panel shows the cab state.
type Model struct {
	sim     *sim.Simulator
	canvas  *Canvas
	surface render.Surface
	dt      float64

	notch     train.Notch
	lookYaw   float64
	lookPitch float64
	paused    bool
	debug     bool
	showHelp  bool

	speedHistory []float64
	lastArrival  string
	atEnd        bool
}

// NewModel wires a simulator to a fresh canvas. The camera aspect is
// matched to the canvas sub-pixel dimensions.
func NewModel(s *sim.Simulator, dt float64) Model {
	c := NewCanvas(canvasWidth, canvasHeight)
	s.Camera().Aspect = float64(canvasWidth*2) / float64(canvasHeight*4)
	return Model{
		sim:          s,
		canvas:       c,
		surface:      NewSurface(c),
		dt:           dt,
		speedHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Duration(float64(time.Second)*m.dt), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "up", "k":
			m.notch = m.notch.Inc()
		case "down", "j":
			m.notch = m.notch.Dec()
		case "c":
			m.toggleCamera()
		case "left":
			m.lookYaw -= lookStep
		case "right":
			m.lookYaw += lookStep
		case "w":
			m.lookPitch += lookStep
		case "s":
			m.lookPitch -= lookStep
		case "z":
			m.debug = !m.debug
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.step()
		return m, tea.Tick(time.Duration(float64(time.Second)*m.dt), func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) toggleCamera() {
	cam := m.sim.Camera()
	if cam.Mode == render.CabView {
		cam.Mode = render.FreeLook
	} else {
		cam.Mode = render.CabView
	}
}

// step advances one frame and records what the panel needs.
func (m *Model) step() {
	in := sim.Input{
		Throttle:  m.notch.Throttle(),
		LookYaw:   m.lookYaw,
		LookPitch: m.lookPitch,
		Pause:     m.paused,
		Debug:     m.debug,
	}
	m.lookYaw, m.lookPitch = 0, 0

	m.canvas.Clear()
	events := m.sim.Frame(in, m.dt, m.surface)
	for _, ev := range events {
		switch ev := ev.(type) {
		case train.StationArrival:
			stations := m.sim.Scene().Track.Stations()
			if ev.Station >= 0 && ev.Station < len(stations) {
				m.lastArrival = stations[ev.Station].Name
			}
		case train.EndOfLine:
			m.atEnd = true
		}
	}

	if !m.paused {
		m.speedHistory = append(m.speedHistory, m.sim.State().V*3.6)
		if len(m.speedHistory) > historyCapacity {
			m.speedHistory = m.speedHistory[1:]
		}
	}
}

// View renders the canvas beside the cab panel.
func (m Model) View() string {
	st := m.sim.State()
	trk := m.sim.Scene().Track

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.sim.Scene().Name)) + "\n")

	status := "DRIVING"
	switch {
	case m.atEnd:
		status = "END OF LINE"
	case m.paused:
		status = "PAUSED"
	case st.Phase == train.AtStation:
		status = "AT STATION"
	}
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%5.1f km/h", st.V*3.6)) + "\n")
	s.WriteString(labelStyle.Render("Limit") + valueStyle.Render(fmt.Sprintf("%5.1f km/h", st.Limit*3.6)) + "\n")
	s.WriteString(labelStyle.Render("") + SpeedBar(st.V, st.Limit, 20) + "\n")
	s.WriteString(labelStyle.Render("Notch") + m.notch.String() + "  " + NotchGauge(int(m.notch)) + "\n")
	s.WriteString(labelStyle.Render("Phase") + valueStyle.Render(st.Phase.String()) + "\n")
	s.WriteString(labelStyle.Render("Position") + valueStyle.Render(fmt.Sprintf("%.0f / %.0f m", st.S, trk.Total())) + "\n")

	if i, ok := trk.NextStation(st.S); ok {
		next := trk.Stations()[i]
		s.WriteString(labelStyle.Render("Next") + valueStyle.Render(fmt.Sprintf("%s (%.0f m)", next.Name, next.Start-st.S)) + "\n")
	}
	if m.lastArrival != "" {
		s.WriteString(labelStyle.Render("Arrived") + valueStyle.Render(m.lastArrival) + "\n")
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1f s", m.sim.Time())) + "\n")

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("km/h"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("↑↓:Notch SP:Pause C:Camera\nZ:Wireframe ?:Help Q:Quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	panelView := panelStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelView)

	if m.showHelp {
		return helpOverlay + "\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Up/K     - Notch up (power)         ║
║  Down/J   - Notch down (brake)       ║
║  Space    - Pause/Resume             ║
║  C        - Cab / free camera        ║
║  ←/→ W/S  - Look around (free cam)   ║
║  Z        - Wireframe                ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
