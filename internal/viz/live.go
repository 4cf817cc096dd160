package viz

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/export"
	"github.com/san-kum/rigidsim/internal/render"
	"github.com/san-kum/rigidsim/internal/scenario"
	"github.com/san-kum/rigidsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 200
	frameRate       = 60

	minDt = 1e-5
	maxDt = 0.1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model steps a world in real time and draws its bodies as wireframes.
type Model struct {
	cfg           *config.Config
	world         *sim.World
	sim           *sim.Simulator
	wires         []*Wireframe
	t, dt         float64
	ticks         int
	canvas        *Canvas
	camera        *render.Camera
	running       bool
	showTrails    bool
	showHelp      bool
	trails        *trailRecorder
	initialEnergy float64
	energyHistory []float64
	history       []sim.Snapshot
	playHead      int
	notice        string
	err           error
}

// NewModel builds the world described by cfg. The configuration is kept so
// that reset can rebuild it from scratch.
func NewModel(cfg *config.Config) (Model, error) {
	m := Model{
		cfg:        cfg,
		canvas:     NewCanvas(width, height),
		camera:     render.NewCamera(),
		running:    true,
		showTrails: true,
		playHead:   -1,
	}
	cw, ch := m.canvas.Dots()
	m.camera.Aspect = float32(cw) / float32(ch)

	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "+", "=":
			m.dt = math.Min(maxDt, m.dt*1.25)
		case "-", "_":
			m.dt = math.Max(minDt, m.dt/1.25)
		case "left", "h":
			m.camera.Orbit(-0.1, 0)
		case "right", "l":
			m.camera.Orbit(0.1, 0)
		case "up", "k":
			m.camera.Orbit(0, 0.1)
		case "down", "j":
			m.camera.Orbit(0, -0.1)
		case "z":
			m.camera.Zoom(1 / 1.2)
		case "x":
			m.camera.Zoom(1.2)
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "c":
			m.showTrails = !m.showTrails
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "p":
			m.notice = m.snapshotSVG()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// stepsPerFrame keeps simulated time close to wall time.
func (m *Model) stepsPerFrame() int {
	n := int(1.0 / frameRate / m.dt)
	if n < 1 {
		n = 1
	}
	return n
}

// step advances the world by one frame's worth of ticks.
func (m *Model) step() {
	if m.err != nil {
		return
	}
	n := m.stepsPerFrame()
	before := m.world.Ticks
	err := m.sim.RunWithCallback(context.Background(), sim.Config{
		Dt:            m.dt,
		Duration:      float64(n) * m.dt,
		ValidateState: true,
	}, nil)
	ran := m.world.Ticks - before
	m.ticks += ran
	m.t += float64(ran) * m.dt
	if err != nil {
		m.err = &sim.SimulationError{Step: m.ticks, Time: m.t, Wrapped: sim.ErrInvalidState}
		m.running = false
		return
	}

	snap := m.world.Snapshot(m.t)
	m.energyHistory = appendCapped(m.energyHistory, snap.Energy, historyCapacity)
	m.history = appendCapped(m.history, snap, historyCapacity)
}

// trailRecorder keeps the recent path of every body, one point every
// `every` ticks.
type trailRecorder struct {
	every int
	paths [][]mgl64.Vec3
}

func newTrailRecorder(bodies, every int) *trailRecorder {
	return &trailRecorder{every: max(1, every), paths: make([][]mgl64.Vec3, bodies)}
}

func (r *trailRecorder) OnStep(w *sim.World, _ float64) {
	if w.Ticks%r.every != 0 {
		return
	}
	for i, b := range w.Bodies {
		r.paths[i] = appendCapped(r.paths[i], b.Position(), trailCapacity)
	}
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[1:]
	}
	return s
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the world from the configuration.
func (m *Model) reset() error {
	world, err := scenario.Build(m.cfg)
	if err != nil {
		return err
	}

	m.world = world
	m.sim = sim.New(world)
	m.wires = make([]*Wireframe, len(world.Bodies))
	for i, b := range world.Bodies {
		m.wires[i] = NewWireframe(b.Vertices())
	}
	m.t, m.ticks, m.dt = 0, 0, m.cfg.Dt
	m.trails = newTrailRecorder(len(world.Bodies), m.stepsPerFrame())
	m.sim.AddObserver(m.trails)
	m.energyHistory = m.energyHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.err = nil

	snap := world.Snapshot(0)
	m.initialEnergy = snap.Energy
	m.energyHistory = append(m.energyHistory, snap.Energy)
	m.history = append(m.history, snap)
	return nil
}

// current returns the snapshot being shown, live or replayed.
func (m *Model) current() sim.Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.world.Snapshot(m.t)
}

// draw renders every body at the pose recorded in snap.
func (m *Model) draw(snap sim.Snapshot) {
	m.canvas.Clear()
	cw, ch := m.canvas.Dots()

	if m.showTrails {
		for _, trail := range m.trails.paths {
			for _, p := range trail {
				x, y, _, ok := render.Project(render.ToVec3(p), mgl32.Ident4(), m.camera, cw, ch)
				if ok {
					m.canvas.Set(int(x), int(y))
				}
			}
		}
	}

	for i, b := range snap.Bodies {
		if i >= len(m.wires) {
			break
		}
		model := render.ToMat4(poseMatrix(b))
		DrawEdges(m.canvas, m.wires[i].Project(model, m.camera, cw, ch))
	}
}

func poseMatrix(b sim.BodyState) mgl64.Mat4 {
	p := b.Position
	return mgl64.Translate3D(p[0], p[1], p[2]).Mul4(b.Orientation.Mat4())
}

// snapshotSVG writes the frame on screen to the working directory and
// returns the notice to show.
func (m *Model) snapshotSVG() string {
	m.draw(m.current())
	name := fmt.Sprintf("%s_%06d.svg", m.cfg.Name, m.ticks)
	if err := os.WriteFile(name, []byte(export.BrailleToSVG(m.canvas.Grid, 4)), 0644); err != nil {
		return "snapshot failed: " + err.Error()
	}
	return "saved " + name
}

// View renders the TUI interface.
func (m Model) View() string {
	snap := m.current()
	m.draw(snap)
	canvasView := canvasStyle.Render(m.canvas.String())

	title := lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true).MarginBottom(1)

	var s strings.Builder
	s.WriteString(title.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	drift := 0.0
	if m.initialEnergy != 0 {
		drift = math.Abs(snap.Energy-m.initialEnergy) / math.Abs(m.initialEnergy)
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", snap.Time)) + "\n")
	s.WriteString(labelStyle.Render("Ticks") + valueStyle.Render(fmt.Sprintf("%d", m.ticks)) + "\n")
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%.5f", m.dt)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.6f", snap.Energy)) + "\n")
	s.WriteString(labelStyle.Render("Drift") + valueStyle.Render(fmt.Sprintf("%.2e", drift)) + "\n")
	if m.cfg.Duration > 0 {
		s.WriteString(labelStyle.Render("Progress") + ProgressBar(snap.Time/m.cfg.Duration, 20) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for i, b := range snap.Bodies {
		p, w := b.Position, b.AngularVelocity
		s.WriteString(fmt.Sprintf("  %d  x=(%6.2f %6.2f %6.2f) |w|=%.3f\n", i, p[0], p[1], p[2], w.Len()))
	}

	if m.err != nil {
		s.WriteString("\n" + StatusError.Render(m.err.Error()) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + Subtle.Render(m.notice) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:dt ←→↑↓:Orbit Z/X:Zoom\n[ ]:Time-Travel P:SVG ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  + / -    - Grow/shrink timestep     ║
║  Arrows   - Orbit camera             ║
║  Z / X    - Zoom in/out              ║
║  [ / ]    - Rewind/forward history   ║
║  C        - Toggle trails            ║
║  T        - Cycle themes             ║
║  P        - Save frame as SVG        ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusError.Render("STOPPED")
	case m.playHead != -1:
		back := m.history[m.playHead].Time - m.history[len(m.history)-1].Time
		if m.running {
			return StatusPaused.Render(fmt.Sprintf("REPLAYING (%.1fs)", back))
		}
		return StatusPaused.Render(fmt.Sprintf("REPLAY PAUSED (%.1fs)", back))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

// World exposes the simulated world, read-only by convention.
func (m Model) World() *sim.World { return m.world }

// RunLive opens the live view for cfg on the alternate screen.
func RunLive(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
