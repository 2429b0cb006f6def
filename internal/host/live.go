package host

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vizanim/internal/behave"
	"github.com/san-kum/vizanim/internal/scene"
)

const (
	liveCols        = 80
	liveRows        = 24
	passHistoryLen  = 120
	defaultLiveRate = 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// LiveOptions configures the terminal host.
type LiveOptions struct {
	Title string
	// Frames bounds the run; zero runs until quit.
	Frames int
	FPS    int
}

// LiveModel is the bubbletea model of the terminal host.
//
// Terminals report key presses but not releases, so a key counts as down on
// the tick its press arrives and as released on the first tick it does not
// arrive again.
type LiveModel struct {
	scene      *scene.Scene
	dispatcher *behave.Dispatcher
	canvas     *scene.Canvas
	opts       LiveOptions

	pending  behave.KeySet
	prevDown behave.KeySet
	lastKeys string
	mouse    behave.Mouse

	frame    int
	repaints int
	passMs   []float64
	err      error
	done     bool
	view     string
}

// NewLive returns a live model drawing s on a braille canvas. Mouse
// positions are scaled from terminal cells to scene pixels.
func NewLive(s *scene.Scene, d *behave.Dispatcher, opts LiveOptions) LiveModel {
	if opts.FPS <= 0 {
		opts.FPS = defaultLiveRate
	}
	if opts.Title == "" {
		opts.Title = "vizanim"
	}
	m := LiveModel{
		scene:      s,
		dispatcher: d,
		canvas:     scene.NewCanvas(liveCols, liveRows),
		opts:       opts,
		pending:    behave.NewKeySet(),
		prevDown:   behave.NewKeySet(),
		passMs:     make([]float64, 0, passHistoryLen),
	}
	m.repaint()
	return m
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd { return m.tick() }

// Update collects input between ticks and runs one dispatch pass per tick.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if !m.done {
				m.step(true)
			}
			return m, tea.Quit
		}
		m.pending.Add(TerminalKeyName(msg.String()))
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if m.done {
			return m, nil
		}
		m.step(false)
		if m.done {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

// step runs one dispatch pass with the input gathered since the last tick.
// closing marks the pass as the last one of the run.
func (m *LiveModel) step(closing bool) {
	kb := m.keyboard()
	var cached *image.RGBA
	tc := behave.NewTickContext(m.scene, func() (*image.RGBA, error) {
		if cached == nil {
			cached = scene.Render(m.scene)
		}
		return cached, nil
	})
	tc.Keyboard = kb
	tc.Mouse = m.mouse
	tc.LastCall = closing || m.opts.Frames > 0 && m.frame == m.opts.Frames-1

	refresh, err := m.dispatcher.Pass(tc)
	m.recordPass(m.dispatcher.Stats().LastPass)
	m.mouse.Wheel = 0
	m.frame++

	if err != nil {
		m.err = err
		m.done = true
		return
	}
	if refresh {
		m.repaint()
	}
	if tc.LastCall {
		m.done = true
	}
}

// keyboard turns the presses seen since the previous tick into a snapshot.
func (m *LiveModel) keyboard() behave.Keyboard {
	down := m.pending
	up := behave.NewKeySet()
	for k := range m.prevDown {
		if !down.Has(k) {
			up.Add(k)
		}
	}
	m.prevDown = down
	m.pending = behave.NewKeySet()
	if len(down) > 0 {
		m.lastKeys = down.String()
	}
	return behave.Keyboard{Down: down.Clone(), Up: up}
}

func (m *LiveModel) handleMouse(msg tea.MouseMsg) {
	w, h := m.scene.Size()
	m.mouse.X = float64(msg.X) * float64(w) / float64(m.canvas.Width)
	m.mouse.Y = float64(msg.Y) * float64(h) / float64(m.canvas.Height)
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.mouse.Wheel++
		return
	case tea.MouseButtonWheelDown:
		m.mouse.Wheel--
		return
	}
	pressed := msg.Action != tea.MouseActionRelease
	switch msg.Button {
	case tea.MouseButtonLeft:
		m.mouse.LeftPressed = pressed
	case tea.MouseButtonMiddle:
		m.mouse.MiddlePressed = pressed
	case tea.MouseButtonRight:
		m.mouse.RightPressed = pressed
	case tea.MouseButtonNone:
		if msg.Action == tea.MouseActionRelease {
			m.mouse.LeftPressed, m.mouse.MiddlePressed, m.mouse.RightPressed = false, false, false
		}
	}
}

func (m *LiveModel) recordPass(d time.Duration) {
	m.passMs = append(m.passMs, float64(d.Microseconds())/1000)
	if len(m.passMs) > passHistoryLen {
		m.passMs = m.passMs[1:]
	}
}

func (m *LiveModel) repaint() {
	m.canvas.Frame(m.scene)
	m.scene.Draw(m.canvas)
	m.view = m.canvas.String()
	m.repaints++
}

// View renders the canvas next to a status panel.
func (m LiveModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.opts.Title)) + "\n")
	status := "RUNNING"
	if m.err != nil {
		status = errorStyle.Render("ERROR")
	} else if m.done {
		status = "FINISHED"
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	frame := fmt.Sprintf("%d", m.frame)
	if m.opts.Frames > 0 {
		frame = fmt.Sprintf("%d/%d", m.frame, m.opts.Frames)
	}
	row("Frame", frame)
	row("Repaints", fmt.Sprintf("%d", m.repaints))
	row("Behaviours", fmt.Sprintf("%d", m.dispatcher.Len()))
	p := m.scene.CameraPosition
	row("Camera", fmt.Sprintf("%.2f %.2f %.2f", p[0], p[1], p[2]))
	l := m.scene.Light
	row("Light", fmt.Sprintf("%.2f %.2f %.2f", l[0], l[1], l[2]))
	if m.lastKeys != "" {
		row("Keys", m.lastKeys)
	}
	for _, b := range m.dispatcher.Stats().Behaviours {
		row(truncate(b.Name, 11), fmt.Sprintf("%s avg", b.AvgDuration.Round(time.Microsecond)))
	}
	if len(m.passMs) > 1 {
		chart := asciigraph.Plot(m.passMs, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Pass (ms)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("ESC:Quit  drag:Rotate  wheel:Zoom"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.view), statsStyle.Render(s.String()))
}

// Err returns the error that ended the run, if any.
func (m LiveModel) Err() error { return m.err }

// Frame returns the number of ticks run so far.
func (m LiveModel) Frame() int { return m.frame }

// Live runs the terminal host until the user quits, the bounded run
// finishes or a behaviour fails.
func Live(s *scene.Scene, d *behave.Dispatcher, opts LiveOptions) error {
	p := tea.NewProgram(NewLive(s, d, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(LiveModel); ok {
		return m.Err()
	}
	return nil
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "~"
	}
	return s
}

// TerminalKeyName maps a bubbletea key string to the key names used by
// behaviours: single characters are upper-cased ("s" becomes "S") and named
// keys are bracketed ("up" becomes "<up>", "ctrl+s" becomes "<ctrl+s>").
func TerminalKeyName(k string) string {
	if len([]rune(k)) == 1 {
		return strings.ToUpper(k)
	}
	return "<" + k + ">"
}
