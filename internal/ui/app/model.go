package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	exportdto "engagemon/internal/modules/export/dto"
	sensingdto "engagemon/internal/modules/sensing/dto"
	sessiondto "engagemon/internal/modules/session/dto"
	apperrors "engagemon/internal/platform/errors"
	"engagemon/internal/ui/components"
	"engagemon/internal/ui/theme"
	analyticsview "engagemon/internal/ui/views/analytics"
	dashboardview "engagemon/internal/ui/views/dashboard"
	sensorsview "engagemon/internal/ui/views/sensors"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Collect(ctx context.Context) (sessiondto.CollectOutput, error)
	Commit(ctx context.Context, collected sessiondto.CollectOutput) (sessiondto.TickOutput, error)
	Current(ctx context.Context) (sessiondto.CurrentOutput, error)
	Report(ctx context.Context) (sessiondto.ReportOutput, error)
	Toggle(ctx context.Context, kind string, on bool) error
	Inject(ctx context.Context, kind, label string, confidence float64) error
	SetInterval(ctx context.Context, seconds int) error
}

type sensingPort interface {
	Status(ctx context.Context) ([]sensingdto.SourceStatus, error)
}

type exportPort interface {
	Export(ctx context.Context) (exportdto.ExportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabAudio
	tabScreen
	tabAnalytics
	tabCount
)

var tabLabels = [tabCount]string{
	"Dashboard", "Audio", "Screen", "Analytics",
}

// demo readings injected by the demo commands.
var demos = map[string]struct {
	label      string
	confidence float64
}{
	"demo:happy":   {"happy", 0.85},
	"demo:neutral": {"neutral", 0.72},
}

var paletteHints = []string{
	"monitor:start",
	"monitor:stop",
	"audio:toggle",
	"screen:toggle",
	"interval <seconds>",
	"export",
	"demo:happy",
	"demo:neutral",
}

// ─── async messages ──────────────────────────────────────────────────────────

// tickMsg fires when the next tick is due. Ticks of an older generation are
// ignored, which lets pause and interval changes cancel a pending tick.
type tickMsg struct{ gen int }

type collectedMsg struct {
	gen int
	out sessiondto.CollectOutput
	err error
}

type refreshedMsg struct {
	current sessiondto.CurrentOutput
	report  sessiondto.ReportOutput
	status  []sensingdto.SourceStatus
	err     error
}

type exportedMsg struct {
	out exportdto.ExportOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Monitor key.Binding
	Audio   key.Binding
	Screen  key.Binding
	Export  key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Demo    key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next tab")),
		Monitor: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
		Audio:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle audio")),
		Screen:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle screen")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		Faster:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-/+", "interval")),
		Slower:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("-/+", "interval")),
		Demo:    key.NewBinding(key.WithKeys("1", "2"), key.WithHelp("1/2", "demo happy/neutral")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Monitor, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Monitor, k.Export},
		{k.Audio, k.Screen, k.Demo},
		{k.Faster, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Sampling runs in commands; the samples
// are committed to the session in Update so the buffer has a single writer.
type Model struct {
	session sessionPort
	sensing sensingPort
	export  exportPort

	dashView     dashboardview.Model
	audioView    sensorsview.Model
	screenView   sensorsview.Model
	analyticView analyticsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette

	running  bool
	gen      int
	interval time.Duration
	current  sessiondto.CurrentOutput
	status   string
	width    int
	height   int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(session sessionPort, sensing sensingPort, export exportPort, interval time.Duration, autoStart bool) Model {
	return Model{
		session:      session,
		sensing:      sensing,
		export:       export,
		dashView:     dashboardview.New(),
		audioView:    sensorsview.New(sensorsview.Audio),
		screenView:   sensorsview.New(sensorsview.Screen),
		analyticView: analyticsview.New(),
		activeTab:    tabDashboard,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(paletteHints),
		running:      autoStart,
		interval:     interval,
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshCmd(), m.audioView.Init(), m.screenView.Init()}
	if m.running {
		cmds = append(cmds, m.scheduleTick())
	}
	return tea.Batch(cmds...)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Ticks and data keep flowing while the palette is open.
	switch msg := msg.(type) {
	case tickMsg:
		if !m.running || msg.gen != m.gen {
			return m, nil
		}
		return m, m.collectCmd(msg.gen)

	case collectedMsg:
		return m.commit(msg)

	case spinner.TickMsg:
		// Each spinner ignores ticks carrying another spinner's id.
		var audioCmd, screenCmd tea.Cmd
		m.audioView, audioCmd = m.audioView.Update(msg)
		m.screenView, screenCmd = m.screenView.Update(msg)
		return m, tea.Batch(audioCmd, screenCmd)

	case refreshedMsg:
		if msg.err != nil {
			m.status = "refresh: " + msg.err.Error()
			return m, nil
		}
		m.current = msg.current
		m.interval = msg.current.TickInterval
		m.dashView.SetData(msg.current, msg.report, m.running)
		m.audioView.SetData(msg.status, msg.current, msg.report, m.running)
		m.screenView.SetData(msg.status, msg.current, msg.report, m.running)
		m.analyticView.SetData(msg.report.Analytics)
		return m, nil

	case exportedMsg:
		switch {
		case errors.Is(msg.err, apperrors.ErrEmptyExport):
			m.status = "nothing to export yet"
		case msg.err != nil:
			m.status = "export failed: " + msg.err.Error()
		default:
			m.status = fmt.Sprintf("exported %d records to %s", msg.out.Rows, msg.out.Path)
		}
		return m, nil
	}

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = true
		case ":":
			return m, m.palette.Open()
		case " ":
			return m.setRunning(!m.running)
		case "a":
			return m.toggle("audio", !m.current.AudioEnabled)
		case "s":
			return m.toggle("screen", !m.current.ScreenEnabled)
		case "e":
			return m, m.exportCmd()
		case "1":
			return m.executePalette("demo:happy")
		case "2":
			return m.executePalette("demo:neutral")
		case "-":
			return m.setInterval(int(m.interval/time.Second) - 1)
		case "+", "=":
			return m.setInterval(int(m.interval/time.Second) + 1)
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, tabCmd = m.dashView.Update(msg)
	case tabAudio:
		m.audioView, tabCmd = m.audioView.Update(msg)
	case tabScreen:
		m.screenView, tabCmd = m.screenView.Update(msg)
	case tabAnalytics:
		m.analyticView, tabCmd = m.analyticView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// commit runs the fusion half of a tick on the event loop.
func (m Model) commit(msg collectedMsg) (tea.Model, tea.Cmd) {
	if !m.running || msg.gen != m.gen {
		return m, nil
	}
	next := m.scheduleTick()
	if msg.err != nil {
		m.status = tickError(msg.err)
		return m, tea.Batch(next, m.refreshCmd())
	}
	out, err := m.session.Commit(context.Background(), msg.out)
	if err != nil {
		m.status = tickError(err)
		return m, tea.Batch(next, m.refreshCmd())
	}
	m.status = fmt.Sprintf("%s  %s  %s", out.Record.Timestamp.Local().Format("15:04:05"), out.Record.Emotion, out.Record.Engagement)
	if len(out.Substituted) > 0 {
		m.status += theme.Warn.Render("  simulated: " + strings.Join(out.Substituted, ", "))
	}
	return m, tea.Batch(next, m.refreshCmd())
}

func tickError(err error) string {
	if errors.Is(err, apperrors.ErrMonitoringStopped) {
		return "monitoring inactive: enable audio or screen"
	}
	return "tick failed: " + err.Error()
}

func (m Model) setRunning(on bool) (tea.Model, tea.Cmd) {
	if m.running == on {
		return m, nil
	}
	m.running = on
	m.gen++
	if !on {
		m.status = "monitoring stopped"
		return m, m.refreshCmd()
	}
	m.status = "monitoring started"
	return m, tea.Batch(m.collectCmd(m.gen), m.refreshCmd())
}

func (m Model) toggle(kind string, on bool) (tea.Model, tea.Cmd) {
	if err := m.session.Toggle(context.Background(), kind, on); err != nil {
		m.status = "toggle failed: " + err.Error()
		return m, nil
	}
	state := "off"
	if on {
		state = "on"
	}
	m.status = kind + " " + state
	return m, m.refreshCmd()
}

func (m Model) setInterval(seconds int) (tea.Model, tea.Cmd) {
	if err := m.session.SetInterval(context.Background(), seconds); err != nil {
		m.status = "interval: " + err.Error()
		return m, nil
	}
	m.interval = time.Duration(seconds) * time.Second
	m.gen++
	m.status = fmt.Sprintf("tick every %ds", seconds)
	cmds := []tea.Cmd{m.refreshCmd()}
	if m.running {
		cmds = append(cmds, m.scheduleTick())
	}
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabAudio:
		return m.audioView.View()
	case tabScreen:
		return m.screenView.View()
	case tabAnalytics:
		return m.analyticView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	bar := "engagemon  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.running {
		left = theme.Good.Render("●") + " " + left
	} else {
		left = theme.Bad.Render("■") + " " + left
	}
	right := theme.Muted.Render("?:help  space:start/stop  :::palette  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "monitor:start":
		return m.setRunning(true)
	case "monitor:stop":
		return m.setRunning(false)
	case "audio:toggle":
		return m.toggle("audio", !m.current.AudioEnabled)
	case "screen:toggle":
		return m.toggle("screen", !m.current.ScreenEnabled)
	case "interval":
		if len(parts) < 2 {
			m.status = "usage: interval <seconds>"
			return m, nil
		}
		seconds, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid interval: " + parts[1]
			return m, nil
		}
		return m.setInterval(seconds)
	case "export":
		return m, m.exportCmd()
	case "demo:happy", "demo:neutral":
		d := demos[parts[0]]
		if err := m.session.Inject(context.Background(), "audio", d.label, d.confidence); err != nil {
			m.status = "demo: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("injected %s (%.2f)", d.label, d.confidence)
		return m, m.refreshCmd()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.audioView, _ = m.audioView.Update(sz)
	m.screenView, _ = m.screenView.Update(sz)
	m.analyticView, _ = m.analyticView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) scheduleTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Model) collectCmd(gen int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Collect(context.Background())
		return collectedMsg{gen: gen, out: out, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		current, err := m.session.Current(ctx)
		if err != nil {
			return refreshedMsg{err: err}
		}
		report, err := m.session.Report(ctx)
		if err != nil {
			return refreshedMsg{err: err}
		}
		var status []sensingdto.SourceStatus
		if m.sensing != nil {
			if status, err = m.sensing.Status(ctx); err != nil {
				return refreshedMsg{err: err}
			}
		}
		return refreshedMsg{current: current, report: report, status: status}
	}
}

func (m Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		if m.export == nil {
			return exportedMsg{err: fmt.Errorf("export is not configured")}
		}
		out, err := m.export.Export(context.Background())
		return exportedMsg{out: out, err: err}
	}
}
