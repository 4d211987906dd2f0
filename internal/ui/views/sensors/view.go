package sensors

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "engagemon/internal/modules/analytics/dto"
	sensingdto "engagemon/internal/modules/sensing/dto"
	sessiondto "engagemon/internal/modules/session/dto"
	"engagemon/internal/ui/components"
	"engagemon/internal/ui/theme"
)

// Kind selects which sensor a Model shows.
type Kind string

const (
	Audio  Kind = "audio"
	Screen Kind = "screen"
)

// Model shows one sensor: where its samples come from, its latest reading
// and the distribution of its labels over the session.
type Model struct {
	kind    Kind
	status  sensingdto.SourceStatus
	current sessiondto.CurrentOutput
	dist    []analyticsdto.CountOutput
	records int
	running bool
	spinner spinner.Model
	width   int
}

func New(kind Kind) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{kind: kind, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) SetData(status []sensingdto.SourceStatus, current sessiondto.CurrentOutput, report sessiondto.ReportOutput, running bool) {
	for _, s := range status {
		if s.Kind == string(m.kind) {
			m.status = s
		}
	}
	m.current = current
	m.records = len(report.Records)
	m.running = running
	if m.kind == Audio {
		m.dist = report.Analytics.Emotions
	} else {
		m.dist = report.Analytics.Contexts
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) enabled() bool {
	if m.kind == Audio {
		return m.current.AudioEnabled
	}
	return m.current.ScreenEnabled
}

func (m Model) View() string {
	title := "Audio emotion"
	toggleKey := "a"
	if m.kind == Screen {
		title = "Screen context"
		toggleKey = "s"
	}

	mode := m.status.Mode
	if !m.enabled() {
		mode = "disabled"
	}
	lines := []string{
		theme.Title.Render(title),
		fmt.Sprintf("Source   %s", theme.Mode(mode)),
	}
	if m.status.Reason != "" && mode == "fallback" {
		lines = append(lines, theme.Muted.Render("         "+m.status.Reason))
	}
	lines = append(lines, "")

	switch {
	case !m.enabled():
		lines = append(lines, theme.Muted.Render(fmt.Sprintf("sensor off, press %s to enable", toggleKey)))
	case m.running && m.records == 0:
		lines = append(lines, m.spinner.View()+" waiting for a sample")
	case m.kind == Audio:
		lines = append(lines,
			fmt.Sprintf("Emotion    %s", m.current.Emotion),
			fmt.Sprintf("Confidence %.0f%%", 100*m.current.EmotionConfidence),
		)
	default:
		lines = append(lines,
			fmt.Sprintf("Context    %s", m.current.Context),
			fmt.Sprintf("Sentiment  %s", theme.Sentiment(m.current.Sentiment)),
			fmt.Sprintf("Confidence %.0f%%", 100*m.current.ContextConfidence),
		)
	}

	w := max(20, m.width-4)
	rows := make([]components.BarRow, len(m.dist))
	for i, c := range m.dist {
		rows[i] = components.BarRow{Label: c.Label, Share: c.Share, Note: fmt.Sprintf("%d", c.Count)}
	}
	colour := theme.Sapphire
	if m.kind == Screen {
		colour = theme.Green
	}
	chart := theme.Title.Render("Distribution") + "\n" + components.BarChart(rows, w-4, colour)

	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Pane.Width(w).Render(strings.Join(lines, "\n")),
		theme.Pane.Width(w).Render(chart),
	)
}
