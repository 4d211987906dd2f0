package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "engagemon/internal/modules/session/dto"
	"engagemon/internal/ui/components"
	"engagemon/internal/ui/theme"
)

const recentRows = 5

// Model renders the live engagement overview. It holds no ports; the root
// model pushes fresh data in with SetData after every tick.
type Model struct {
	current sessiondto.CurrentOutput
	report  sessiondto.ReportOutput
	running bool
	score   progress.Model
	recent  table.Model
	width   int
	height  int
}

func New() Model {
	bar := progress.New(progress.WithGradient(string(theme.Red), string(theme.Green)), progress.WithoutPercentage())

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithHeight(recentRows+1),
		table.WithFocused(false),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).BorderForeground(theme.Surface1).Bold(true)
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)

	return Model{score: bar, recent: t}
}

func columns(width int) []table.Column {
	w := max(8, (width-28)/4)
	return []table.Column{
		{Title: "Time", Width: 8},
		{Title: "Emotion", Width: w},
		{Title: "Engagement", Width: 11},
		{Title: "Context", Width: w},
		{Title: "Sentiment", Width: w},
		{Title: "Score", Width: 5},
	}
}

func (m *Model) SetData(current sessiondto.CurrentOutput, report sessiondto.ReportOutput, running bool) {
	m.current = current
	m.report = report
	m.running = running

	records := report.Records
	start := max(0, len(records)-recentRows)
	rows := make([]table.Row, 0, recentRows)
	for i := len(records) - 1; i >= start; i-- {
		r := records[i]
		rows = append(rows, table.Row{
			r.Timestamp.Local().Format("15:04:05"),
			r.Emotion,
			r.Engagement,
			r.Context,
			r.Sentiment,
			fmt.Sprintf("%d", r.ProductivityScore),
		})
	}
	m.recent.SetRows(rows)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.score.Width = max(10, msg.Width/2-8)
		m.recent.SetColumns(columns(msg.Width - 6))
		m.recent.SetWidth(msg.Width - 6)
	}
	return m, nil
}

func (m Model) View() string {
	summary := m.report.Analytics.Summary
	state := theme.Bad.Render("■ stopped")
	if m.running {
		state = theme.Good.Render("● monitoring")
	}

	var latest string
	if n := len(m.report.Records); n > 0 {
		latest = m.report.Records[n-1].Engagement
	} else {
		latest = "-"
	}

	left := strings.Join([]string{
		theme.Title.Render("Now"),
		fmt.Sprintf("%s  session %s", state, shortID(m.current.SessionID)),
		"",
		fmt.Sprintf("Emotion     %s %s", m.current.Emotion, confidence(m.current.EmotionConfidence)),
		fmt.Sprintf("Engagement  %s", theme.Engagement(latest)),
		fmt.Sprintf("Context     %s %s", m.current.Context, confidence(m.current.ContextConfidence)),
		fmt.Sprintf("Sentiment   %s", theme.Sentiment(m.current.Sentiment)),
		"",
		fmt.Sprintf("Audio %s   Screen %s", onOff(m.current.AudioEnabled), onOff(m.current.ScreenEnabled)),
		theme.Muted.Render(fmt.Sprintf("every %s, threshold %.2f", m.current.TickInterval, m.current.Threshold)),
	}, "\n")

	scores := make([]float64, len(m.report.Records))
	for i, r := range m.report.Records {
		scores[i] = float64(r.ProductivityScore)
	}
	sparkW := max(10, m.width/2-8)
	right := strings.Join([]string{
		theme.Title.Render("Productivity"),
		fmt.Sprintf("%s %3d", m.score.ViewAs(float64(summary.ProductivityScore)/100), summary.ProductivityScore),
		theme.Muted.Render(components.Sparkline(scores, 0, 100, sparkW)),
		"",
		fmt.Sprintf("Engaged      %5.1f%%", 100*summary.EngagedRatio),
		fmt.Sprintf("Confidence   %5.1f%%", 100*summary.AvgConfidence),
		fmt.Sprintf("Records      %d / %d", m.current.Records, m.current.Capacity),
		fmt.Sprintf("Session time %s", m.report.Analytics.SessionTime.Round(time.Second)),
	}, "\n")

	paneW := max(20, m.width/2-4)
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Pane.Width(paneW).Render(left),
		theme.Pane.Width(paneW).Render(right),
	)

	var bottom string
	if len(m.report.Records) == 0 {
		bottom = theme.Muted.Render("waiting for the first tick…")
	} else {
		bottom = m.recent.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, theme.Pane.Width(max(20, m.width-4)).Render(theme.Title.Render("Recent activity")+"\n"+bottom))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func confidence(c float64) string {
	if c == 0 {
		return ""
	}
	return theme.Muted.Render(fmt.Sprintf("(%.0f%%)", 100*c))
}

func onOff(on bool) string {
	if on {
		return theme.Good.Render("on")
	}
	return theme.Bad.Render("off")
}
