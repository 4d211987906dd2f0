package analytics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	analyticsdto "engagemon/internal/modules/analytics/dto"
	"engagemon/internal/ui/components"
	"engagemon/internal/ui/theme"
)

// crossTabMin mirrors the record count the aggregator needs before it
// produces cross tables.
const crossTabMin = 11

// Model is the scrollable analytics report.
type Model struct {
	data  analyticsdto.BreakdownOutput
	view  viewport.Model
	width int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	return Model{view: vp}
}

func (m *Model) SetData(data analyticsdto.BreakdownOutput) {
	m.data = data
	m.view.SetContent(m.render())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.view.Width = msg.Width
		m.view.Height = max(3, msg.Height-2)
		m.view.SetContent(m.render())
		return m, nil
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.view.View()
}

func (m Model) render() string {
	d := m.data
	if d.Summary.Records == 0 {
		return theme.Muted.Render("No records yet. Start monitoring to collect data.")
	}
	w := max(30, m.width-4)
	var sb strings.Builder

	sb.WriteString(theme.Title.Render("Summary") + "\n")
	sb.WriteString(fmt.Sprintf("%d records over %s  engaged %.1f%%  confidence %.1f%%  productivity %d\n\n",
		d.Summary.Records, d.SessionTime, 100*d.Summary.EngagedRatio, 100*d.Summary.AvgConfidence, d.Summary.ProductivityScore))

	sb.WriteString(theme.Title.Render("Contexts") + "\n")
	sb.WriteString(components.BarChart(countRows(d.Contexts), w, theme.Green) + "\n\n")

	sb.WriteString(theme.Title.Render("Emotions") + "\n")
	sb.WriteString(components.BarChart(countRows(d.Emotions), w, theme.Sapphire) + "\n\n")

	sb.WriteString(theme.Title.Render("Engagement by hour") + "\n")
	hours := make([]components.BarRow, len(d.Hourly))
	for i, h := range d.Hourly {
		hours[i] = components.BarRow{Label: fmt.Sprintf("%02d:00", h.Hour), Share: h.Rate, Note: fmt.Sprintf("%3.0f%% of %d", 100*h.Rate, h.Records)}
	}
	sb.WriteString(components.BarChart(hours, w, theme.Lavender) + "\n\n")

	if len(d.ContextCross) == 0 {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("Cross tables appear after %d records.", crossTabMin)))
		return sb.String()
	}
	sb.WriteString(theme.Title.Render("Context × engagement") + "\n")
	sb.WriteString(crossTable("Context", d.ContextCross) + "\n\n")
	sb.WriteString(theme.Title.Render("Emotion × engagement") + "\n")
	sb.WriteString(crossTable("Emotion", d.EmotionCross))
	return sb.String()
}

func countRows(counts []analyticsdto.CountOutput) []components.BarRow {
	rows := make([]components.BarRow, len(counts))
	for i, c := range counts {
		rows[i] = components.BarRow{Label: c.Label, Share: c.Share}
	}
	return rows
}

func crossTable(label string, rows []analyticsdto.CrossOutput) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Surface1)).
		Headers(label, "Records", "Engaged", "Distracted")
	for _, r := range rows {
		t.Row(r.Label, fmt.Sprintf("%d", r.Records), fmt.Sprintf("%.1f%%", r.EngagedPct), fmt.Sprintf("%.1f%%", r.DistractedPct))
	}
	return t.Render()
}
