package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	exportdto "engagemon/internal/modules/export/dto"
	sensingdto "engagemon/internal/modules/sensing/dto"
	sessiondto "engagemon/internal/modules/session/dto"
	apperrors "engagemon/internal/platform/errors"
	"engagemon/internal/ui/components"
)

type fakeSession struct {
	collects  int
	commits   int
	toggles   map[string]bool
	injected  []string
	intervals []int
	commitErr error
}

func (f *fakeSession) Collect(context.Context) (sessiondto.CollectOutput, error) {
	f.collects++
	return sessiondto.CollectOutput{Samples: []sessiondto.Sample{{Kind: "audio", Label: "happy", Confidence: 0.9}}}, nil
}

func (f *fakeSession) Commit(context.Context, sessiondto.CollectOutput) (sessiondto.TickOutput, error) {
	if f.commitErr != nil {
		return sessiondto.TickOutput{}, f.commitErr
	}
	f.commits++
	return sessiondto.TickOutput{Record: sessiondto.Record{Timestamp: time.Now(), Emotion: "Happy", Engagement: "Engaged"}}, nil
}

func (f *fakeSession) Current(context.Context) (sessiondto.CurrentOutput, error) {
	return sessiondto.CurrentOutput{SessionID: "sess-1", TickInterval: 3 * time.Second, AudioEnabled: !f.off("audio"), ScreenEnabled: !f.off("screen")}, nil
}

func (f *fakeSession) Report(context.Context) (sessiondto.ReportOutput, error) {
	return sessiondto.ReportOutput{}, nil
}

func (f *fakeSession) Toggle(_ context.Context, kind string, on bool) error {
	if f.toggles == nil {
		f.toggles = map[string]bool{}
	}
	f.toggles[kind] = on
	return nil
}

func (f *fakeSession) off(kind string) bool {
	on, ok := f.toggles[kind]
	return ok && !on
}

func (f *fakeSession) Inject(_ context.Context, kind, label string, _ float64) error {
	f.injected = append(f.injected, kind+":"+label)
	return nil
}

func (f *fakeSession) SetInterval(_ context.Context, seconds int) error {
	if seconds < 1 || seconds > 10 {
		return apperrors.ErrInvalidInput
	}
	f.intervals = append(f.intervals, seconds)
	return nil
}

type fakeSensing struct{}

func (fakeSensing) Status(context.Context) ([]sensingdto.SourceStatus, error) {
	return []sensingdto.SourceStatus{{Kind: "audio", Mode: "simulated"}, {Kind: "screen", Mode: "fallback", Reason: "no ocr"}}, nil
}

type fakeExport struct{ err error }

func (f fakeExport) Export(context.Context) (exportdto.ExportOutput, error) {
	if f.err != nil {
		return exportdto.ExportOutput{}, f.err
	}
	return exportdto.ExportOutput{Path: "/tmp/engagement_data.csv", Rows: 4}, nil
}

func keyPress(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("update returned %T", next)
	}
	return out, cmd
}

func TestTickCollectsThenCommitsInUpdate(t *testing.T) {
	t.Parallel()
	session := &fakeSession{}
	m := NewModel(session, fakeSensing{}, fakeExport{}, 3*time.Second, true)

	m, cmd := update(t, m, tickMsg{gen: m.gen})
	if cmd == nil {
		t.Fatalf("a due tick should start collection")
	}
	collected, ok := cmd().(collectedMsg)
	if !ok {
		t.Fatalf("expected collected message")
	}
	if session.collects != 1 || session.commits != 0 {
		t.Fatalf("collection must not commit, got collects=%d commits=%d", session.collects, session.commits)
	}
	m, cmd = update(t, m, collected)
	if session.commits != 1 {
		t.Fatalf("expected one commit, got %d", session.commits)
	}
	if cmd == nil || !strings.Contains(m.status, "Engaged") {
		t.Fatalf("commit should schedule the next tick and report the record, status %q", m.status)
	}
}

func TestPauseDropsPendingTickAndCollection(t *testing.T) {
	t.Parallel()
	session := &fakeSession{}
	m := NewModel(session, fakeSensing{}, fakeExport{}, 3*time.Second, true)
	staleGen := m.gen
	collected := collectedMsg{gen: staleGen}

	m, _ = update(t, m, keyPress(" "))
	if m.running {
		t.Fatalf("space should stop monitoring")
	}
	if _, cmd := update(t, m, tickMsg{gen: staleGen}); cmd != nil {
		t.Fatalf("ticks while stopped must be ignored")
	}
	m, _ = update(t, m, collected)
	if session.commits != 0 {
		t.Fatalf("collections finishing after a pause must not be committed")
	}

	m, cmd := update(t, m, keyPress(" "))
	if !m.running || cmd == nil {
		t.Fatalf("space should restart monitoring with an immediate collection")
	}
	if _, cmd := update(t, m, tickMsg{gen: staleGen}); cmd != nil {
		t.Fatalf("ticks from before the restart must be ignored")
	}
}

func TestMonitoringInactiveIsReportedAndTicksContinue(t *testing.T) {
	t.Parallel()
	session := &fakeSession{commitErr: apperrors.ErrMonitoringStopped}
	m := NewModel(session, fakeSensing{}, fakeExport{}, 3*time.Second, true)
	m, cmd := update(t, m, collectedMsg{gen: m.gen})
	if cmd == nil || !strings.Contains(m.status, "monitoring inactive") {
		t.Fatalf("expected inactive notice with a rescheduled tick, status %q", m.status)
	}
}

func TestPaletteCommands(t *testing.T) {
	t.Parallel()
	session := &fakeSession{}
	m := NewModel(session, fakeSensing{}, fakeExport{}, 3*time.Second, false)
	m, _ = update(t, m, m.refreshCmd()())

	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "interval 5"})
	if len(session.intervals) != 1 || session.intervals[0] != 5 || m.interval != 5*time.Second {
		t.Fatalf("interval command not applied: %v %s", session.intervals, m.interval)
	}
	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "interval 30"})
	if !strings.HasPrefix(m.status, "interval:") || m.interval != 5*time.Second {
		t.Fatalf("out of range interval should be refused, status %q", m.status)
	}
	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "demo:happy"})
	m, _ = update(t, m, keyPress("2"))
	if len(session.injected) != 2 || session.injected[0] != "audio:happy" || session.injected[1] != "audio:neutral" {
		t.Fatalf("unexpected injections %v", session.injected)
	}
	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "screen:toggle"})
	if on, ok := session.toggles["screen"]; !ok || on {
		t.Fatalf("screen should be toggled off, got %v", session.toggles)
	}
	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "monitor:start"})
	if !m.running {
		t.Fatalf("monitor:start should start monitoring")
	}
	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "bogus"})
	if !strings.Contains(m.status, "unknown command") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestExportStatus(t *testing.T) {
	t.Parallel()
	m := NewModel(&fakeSession{}, fakeSensing{}, fakeExport{err: apperrors.ErrEmptyExport}, 3*time.Second, false)
	_, cmd := update(t, m, keyPress("e"))
	m, _ = update(t, m, cmd())
	if m.status != "nothing to export yet" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = NewModel(&fakeSession{}, fakeSensing{}, fakeExport{}, 3*time.Second, false)
	_, cmd = update(t, m, components.PaletteSubmitMsg{Input: "export"})
	m, _ = update(t, m, cmd())
	if !strings.Contains(m.status, "exported 4 records") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestRefreshFeedsViews(t *testing.T) {
	t.Parallel()
	m := NewModel(&fakeSession{}, fakeSensing{}, fakeExport{}, 3*time.Second, false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	msg := m.refreshCmd()()
	m, _ = update(t, m, msg)
	if m.current.SessionID != "sess-1" {
		t.Fatalf("refresh should store the current state")
	}
	for i := 0; i < int(tabCount); i++ {
		if view := m.View(); !strings.Contains(view, "engagemon") {
			t.Fatalf("tab %d view missing tab bar", i)
		}
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m.activeTab = tabScreen
	if !strings.Contains(m.View(), "fallback") {
		t.Fatalf("screen tab should show the fallback mode")
	}
}
