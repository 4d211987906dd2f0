package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	analyticsdto "engagemon/internal/modules/analytics/dto"
	sessiondto "engagemon/internal/modules/session/dto"
	apperrors "engagemon/internal/platform/errors"
)

// RunHeadless ticks without a UI until ticks records were taken (zero means
// until ctx is done), then prints a summary and exports the session.
func RunHeadless(ctx context.Context, app *App, ticks int, out io.Writer) error {
	interval := app.cfg.TickInterval()
	for n := 0; ticks <= 0 || n < ticks; n++ {
		if ctx.Err() != nil || (n > 0 && !wait(ctx, interval)) {
			break
		}
		res, err := app.SessionCLI.Tick(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("tick: %w", err)
		}
		_, _ = fmt.Fprintln(out, recordLine(res))
	}

	// The run context may already be cancelled; reporting and export must
	// still complete.
	finish := context.WithoutCancel(ctx)
	report, err := app.SessionCLI.Report(finish)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	_, _ = fmt.Fprintln(out, renderSummary(report.Analytics))
	if len(report.Analytics.Contexts) > 0 {
		_, _ = fmt.Fprintln(out, renderShares("Context", report.Analytics.Contexts))
	}

	exported, err := app.ExportCLI.Export(finish)
	switch {
	case errors.Is(err, apperrors.ErrEmptyExport):
		_, _ = fmt.Fprintln(out, "nothing to export")
	case err != nil:
		return fmt.Errorf("export: %w", err)
	default:
		_, _ = fmt.Fprintf(out, "exported %d records to %s\n", exported.Rows, exported.Path)
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func recordLine(res sessiondto.TickOutput) string {
	r := res.Record
	line := fmt.Sprintf("%s  %-10s %-10s %-14s %-8s %3d",
		r.Timestamp.Local().Format("15:04:05"), r.Emotion, r.Engagement, r.Context, r.Sentiment, r.ProductivityScore)
	if len(res.Substituted) > 0 {
		line += fmt.Sprintf("  (simulated %v)", res.Substituted)
	}
	return line
}

func renderSummary(b analyticsdto.BreakdownOutput) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Records", strconv.Itoa(b.Summary.Records)},
		{"Engaged", percent(b.Summary.EngagedRatio)},
		{"Avg confidence", percent(b.Summary.AvgConfidence)},
		{"Productivity", strconv.Itoa(b.Summary.ProductivityScore)},
		{"Session time", b.SessionTime.Round(time.Second).String()},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func renderShares(title string, counts []analyticsdto.CountOutput) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{title, "Records", "Share"})
	for _, c := range counts {
		tw.AppendRow(table.Row{c.Label, strconv.Itoa(c.Count), percent(c.Share)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func percent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}
