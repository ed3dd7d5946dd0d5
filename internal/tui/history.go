package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chronos/internal/state"
	"github.com/sadopc/chronos/internal/stats"
)

type historyModel struct {
	state  *state.State
	cursor int
	width  int
	height int
}

func newHistoryModel(st *state.State) historyModel {
	return historyModel{state: st}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	reports := stats.GroupByDay(h.state.Tasks())

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(reports)-1 {
				h.cursor++
			}
		}
	}
	return h, nil
}

func (h historyModel) view() string {
	if h.width < 20 {
		return "Terminal too small"
	}
	contentWidth := h.width - 4

	reports := stats.GroupByDay(h.state.Tasks())
	if len(reports) == 0 {
		return panelStyle.Width(contentWidth).Render(
			mutedStyle.Render("No sessions recorded yet. Start one from the dashboard."),
		)
	}

	cursor := h.cursor
	if cursor >= len(reports) {
		cursor = len(reports) - 1
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		h.renderWeekChart(contentWidth, reports),
		h.renderDay(contentWidth, reports[cursor]),
		footerStyle.Render(fmt.Sprintf("day %d of %d  ↑/↓ to browse", cursor+1, len(reports))),
	)
}

// renderWeekChart draws logged hours for the last seven calendar days,
// oldest to the left, including empty days.
func (h historyModel) renderWeekChart(w int, reports []stats.DailyReport) string {
	byDate := make(map[string]stats.DailyReport, len(reports))
	for _, r := range reports {
		byDate[r.Date] = r
	}

	chartW := w - 8
	if chartW < 21 {
		chartW = 21
	}
	chart := barchart.New(chartW, 6)

	var bars []barchart.BarData
	now := time.Now()
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		date := day.Format("2006-01-02")
		hours := float64(byDate[date].TotalDuration) / 3600
		bars = append(bars, barchart.BarData{
			Label: day.Format("Mon"),
			Values: []barchart.BarValue{
				{Name: date, Value: hours, Style: highlightStyle},
			},
		})
	}
	chart.PushAll(bars)
	chart.Draw()

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Last 7 days"),
			mutedStyle.Render("hours"),
			chart.View(),
		),
	)
}

func (h historyModel) renderDay(w int, r stats.DailyReport) string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		selectedItemStyle.Render(r.Date),
		mutedStyle.Render(fmt.Sprintf("  %s · %d sessions · impact %.1f · mostly %s",
			formatHours(r.TotalDuration), r.TaskCount, r.AvgImpact, r.TopCategory)),
	)

	var rows []string
	for _, t := range r.Tasks {
		start := time.UnixMilli(t.StartTime).Local().Format("15:04")
		rows = append(rows, fmt.Sprintf("%s  %s  %s  %s",
			mutedStyle.Render(start),
			normalItemStyle.Render(truncate(t.Description, w-36)),
			highlightStyle.Render(formatShort(t.Duration)),
			accentStyle.Render(fmt.Sprintf("[%s %.0f]", t.Category, t.AIImpact)),
		))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(rows, "\n")),
	)
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
