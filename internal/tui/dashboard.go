package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chronos/internal/ai"
	"github.com/sadopc/chronos/internal/state"
	"github.com/sadopc/chronos/internal/stats"
)

type dashboardModel struct {
	state     *state.State
	assistant ai.Assistant
	timer     timerModel
	width     int
	height    int

	input        textinput.Model
	inputFocused bool
	insight      string
}

func newDashboardModel(st *state.State, assistant ai.Assistant) dashboardModel {
	input := textinput.New()
	input.Placeholder = "What are you focusing on?"
	input.CharLimit = 120
	input.Width = 48

	return dashboardModel{
		state:     st,
		assistant: assistant,
		input:     input,
		insight:   ai.EmptyLogInsight,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool     { return d.timer.running() }
func (d dashboardModel) isClassifying() bool { return d.timer.classifying() }
func (d dashboardModel) elapsed() int64      { return d.timer.elapsed }
func (d dashboardModel) formActive() bool    { return d.inputFocused }

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		d.timer.tick()
		return d, nil

	case classifiedMsg:
		return d.applyClassification(msg)

	case insightMsg:
		d.insight = msg.text
		return d, nil

	case tea.KeyMsg:
		if d.inputFocused {
			return d.updateInput(msg)
		}

		switch {
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.New):
			if !d.timer.idle() {
				return d, nil
			}
			if d.timer.start(d.input.Value()) {
				d.input.Reset()
				return d, statusCmd("Session started")
			}
			d.inputFocused = true
			return d, d.input.Focus()

		case key.Matches(msg, keys.Stop):
			if cmd := d.timer.stop(d.assistant, d.state.User()); cmd != nil {
				return d, tea.Batch(cmd, statusCmd("Classifying session..."))
			}
			return d, nil
		}
	}
	return d, nil
}

func (d dashboardModel) updateInput(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		if d.timer.start(d.input.Value()) {
			d.inputFocused = false
			d.input.Blur()
			d.input.Reset()
			return d, statusCmd("Session started")
		}
		return d, nil
	case key.Matches(msg, keys.Back):
		d.inputFocused = false
		d.input.Blur()
		return d, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d dashboardModel) applyClassification(msg classifiedMsg) (dashboardModel, tea.Cmd) {
	user := d.state.User()
	if user == nil {
		// The account logged out while classification was in flight;
		// nobody owns the session anymore.
		d.timer = timerModel{}
		return d, nil
	}
	task, ok := d.timer.finish(msg, user.Categories, time.Now())
	if !ok {
		// Stale result for a session that is no longer pending.
		return d, nil
	}

	if err := d.state.CompleteTask(task); err != nil {
		return d, statusErrCmd(fmt.Sprintf("Save failed: %v", err))
	}
	return d, func() tea.Msg { return taskRecordedMsg{task: task} }
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func statusErrCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: true} }
}

// --- View ---

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(contentWidth),
		d.renderStatsPanel(contentWidth),
		d.renderDistributionPanel(contentWidth),
		d.renderInsightPanel(contentWidth),
	)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	clock := formatClock(d.timer.elapsed)

	switch {
	case d.timer.running():
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerRunningStyle.Width(w-6).Render(clock),
			successStyle.Render("●  RUNNING"),
			highlightStyle.Render(d.timer.description),
		)
		return activePanelStyle.Width(w).Render(content)

	case d.timer.classifying():
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerClassifyingStyle.Width(w-6).Render(clock),
			warningStyle.Render("◌  ANALYZING"),
			mutedStyle.Render(d.timer.description),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	var line string
	if d.inputFocused {
		line = d.input.View()
	} else if v := d.input.Value(); v != "" {
		line = normalItemStyle.Render(v) + mutedStyle.Render("  (s to start)")
	} else {
		line = mutedStyle.Render("Press n to describe your objective, s to start")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  IDLE"),
		line,
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderStatsPanel(w int) string {
	user := d.state.User()
	today := stats.TodaysTasks(d.state.Tasks(), time.Now())
	daily := stats.DailyStats(today, user.DailyFocusGoal)

	cells := []string{
		fmt.Sprintf("%s\n%s", mutedStyle.Render("GOAL"), titleStyle.Render(fmt.Sprintf("%.0f%%", daily.GoalProgress))),
		fmt.Sprintf("%s\n%s", mutedStyle.Render("LOGGED"), titleStyle.Render(fmt.Sprintf("%.1fh", daily.TotalHours))),
		fmt.Sprintf("%s\n%s", mutedStyle.Render("SESSIONS"), titleStyle.Render(fmt.Sprintf("%d", len(today)))),
		fmt.Sprintf("%s\n%s", mutedStyle.Render("IMPACT"), titleStyle.Render(fmt.Sprintf("%.1f", daily.AvgImpact))),
	}

	cellW := (w - 8) / 4
	if cellW < 8 {
		cellW = 8
	}
	for i, c := range cells {
		cells[i] = lipgloss.NewStyle().Width(cellW).Render(c)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

var categoryStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(colorPrimary),
	lipgloss.NewStyle().Foreground(colorAccent),
	lipgloss.NewStyle().Foreground(colorHighlight),
	lipgloss.NewStyle().Foreground(colorSuccess),
	lipgloss.NewStyle().Foreground(colorWarning),
}

func (d dashboardModel) renderDistributionPanel(w int) string {
	user := d.state.User()
	today := stats.TodaysTasks(d.state.Tasks(), time.Now())
	totals := stats.CategoryTotals(today, user.Categories)

	// Stable order: known categories first, then unknown ones.
	names := append([]string(nil), user.Categories...)
	var unknown []string
	for name := range totals {
		known := false
		for _, c := range user.Categories {
			if c == name {
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	names = append(names, unknown...)

	var withData bool
	for _, secs := range totals {
		if secs > 0 {
			withData = true
			break
		}
	}

	title := titleStyle.Render("Today by category")
	if !withData {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No sessions today")),
		)
	}

	chartW := w - 8
	if chartW < 20 {
		chartW = 20
	}
	chart := barchart.New(chartW, 8)

	var bars []barchart.BarData
	var legend []string
	for i, name := range names {
		secs := totals[name]
		style := categoryStyles[i%len(categoryStyles)]
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("%d", i+1),
			Values: []barchart.BarValue{
				{Name: name, Value: float64(secs) / 60, Style: style},
			},
		})
		legend = append(legend, fmt.Sprintf("%s %s %s",
			style.Render("●"), name, mutedStyle.Render(formatShort(secs))))
	}
	chart.PushAll(bars)
	chart.Draw()

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("minutes"),
			chart.View(),
			strings.Join(legend, "  "),
		),
	)
}

func (d dashboardModel) renderInsightPanel(w int) string {
	title := mutedStyle.Render("WEEKLY INSIGHT")
	quote := normalItemStyle.Render("“" + d.insight + "”")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, quote))
}
