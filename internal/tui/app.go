// Package tui is the terminal frontend. A root model owns the tab bar,
// the login gate, and one submodel per view; background AI results are
// routed to whichever submodel asked for them, active or not.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chronos/internal/ai"
	"github.com/sadopc/chronos/internal/export"
	"github.com/sadopc/chronos/internal/state"
	"github.com/sadopc/chronos/internal/store"
)

const statusTicks = 5 // seconds a status line stays visible

// App is the root bubbletea model.
type App struct {
	state     *state.State
	assistant ai.Assistant
	exportDir string

	loggedIn bool
	active   viewState
	width    int
	height   int

	login     loginModel
	dashboard dashboardModel
	history   historyModel
	planner   plannerModel
	mentor    mentorModel
	settings  settingsModel

	help         help.Model
	status       statusMsg
	statusFrames int
}

// NewApp builds the root model. A session already resumed in st skips
// the login view.
func NewApp(st *state.State, assistant ai.Assistant, exportDir string) App {
	return App{
		state:     st,
		assistant: assistant,
		exportDir: exportDir,
		loggedIn:  st.User() != nil,
		login:     newLoginModel(st),
		dashboard: newDashboardModel(st, assistant),
		history:   newHistoryModel(st),
		planner:   newPlannerModel(st, assistant),
		mentor:    newMentorModel(st, assistant),
		settings:  newSettingsModel(st),
		help:      help.New(),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if a.loggedIn {
		cmds = append(cmds, a.insightCmd())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		body := msg.Height - 4
		a.login.setSize(msg.Width, msg.Height)
		a.dashboard.setSize(msg.Width, body)
		a.history.setSize(msg.Width, body)
		a.planner.setSize(msg.Width, body)
		a.mentor.setSize(msg.Width, body)
		a.settings.setSize(msg.Width, body)
		return a, nil

	case tickMsg:
		if a.statusFrames > 0 {
			a.statusFrames--
			if a.statusFrames == 0 {
				a.status = statusMsg{}
			}
		}
		// The timer keeps counting no matter which view is showing.
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, tea.Batch(cmd, tickCmd())

	case statusMsg:
		a.status = msg
		a.statusFrames = statusTicks
		return a, nil

	case loginDoneMsg:
		a.loggedIn = true
		a.active = viewDashboard
		a.mentor = newMentorModel(a.state, a.assistant)
		return a, tea.Batch(
			a.insightCmd(),
			statusCmd(fmt.Sprintf("Welcome back, %s", msg.account.Name)),
		)

	case loggedOutMsg:
		a.loggedIn = false
		a.login = newLoginModel(a.state)
		a.login.setSize(a.width, a.height)
		// Drop any in-flight session so a late classification result can
		// never land in the next account's log.
		a.dashboard = newDashboardModel(a.state, a.assistant)
		a.dashboard.setSize(a.width, a.height-4)
		return a, nil

	case classifiedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case taskRecordedMsg:
		return a.afterTaskRecorded(msg)

	case insightMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case rewriteMsg:
		var cmd tea.Cmd
		a.planner, cmd = a.planner.update(msg)
		return a, cmd

	case adviceMsg, praiseMsg:
		var cmd tea.Cmd
		a.mentor, cmd = a.mentor.update(msg)
		return a, cmd

	case exportDoneMsg:
		return a, statusCmd("Exported to " + msg.path)

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	// Anything else (form internals, cursor blinks) goes to whoever is
	// on screen.
	if !a.loggedIn {
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}
	return a.updateActive(msg)
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.loggedIn {
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if key.Matches(msg, keys.Quit) && !a.login.inputFocused {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}

	// Text inputs and forms get every key except ctrl+c.
	if a.formActive() {
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateActive(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(msg, keys.Logout):
		if err := a.state.Logout(); err != nil {
			return a, statusErrCmd(fmt.Sprintf("Logout failed: %v", err))
		}
		return a, func() tea.Msg { return loggedOutMsg{} }

	case key.Matches(msg, keys.Export):
		return a, a.exportCmd()

	case key.Matches(msg, keys.Tab):
		a.active = (a.active + 1) % viewState(len(viewNames))
		return a, nil

	case key.Matches(msg, keys.Tab1):
		a.active = viewDashboard
		return a, nil
	case key.Matches(msg, keys.Tab2):
		a.active = viewHistory
		return a, nil
	case key.Matches(msg, keys.Tab3):
		a.active = viewPlanner
		return a, nil
	case key.Matches(msg, keys.Tab4):
		a.active = viewMentor
		return a, nil
	case key.Matches(msg, keys.Tab5):
		a.active = viewSettings
		return a, nil
	}

	return a.updateActive(msg)
}

func (a App) formActive() bool {
	switch a.active {
	case viewDashboard:
		return a.dashboard.formActive()
	case viewPlanner:
		return a.planner.formActive()
	case viewMentor:
		return a.mentor.formActive()
	case viewSettings:
		return a.settings.formActive()
	}
	return false
}

func (a App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewPlanner:
		a.planner, cmd = a.planner.update(msg)
	case viewMentor:
		a.mentor, cmd = a.mentor.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

// afterTaskRecorded fires the post-session collaborator calls: a fresh
// weekly insight and a mentor praise line for the completed task.
func (a App) afterTaskRecorded(msg taskRecordedMsg) (tea.Model, tea.Cmd) {
	return a, tea.Batch(
		statusCmd("Session recorded: "+msg.task.Category),
		a.insightCmd(),
		a.praiseCmd(msg.task),
	)
}

func (a App) insightCmd() tea.Cmd {
	assistant := a.assistant
	tasks := a.recentTasks(7 * 24 * time.Hour)

	// A log whose entries are all older than the window still gets a real
	// tip, not the brand-new-user line.
	if len(tasks) == 0 && len(a.state.Tasks()) > 0 {
		return func() tea.Msg { return insightMsg{text: ai.FallbackInsight} }
	}

	return func() tea.Msg {
		text, err := assistant.WeeklyInsight(context.Background(), tasks)
		if err != nil {
			slog.Warn("weekly insight failed", "error", err)
			text = ai.FallbackInsight
		}
		return insightMsg{text: text}
	}
}

func (a App) praiseCmd(task store.Task) tea.Cmd {
	assistant := a.assistant
	return func() tea.Msg {
		text, err := assistant.Praise(context.Background(), task)
		if err != nil || text == "" {
			text = ai.FallbackPraise
		}
		return praiseMsg{text: text}
	}
}

func (a App) recentTasks(window time.Duration) []store.Task {
	cutoff := time.Now().Add(-window).UnixMilli()
	var out []store.Task
	for _, t := range a.state.Tasks() {
		if t.StartTime >= cutoff {
			out = append(out, t)
		}
	}
	return out
}

// exportCmd writes both a CSV and a JSON snapshot of the full task log.
func (a App) exportCmd() tea.Cmd {
	name := a.state.User().Name
	tasks := append([]store.Task(nil), a.state.Tasks()...)
	dir := a.exportDir
	return func() tea.Msg {
		stamp := time.Now().Format("2006-01-02")
		base := fmt.Sprintf("chronos-%s-%s", name, stamp)

		csvPath := filepath.Join(dir, base+".csv")
		if err := export.ToCSV(tasks, csvPath); err != nil {
			return statusMsg{text: fmt.Sprintf("Export failed: %v", err), isError: true}
		}
		jsonPath := filepath.Join(dir, base+".json")
		if err := export.ToJSON(tasks, name, jsonPath); err != nil {
			return statusMsg{text: fmt.Sprintf("Export failed: %v", err), isError: true}
		}
		return exportDoneMsg{path: csvPath}
	}
}

// --- View ---

func (a App) View() string {
	if !a.loggedIn {
		return a.login.view()
	}

	header := a.renderTabs()

	var body string
	switch a.active {
	case viewDashboard:
		body = a.dashboard.view()
	case viewHistory:
		body = a.history.view()
	case viewPlanner:
		body = a.planner.view()
	case viewMentor:
		body = a.mentor.view()
	case viewSettings:
		body = a.settings.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, a.renderFooter())
}

func (a App) renderTabs() string {
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if viewState(i) == a.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	var badge string
	switch {
	case a.dashboard.isRunning():
		badge = successStyle.Render("● " + formatClock(a.dashboard.elapsed()))
	case a.dashboard.isClassifying():
		badge = warningStyle.Render("◌ analyzing")
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if badge != "" {
		row = lipgloss.JoinHorizontal(lipgloss.Top, row, "  ", badge)
	}
	return headerStyle.Render(row)
}

func (a App) renderFooter() string {
	if a.status.text != "" {
		if a.status.isError {
			return footerStyle.Render(accentStyle.Render(a.status.text))
		}
		return footerStyle.Render(successStyle.Render(a.status.text))
	}
	return footerStyle.Render(a.help.View(keys))
}
