package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/chronos/internal/ai"
	"github.com/sadopc/chronos/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewHistory
	viewPlanner
	viewMentor
	viewSettings
)

var viewNames = []string{"Dashboard", "History", "Planner", "Mentor", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// loginDoneMsg is emitted after a successful authentication.
type loginDoneMsg struct {
	account *store.Account
}

type loggedOutMsg struct{}

// classifiedMsg carries a classification result back to the timer.
// sessionID correlates it with the session that requested it; results
// for any other session are discarded.
type classifiedMsg struct {
	sessionID string
	result    ai.Classification
	err       error
}

// taskRecordedMsg is emitted after a completed session has been
// classified, recorded, and persisted.
type taskRecordedMsg struct {
	task store.Task
}

type insightMsg struct {
	text string
}

// praiseMsg is a proactive mentor line after a completed session.
type praiseMsg struct {
	text string
}

type adviceMsg struct {
	text string
}

// rewriteMsg carries a professionalized planner text back, correlated by
// planned-task id.
type rewriteMsg struct {
	id   string
	text string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatClock(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatShort(secs int64) string {
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	m := secs / 60
	s := secs % 60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}

func formatHours(secs int64) string {
	return fmt.Sprintf("%.1fh", float64(secs)/3600)
}
