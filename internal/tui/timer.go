package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/sadopc/chronos/internal/ai"
	"github.com/sadopc/chronos/internal/state"
	"github.com/sadopc/chronos/internal/store"
)

type timerPhase int

const (
	timerIdle timerPhase = iota
	timerRunning
	timerClassifying
)

// timerModel drives the Idle → Running → Classifying → Idle session
// state machine. Elapsed advances one second per tick while Running and
// freezes the moment a stop is requested.
type timerModel struct {
	phase       timerPhase
	description string
	elapsed     int64 // seconds

	// pendingID correlates the in-flight classification with the session
	// that requested it; results carrying any other id are discarded.
	pendingID string
}

func (t *timerModel) start(description string) bool {
	description = strings.TrimSpace(description)
	if t.phase != timerIdle || description == "" {
		return false
	}
	t.phase = timerRunning
	t.description = description
	t.elapsed = 0
	return true
}

func (t *timerModel) tick() {
	if t.phase == timerRunning {
		t.elapsed++
	}
}

// stop freezes the elapsed counter and kicks off classification.
func (t *timerModel) stop(assistant ai.Assistant, account *store.Account) tea.Cmd {
	if t.phase != timerRunning {
		return nil
	}
	t.phase = timerClassifying
	t.pendingID = uuid.NewString()

	id := t.pendingID
	description := t.description
	categories := append([]string(nil), account.Categories...)
	persona := account.Persona
	return func() tea.Msg {
		result, err := assistant.Classify(context.Background(), description, categories, persona)
		return classifiedMsg{sessionID: id, result: result, err: err}
	}
}

// finish applies a classification result and returns the recorded task.
// Stale or mismatched results are discarded. The session is recorded
// even when classification failed: fallback category and impact.
func (t *timerModel) finish(msg classifiedMsg, categories []string, now time.Time) (store.Task, bool) {
	if t.phase != timerClassifying || msg.sessionID != t.pendingID {
		return store.Task{}, false
	}

	result := ai.Fallback(categories)
	if msg.err == nil {
		result = msg.result.Normalize(categories)
	}

	start := now.Add(-time.Duration(t.elapsed) * time.Second)
	task := store.Task{
		ID:          state.NewID(now),
		Description: t.description,
		StartTime:   start.UnixMilli(),
		EndTime:     now.UnixMilli(),
		Duration:    t.elapsed,
		Category:    result.Category,
		AIImpact:    result.Impact,
	}

	t.phase = timerIdle
	t.description = ""
	t.elapsed = 0
	t.pendingID = ""
	return task, true
}

func (t timerModel) idle() bool        { return t.phase == timerIdle }
func (t timerModel) running() bool     { return t.phase == timerRunning }
func (t timerModel) classifying() bool { return t.phase == timerClassifying }
