package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/chronos/internal/ai"
	"github.com/sadopc/chronos/internal/state"
	"github.com/sadopc/chronos/internal/store"
)

func newTestState(t *testing.T) *state.State {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	st, err := state.New(s)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	if _, err := st.Authenticate("tester"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return st
}

// ============================================================
// Timer state machine
// ============================================================

func TestTimerStartRequiresDescription(t *testing.T) {
	var tm timerModel
	if tm.start("   ") {
		t.Fatal("started with blank description")
	}
	if !tm.idle() {
		t.Fatal("expected idle after refused start")
	}
	if !tm.start("  deep work  ") {
		t.Fatal("refused a valid description")
	}
	if tm.description != "deep work" {
		t.Fatalf("description = %q, want trimmed", tm.description)
	}
}

func TestTimerTickOnlyCountsWhileRunning(t *testing.T) {
	var tm timerModel
	tm.tick()
	if tm.elapsed != 0 {
		t.Fatalf("idle tick counted: elapsed = %d", tm.elapsed)
	}

	tm.start("work")
	tm.tick()
	tm.tick()
	if tm.elapsed != 2 {
		t.Fatalf("elapsed = %d, want 2", tm.elapsed)
	}

	st := newTestState(t)
	if cmd := tm.stop(ai.Offline{}, st.User()); cmd == nil {
		t.Fatal("stop returned nil cmd while running")
	}
	tm.tick()
	if tm.elapsed != 2 {
		t.Fatalf("elapsed advanced while classifying: %d", tm.elapsed)
	}
}

func TestTimerStopOnlyFromRunning(t *testing.T) {
	st := newTestState(t)
	var tm timerModel
	if cmd := tm.stop(ai.Offline{}, st.User()); cmd != nil {
		t.Fatal("stop from idle returned a cmd")
	}

	tm.start("work")
	tm.stop(ai.Offline{}, st.User())
	if cmd := tm.stop(ai.Offline{}, st.User()); cmd != nil {
		t.Fatal("second stop returned a cmd")
	}
}

func TestTimerFinishDiscardsStaleResult(t *testing.T) {
	st := newTestState(t)
	categories := st.User().Categories

	var tm timerModel
	tm.start("work")
	tm.tick()
	tm.stop(ai.Offline{}, st.User())

	stale := classifiedMsg{sessionID: "not-the-pending-id", result: ai.Classification{Category: categories[0], Impact: 9}}
	if _, ok := tm.finish(stale, categories, time.Now()); ok {
		t.Fatal("accepted a result for a different session")
	}
	if !tm.classifying() {
		t.Fatal("stale result changed the timer phase")
	}

	good := classifiedMsg{sessionID: tm.pendingID, result: ai.Classification{Category: categories[0], Impact: 9}}
	task, ok := tm.finish(good, categories, time.Now())
	if !ok {
		t.Fatal("rejected the matching result")
	}
	if task.Category != categories[0] || task.AIImpact != 9 {
		t.Fatalf("task = %+v", task)
	}
	if !tm.idle() {
		t.Fatal("timer not idle after finish")
	}
}

func TestTimerFinishRecordsFallbackOnError(t *testing.T) {
	st := newTestState(t)
	categories := st.User().Categories

	var tm timerModel
	tm.start("work")
	for i := 0; i < 90; i++ {
		tm.tick()
	}
	tm.stop(ai.Offline{}, st.User())

	now := time.Now()
	msg := classifiedMsg{sessionID: tm.pendingID, err: errors.New("deadline exceeded")}
	task, ok := tm.finish(msg, categories, now)
	if !ok {
		t.Fatal("failed classification dropped the session")
	}
	if task.Category != categories[0] {
		t.Fatalf("category = %q, want fallback %q", task.Category, categories[0])
	}
	if task.AIImpact != ai.DefaultImpact {
		t.Fatalf("impact = %v, want %v", task.AIImpact, ai.DefaultImpact)
	}
	if task.Duration != 90 {
		t.Fatalf("duration = %d, want 90", task.Duration)
	}
	if task.EndTime != now.UnixMilli() {
		t.Fatalf("end = %d, want %d", task.EndTime, now.UnixMilli())
	}
	if got, want := task.EndTime-task.StartTime, int64(90*1000); got != want {
		t.Fatalf("span = %dms, want %dms", got, want)
	}
}

func TestTimerFinishNormalizesUnknownCategory(t *testing.T) {
	st := newTestState(t)
	categories := st.User().Categories

	var tm timerModel
	tm.start("work")
	tm.stop(ai.Offline{}, st.User())

	msg := classifiedMsg{sessionID: tm.pendingID, result: ai.Classification{Category: "Invented", Impact: 42}}
	task, ok := tm.finish(msg, categories, time.Now())
	if !ok {
		t.Fatal("result rejected")
	}
	if task.Category != categories[0] {
		t.Fatalf("category = %q, want %q", task.Category, categories[0])
	}
	if task.AIImpact != ai.DefaultImpact {
		t.Fatalf("impact = %v, want %v", task.AIImpact, ai.DefaultImpact)
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardRecordsClassifiedSession(t *testing.T) {
	st := newTestState(t)
	d := newDashboardModel(st, ai.Offline{})

	d.timer.start("write report")
	d.timer.tick()
	d.timer.stop(ai.Offline{}, st.User())

	msg := classifiedMsg{
		sessionID: d.timer.pendingID,
		result:    ai.Classification{Category: st.User().Categories[1], Impact: 7},
	}
	d, cmd := d.update(msg)
	if cmd == nil {
		t.Fatal("no follow-up cmd after recording")
	}
	if _, ok := cmd().(taskRecordedMsg); !ok {
		t.Fatal("expected taskRecordedMsg")
	}

	tasks := st.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("task log has %d entries, want 1", len(tasks))
	}
	if tasks[0].Description != "write report" {
		t.Fatalf("description = %q", tasks[0].Description)
	}
	if !d.timer.idle() {
		t.Fatal("timer not reset")
	}
}

func TestDashboardIgnoresStaleClassification(t *testing.T) {
	st := newTestState(t)
	d := newDashboardModel(st, ai.Offline{})

	d.timer.start("first")
	d.timer.stop(ai.Offline{}, st.User())

	stale := classifiedMsg{sessionID: "old", result: ai.Classification{Category: st.User().Categories[0], Impact: 3}}
	d, cmd := d.update(stale)
	if cmd != nil {
		t.Fatal("stale result produced a cmd")
	}
	if len(st.Tasks()) != 0 {
		t.Fatal("stale result recorded a task")
	}
	if !d.timer.classifying() {
		t.Fatal("stale result reset the timer")
	}
}

func TestDashboardDiscardsResultAfterLogout(t *testing.T) {
	st := newTestState(t)
	d := newDashboardModel(st, ai.Offline{})

	d.timer.start("work")
	d.timer.stop(ai.Offline{}, st.User())
	pending := d.timer.pendingID

	if err := st.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// The matching result lands after logout; it must be dropped, not
	// dereference the gone account.
	msg := classifiedMsg{sessionID: pending, result: ai.Classification{Category: "Core Projects", Impact: 7}}
	d, cmd := d.update(msg)
	if cmd != nil {
		t.Fatal("result after logout produced a cmd")
	}
	if !d.timer.idle() {
		t.Fatal("timer should reset after logout")
	}

	if _, err := st.Authenticate("tester"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if len(st.Tasks()) != 0 {
		t.Fatalf("session recorded after logout: %+v", st.Tasks())
	}
}

// ============================================================
// Planner
// ============================================================

func TestPlannerRewriteAppliesByID(t *testing.T) {
	st := newTestState(t)
	p := newPlannerModel(st, ai.Offline{})

	item, err := st.AddPlanned("fix stuff")
	if err != nil {
		t.Fatalf("add planned: %v", err)
	}

	p, _ = p.update(rewriteMsg{id: item.ID, text: "Resolve outstanding defects"})
	if got := st.Planned()[0].Text; got != "Resolve outstanding defects" {
		t.Fatalf("text = %q", got)
	}

	// A rewrite for a deleted item is discarded without error.
	if err := st.RemovePlanned(item.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, cmd := p.update(rewriteMsg{id: item.ID, text: "late"}); cmd != nil {
		if msg, ok := cmd().(statusMsg); ok && msg.isError {
			t.Fatalf("late rewrite errored: %q", msg.text)
		}
	}
}

// ============================================================
// App routing
// ============================================================

func TestAppStartsAtLoginWithoutSession(t *testing.T) {
	st := newTestState(t)
	if err := st.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	app := NewApp(st, ai.Offline{}, t.TempDir())
	if app.loggedIn {
		t.Fatal("logged in without an active session")
	}
	if !strings.Contains(app.View(), "CHRONOS") {
		t.Fatal("login view not shown")
	}
}

func TestAppSkipsLoginAfterResume(t *testing.T) {
	st := newTestState(t)
	app := NewApp(st, ai.Offline{}, t.TempDir())
	if !app.loggedIn {
		t.Fatal("active session did not skip login")
	}
}

func TestAppTabSwitching(t *testing.T) {
	st := newTestState(t)
	app := NewApp(st, ai.Offline{}, t.TempDir())

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	app = model.(App)
	if app.active != viewPlanner {
		t.Fatalf("active = %v, want planner", app.active)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.active != viewMentor {
		t.Fatalf("active = %v, want mentor after tab", app.active)
	}
}

func TestAppLogoutDropsPendingClassification(t *testing.T) {
	st := newTestState(t)
	app := NewApp(st, ai.Offline{}, t.TempDir())

	app.dashboard.timer.start("work")
	app.dashboard.timer.stop(ai.Offline{}, st.User())
	pending := app.dashboard.timer.pendingID

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	app = model.(App)
	if cmd == nil {
		t.Fatal("logout produced no cmd")
	}
	model, _ = app.Update(cmd())
	app = model.(App)
	if app.loggedIn {
		t.Fatal("still logged in")
	}
	if !app.dashboard.timer.idle() {
		t.Fatal("pending session survived logout")
	}

	// Another account signs in before the old result arrives; the old
	// session must not land in its log.
	if _, err := st.Authenticate("other"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	app.loggedIn = true
	model, _ = app.Update(classifiedMsg{sessionID: pending, result: ai.Classification{Category: "Core Projects", Impact: 7}})
	app = model.(App)
	if len(st.Tasks()) != 0 {
		t.Fatalf("stale session recorded into another account: %+v", st.Tasks())
	}
	if !app.dashboard.timer.idle() {
		t.Fatal("stale result disturbed the fresh timer")
	}
}

func TestAppPraisesEveryCompletedTask(t *testing.T) {
	st := newTestState(t)
	app := NewApp(st, ai.Offline{}, t.TempDir())

	task := store.Task{ID: "1", Description: "quick fix", Duration: 60, Category: "Core Projects", AIImpact: 5}
	for i := 0; i < 2; i++ {
		_, cmd := app.Update(taskRecordedMsg{task: task})
		if !yieldsPraise(cmd) {
			t.Fatalf("completion %d produced no praise", i+1)
		}
	}
}

func yieldsPraise(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case praiseMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if yieldsPraise(c) {
				return true
			}
		}
	}
	return false
}

func TestAppInsightForOldHistory(t *testing.T) {
	st := newTestState(t)
	old := time.Now().AddDate(0, 0, -30)
	if err := st.CompleteTask(store.Task{ID: "1", StartTime: old.UnixMilli(), EndTime: old.UnixMilli(), Duration: 60}); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	app := NewApp(st, ai.Offline{}, t.TempDir())
	msg, ok := app.insightCmd()().(insightMsg)
	if !ok {
		t.Fatal("expected insightMsg")
	}
	if msg.text != ai.FallbackInsight {
		t.Fatalf("old history got %q, want %q", msg.text, ai.FallbackInsight)
	}
}

func TestAppInsightEmptyLog(t *testing.T) {
	st := newTestState(t)
	app := NewApp(st, ai.Offline{}, t.TempDir())

	msg, ok := app.insightCmd()().(insightMsg)
	if !ok {
		t.Fatal("expected insightMsg")
	}
	if msg.text != ai.EmptyLogInsight {
		t.Fatalf("empty log got %q, want %q", msg.text, ai.EmptyLogInsight)
	}
}

func TestAppTimerTicksFromAnyView(t *testing.T) {
	st := newTestState(t)
	app := NewApp(st, ai.Offline{}, t.TempDir())
	app.dashboard.timer.start("work")
	app.active = viewHistory

	model, _ := app.Update(tickMsg(time.Now()))
	app = model.(App)
	if got := app.dashboard.timer.elapsed; got != 1 {
		t.Fatalf("elapsed = %d, want 1", got)
	}
}
