package state

import (
	"reflect"
	"testing"
	"time"

	"github.com/sadopc/chronos/internal/store"
)

func newTestState(t *testing.T) (*State, *store.Store) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	st, err := New(s)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	return st, s
}

// ============================================================
// Authentication
// ============================================================

func TestAuthenticateCreatesWithDefaults(t *testing.T) {
	st, s := newTestState(t)

	a, err := st.Authenticate("alice")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "alice" {
		t.Fatalf("unexpected name: %q", a.Name)
	}
	if a.Persona != "Lead Professional" {
		t.Fatalf("unexpected persona: %q", a.Persona)
	}
	want := []string{"Core Projects", "Administrative", "Professional Growth"}
	if !reflect.DeepEqual(a.Categories, want) {
		t.Fatalf("unexpected categories: %v", a.Categories)
	}
	if a.DailyFocusGoal != 14400 {
		t.Fatalf("unexpected goal: %d", a.DailyFocusGoal)
	}
	if a.CreatedAt == 0 {
		t.Fatal("createdAt should be set")
	}

	// Markers persisted
	if last, _ := s.LastUser(); last != "alice" {
		t.Fatalf("last user not recorded: %q", last)
	}
	if active, _ := s.ActiveSession(); active != "alice" {
		t.Fatalf("active session not recorded: %q", active)
	}
}

func TestAuthenticateIdempotent(t *testing.T) {
	st, _ := newTestState(t)

	first, err := st.Authenticate("alice")
	if err != nil {
		t.Fatal(err)
	}
	got1 := *first

	second, err := st.Authenticate("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got1, *second) {
		t.Fatalf("repeat authentication changed the account:\n got %+v\nwant %+v", *second, got1)
	}
	if len(st.Accounts()) != 1 {
		t.Fatalf("registry should hold one account, got %d", len(st.Accounts()))
	}
}

func TestAuthenticateLoadsExistingHistory(t *testing.T) {
	st, s := newTestState(t)

	if _, err := st.Authenticate("alice"); err != nil {
		t.Fatal(err)
	}
	task := store.Task{ID: "1", Description: "work", Duration: 60, Category: "Core Projects", AIImpact: 5}
	if err := st.CompleteTask(task); err != nil {
		t.Fatal(err)
	}
	if err := st.Logout(); err != nil {
		t.Fatal(err)
	}

	// Fresh state over the same store, as a process restart would see it.
	st2, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st2.Authenticate("alice"); err != nil {
		t.Fatal(err)
	}
	if len(st2.Tasks()) != 1 || st2.Tasks()[0].ID != "1" {
		t.Fatalf("history not reloaded: %+v", st2.Tasks())
	}
}

func TestAuthenticateDoesNotMixAccounts(t *testing.T) {
	st, _ := newTestState(t)

	st.Authenticate("alice")
	st.CompleteTask(store.Task{ID: "a1"})
	st.Logout()

	st.Authenticate("bob")
	if len(st.Tasks()) != 0 {
		t.Fatalf("bob must not see alice's tasks: %+v", st.Tasks())
	}
}

// ============================================================
// Resume
// ============================================================

func TestResume(t *testing.T) {
	st, s := newTestState(t)
	st.Authenticate("alice")
	st.CompleteTask(store.Task{ID: "1"})

	// Simulate restart: new state over the same store.
	st2, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	resumed, err := st2.Resume()
	if err != nil {
		t.Fatal(err)
	}
	if !resumed {
		t.Fatal("expected resume")
	}
	if st2.User() == nil || st2.User().Name != "alice" {
		t.Fatalf("wrong resumed account: %+v", st2.User())
	}
	if len(st2.Tasks()) != 1 {
		t.Fatalf("logs not loaded on resume: %+v", st2.Tasks())
	}
}

func TestResumeNothingActive(t *testing.T) {
	st, _ := newTestState(t)
	resumed, err := st.Resume()
	if err != nil {
		t.Fatal(err)
	}
	if resumed {
		t.Fatal("nothing to resume")
	}
}

func TestResumeStaleMarker(t *testing.T) {
	st, s := newTestState(t)
	if err := s.SetActiveSession("ghost"); err != nil {
		t.Fatal(err)
	}
	resumed, err := st.Resume()
	if err != nil {
		t.Fatal(err)
	}
	if resumed {
		t.Fatal("unknown account must not resume")
	}
	if active, _ := s.ActiveSession(); active != "" {
		t.Fatalf("stale marker should be cleared, got %q", active)
	}
}

// ============================================================
// Preferences
// ============================================================

func TestUpdatePreferencesPartial(t *testing.T) {
	st, _ := newTestState(t)
	a, _ := st.Authenticate("alice")
	origName, origCreated := a.Name, a.CreatedAt
	origCategories := append([]string(nil), a.Categories...)

	persona := "Staff Engineer"
	updated, err := st.UpdatePreferences(Preferences{Persona: &persona})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Persona != "Staff Engineer" {
		t.Fatalf("persona not updated: %q", updated.Persona)
	}
	if updated.Name != origName || updated.CreatedAt != origCreated {
		t.Fatal("identity fields must never change")
	}
	if !reflect.DeepEqual(updated.Categories, origCategories) {
		t.Fatalf("unspecified fields must not change: %v", updated.Categories)
	}
	if updated.DailyFocusGoal != 14400 {
		t.Fatalf("unspecified goal changed: %d", updated.DailyFocusGoal)
	}
}

func TestUpdatePreferencesPersists(t *testing.T) {
	st, s := newTestState(t)
	st.Authenticate("alice")

	goal := int64(7200)
	if _, err := st.UpdatePreferences(Preferences{DailyFocusGoal: &goal}); err != nil {
		t.Fatal(err)
	}

	a, err := s.GetAccount("alice")
	if err != nil {
		t.Fatal(err)
	}
	if a.DailyFocusGoal != 7200 {
		t.Fatalf("goal not persisted: %d", a.DailyFocusGoal)
	}
}

func TestUpdatePreferencesNoActiveAccount(t *testing.T) {
	st, _ := newTestState(t)
	if _, err := st.UpdatePreferences(Preferences{}); err == nil {
		t.Fatal("expected error with no active account")
	}
}

// ============================================================
// Task completion
// ============================================================

func TestCompleteTaskPrependsAndPersists(t *testing.T) {
	st, s := newTestState(t)
	st.Authenticate("alice")

	st.CompleteTask(store.Task{ID: "1", Description: "first"})
	st.CompleteTask(store.Task{ID: "2", Description: "second"})

	if st.Tasks()[0].ID != "2" || st.Tasks()[1].ID != "1" {
		t.Fatalf("tasks must be newest first: %+v", st.Tasks())
	}

	persisted, err := s.Tasks("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(persisted, st.Tasks()) {
		t.Fatalf("persisted log differs:\n got %+v\nwant %+v", persisted, st.Tasks())
	}
}

// ============================================================
// Planner
// ============================================================

func TestPlannedLifecycle(t *testing.T) {
	st, _ := newTestState(t)
	st.Authenticate("alice")

	item, err := st.AddPlanned("draft report")
	if err != nil {
		t.Fatal(err)
	}
	if item.ID == "" || item.Completed {
		t.Fatalf("unexpected new item: %+v", item)
	}

	if err := st.TogglePlanned(item.ID); err != nil {
		t.Fatal(err)
	}
	if !st.Planned()[0].Completed {
		t.Fatal("toggle should complete the item")
	}
	if err := st.TogglePlanned(item.ID); err != nil {
		t.Fatal(err)
	}
	if st.Planned()[0].Completed {
		t.Fatal("second toggle should uncomplete")
	}

	if err := st.RemovePlanned(item.ID); err != nil {
		t.Fatal(err)
	}
	if len(st.Planned()) != 0 {
		t.Fatalf("item should be removed: %+v", st.Planned())
	}
}

func TestSetPlannedTextCorrelation(t *testing.T) {
	st, _ := newTestState(t)
	st.Authenticate("alice")

	item, _ := st.AddPlanned("do stuff")
	applied, err := st.SetPlannedText(item.ID, "Execute deliverable")
	if err != nil {
		t.Fatal(err)
	}
	if !applied || st.Planned()[0].Text != "Execute deliverable" {
		t.Fatalf("rewrite not applied: %+v", st.Planned())
	}

	// A rewrite arriving after removal is discarded, not an error.
	st.RemovePlanned(item.ID)
	applied, err = st.SetPlannedText(item.ID, "too late")
	if err != nil {
		t.Fatal(err)
	}
	if applied {
		t.Fatal("rewrite for a removed item must be discarded")
	}
}

// ============================================================
// Logout
// ============================================================

func TestLogoutClearsSessionOnly(t *testing.T) {
	st, s := newTestState(t)
	st.Authenticate("alice")
	st.CompleteTask(store.Task{ID: "1"})

	if err := st.Logout(); err != nil {
		t.Fatal(err)
	}
	if st.User() != nil || st.Tasks() != nil {
		t.Fatal("logout should drop in-memory session")
	}
	if active, _ := s.ActiveSession(); active != "" {
		t.Fatalf("session marker should be cleared: %q", active)
	}
	if last, _ := s.LastUser(); last != "alice" {
		t.Fatalf("last user must survive logout: %q", last)
	}
	if tasks, _ := s.Tasks("alice"); len(tasks) != 1 {
		t.Fatal("task history must survive logout")
	}
}

// ============================================================
// Corrupt data recovery
// ============================================================

func TestNewRecoversFromCorruptRegistry(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Save("accounts", "not json at all"); err != nil {
		t.Fatal(err)
	}

	st, err := New(s)
	if err != nil {
		t.Fatalf("corrupt registry must not fail startup: %v", err)
	}
	if len(st.Accounts()) != 0 {
		t.Fatal("corrupt registry should degrade to empty")
	}

	// Signing in still works and rebuilds the registry.
	if _, err := st.Authenticate("alice"); err != nil {
		t.Fatal(err)
	}
}

func TestAuthenticateRecoversFromCorruptTaskLog(t *testing.T) {
	st, s := newTestState(t)
	if err := s.Save("tasks:alice", "{{{"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Authenticate("alice"); err != nil {
		t.Fatalf("corrupt task log must not block auth: %v", err)
	}
	if len(st.Tasks()) != 0 {
		t.Fatal("corrupt log should degrade to empty")
	}
}

func TestNewIDMonotonicEnough(t *testing.T) {
	a := NewID(time.UnixMilli(1000))
	b := NewID(time.UnixMilli(2000))
	if a == b {
		t.Fatal("ids from distinct instants should differ")
	}
	if a != "1000" || b != "2000" {
		t.Fatalf("ids should be millisecond timestamps: %s, %s", a, b)
	}
}
