// Package state owns the in-memory application state: the account
// registry, the active account, and its task and planned-task logs.
// Persistence happens as an explicit side effect of the mutation entry
// points; nothing here is reactive.
package state

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sadopc/chronos/internal/store"
)

// Defaults applied when a new account is created on first authentication.
var defaultCategories = []string{"Core Projects", "Administrative", "Professional Growth"}

const (
	defaultPersona = "Lead Professional"
	defaultGoal    = 4 * 3600 // seconds
)

// Preferences is a partial-field update for the active account. Nil
// fields are left untouched. Name and CreatedAt are not updatable.
type Preferences struct {
	Persona        *string
	Categories     *[]string
	DailyFocusGoal *int64
}

// State is the single logical writer over the store.
type State struct {
	store *store.Store

	user     *store.Account
	accounts []store.Account
	lastUser string
	tasks    []store.Task
	planned  []store.PlannedTask
}

// New loads the account registry and last-user marker from the store.
// Corrupt slots degrade to empty defaults.
func New(s *store.Store) (*State, error) {
	st := &State{store: s}

	accounts, err := s.Accounts()
	if err != nil && !isCorrupt(err) {
		return nil, err
	}
	st.accounts = accounts

	last, err := s.LastUser()
	if err != nil {
		return nil, err
	}
	st.lastUser = last
	return st, nil
}

// isCorrupt reports whether err is a recoverable corrupt-slot error; the
// store already logged it and returned the empty default.
func isCorrupt(err error) bool {
	var cerr *store.CorruptDataError
	return errors.As(err, &cerr)
}

func (st *State) User() *store.Account         { return st.user }
func (st *State) Accounts() []store.Account    { return st.accounts }
func (st *State) LastUser() string             { return st.lastUser }
func (st *State) Tasks() []store.Task          { return st.tasks }
func (st *State) Planned() []store.PlannedTask { return st.planned }

// NewID returns a creation-timestamp id, unique enough for a single
// local writer.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// Resume re-opens the account named by the persisted active-session
// marker, if any. Returns false when there is nothing to resume.
func (st *State) Resume() (bool, error) {
	name, err := st.store.ActiveSession()
	if err != nil {
		return false, err
	}
	if name == "" {
		return false, nil
	}
	for i := range st.accounts {
		if st.accounts[i].Name == name {
			st.user = &st.accounts[i]
			return true, st.loadLogs(name)
		}
	}
	// Marker points at an account that no longer parses; drop it.
	slog.Warn("active session marker without matching account", "name", name)
	return false, st.store.ClearActiveSession()
}

// Authenticate looks up name in the registry, creating a new account with
// defaults when absent. It marks the session active and records the name
// as last used. Idempotent for an existing name; never touches an
// existing account's history.
func (st *State) Authenticate(name string) (*store.Account, error) {
	var account *store.Account
	for i := range st.accounts {
		if st.accounts[i].Name == name {
			account = &st.accounts[i]
			break
		}
	}

	if account == nil {
		st.accounts = append(st.accounts, store.Account{
			Name:           name,
			CreatedAt:      time.Now().UnixMilli(),
			Persona:        defaultPersona,
			Categories:     append([]string(nil), defaultCategories...),
			DailyFocusGoal: defaultGoal,
		})
		account = &st.accounts[len(st.accounts)-1]
		if err := st.store.SaveAccounts(st.accounts); err != nil {
			return nil, fmt.Errorf("persist registry: %w", err)
		}
		slog.Info("created account", "name", name)
	}

	if err := st.store.SetActiveSession(name); err != nil {
		return nil, err
	}
	if err := st.store.SetLastUser(name); err != nil {
		return nil, err
	}
	st.lastUser = name
	st.user = account

	if err := st.loadLogs(name); err != nil {
		return nil, err
	}
	return account, nil
}

func (st *State) loadLogs(name string) error {
	tasks, err := st.store.Tasks(name)
	if err != nil && !isCorrupt(err) {
		return err
	}
	planned, err := st.store.Planned(name)
	if err != nil && !isCorrupt(err) {
		return err
	}
	st.tasks = tasks
	st.planned = planned
	return nil
}

// Logout clears the active-session marker and drops the loaded logs.
// The registry and the last-user marker are untouched.
func (st *State) Logout() error {
	if err := st.store.ClearActiveSession(); err != nil {
		return err
	}
	st.user = nil
	st.tasks = nil
	st.planned = nil
	return nil
}

// UpdatePreferences merges the given fields into the active account,
// replaces its registry entry, and persists the registry. Task logs are
// never touched.
func (st *State) UpdatePreferences(p Preferences) (*store.Account, error) {
	if st.user == nil {
		return nil, fmt.Errorf("no active account")
	}
	if p.Persona != nil {
		st.user.Persona = *p.Persona
	}
	if p.Categories != nil {
		st.user.Categories = append([]string(nil), (*p.Categories)...)
	}
	if p.DailyFocusGoal != nil {
		st.user.DailyFocusGoal = *p.DailyFocusGoal
	}
	if err := st.store.SaveAccounts(st.accounts); err != nil {
		return nil, fmt.Errorf("persist registry: %w", err)
	}
	return st.user, nil
}

// CompleteTask prepends a finished session to the task log (newest first)
// and persists it synchronously.
func (st *State) CompleteTask(t store.Task) error {
	if st.user == nil {
		return fmt.Errorf("no active account")
	}
	st.tasks = append([]store.Task{t}, st.tasks...)
	if err := st.store.SaveTasks(st.user.Name, st.tasks); err != nil {
		return fmt.Errorf("persist task log: %w", err)
	}
	return nil
}

// AddPlanned appends a new to-do item and persists the log.
func (st *State) AddPlanned(text string) (store.PlannedTask, error) {
	if st.user == nil {
		return store.PlannedTask{}, fmt.Errorf("no active account")
	}
	now := time.Now()
	item := store.PlannedTask{
		ID:        NewID(now),
		Text:      text,
		CreatedAt: now.UnixMilli(),
	}
	st.planned = append(st.planned, item)
	return item, st.savePlanned()
}

// TogglePlanned flips the completed flag of the item with the given id.
func (st *State) TogglePlanned(id string) error {
	for i := range st.planned {
		if st.planned[i].ID == id {
			st.planned[i].Completed = !st.planned[i].Completed
			return st.savePlanned()
		}
	}
	return fmt.Errorf("planned task %q: %w", id, store.ErrNotFound)
}

// RemovePlanned deletes the item with the given id.
func (st *State) RemovePlanned(id string) error {
	for i := range st.planned {
		if st.planned[i].ID == id {
			st.planned = append(st.planned[:i], st.planned[i+1:]...)
			return st.savePlanned()
		}
	}
	return fmt.Errorf("planned task %q: %w", id, store.ErrNotFound)
}

// SetPlannedText applies a rewrite result to the item with the given id.
// Returns false without error when the item no longer exists, so a late
// AI response is safely discardable.
func (st *State) SetPlannedText(id, text string) (bool, error) {
	for i := range st.planned {
		if st.planned[i].ID == id {
			st.planned[i].Text = text
			return true, st.savePlanned()
		}
	}
	return false, nil
}

func (st *State) savePlanned() error {
	if err := st.store.SavePlanned(st.user.Name, st.planned); err != nil {
		return fmt.Errorf("persist planned log: %w", err)
	}
	return nil
}
