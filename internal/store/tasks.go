package store

import (
	"encoding/json"
	"fmt"
)

// Tasks returns the task log for the named account, newest first.
// An absent slot yields an empty log; a corrupt payload yields an empty
// log plus a *CorruptDataError.
func (s *Store) Tasks(name string) ([]Task, error) {
	key := keyTasksPrefix + name
	raw, found, err := s.Load(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		cerr := &CorruptDataError{Key: key, Err: err}
		warnCorrupt(cerr)
		return nil, cerr
	}
	return tasks, nil
}

// SaveTasks persists the full task log for the named account, preserving
// the given order.
func (s *Store) SaveTasks(name string, tasks []Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks for %q: %w", name, err)
	}
	return s.Save(keyTasksPrefix+name, string(data))
}
