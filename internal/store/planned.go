package store

import (
	"encoding/json"
	"fmt"
)

// Planned returns the planned-task log for the named account in
// insertion order. Absent and corrupt slots degrade like Tasks.
func (s *Store) Planned(name string) ([]PlannedTask, error) {
	key := keyPlannedPrefix + name
	raw, found, err := s.Load(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var planned []PlannedTask
	if err := json.Unmarshal([]byte(raw), &planned); err != nil {
		cerr := &CorruptDataError{Key: key, Err: err}
		warnCorrupt(cerr)
		return nil, cerr
	}
	return planned, nil
}

// SavePlanned persists the full planned-task log for the named account.
func (s *Store) SavePlanned(name string, planned []PlannedTask) error {
	data, err := json.Marshal(planned)
	if err != nil {
		return fmt.Errorf("marshal planned tasks for %q: %w", name, err)
	}
	return s.Save(keyPlannedPrefix+name, string(data))
}
