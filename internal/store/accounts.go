package store

import (
	"encoding/json"
	"fmt"
)

// Accounts returns the registry of known accounts. An absent slot yields
// an empty registry. A corrupt payload yields an empty registry plus a
// *CorruptDataError so the caller can log it.
func (s *Store) Accounts() ([]Account, error) {
	raw, found, err := s.Load(keyAccounts)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var accounts []Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		cerr := &CorruptDataError{Key: keyAccounts, Err: err}
		warnCorrupt(cerr)
		return nil, cerr
	}
	return accounts, nil
}

// SaveAccounts persists the full registry.
func (s *Store) SaveAccounts(accounts []Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	return s.Save(keyAccounts, string(data))
}

// GetAccount looks up an account by exact name.
func (s *Store) GetAccount(name string) (*Account, error) {
	accounts, err := s.Accounts()
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Name == name {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account %q: %w", name, ErrNotFound)
}

// LastUser returns the most recently authenticated account name, or ""
// when none has been recorded.
func (s *Store) LastUser() (string, error) {
	name, _, err := s.Load(keyLastUser)
	return name, err
}

func (s *Store) SetLastUser(name string) error {
	return s.Save(keyLastUser, name)
}

// ActiveSession returns the account name marked as the active session,
// or "" when no session is active.
func (s *Store) ActiveSession() (string, error) {
	name, _, err := s.Load(keyActiveSession)
	return name, err
}

func (s *Store) SetActiveSession(name string) error {
	return s.Save(keyActiveSession, name)
}

func (s *Store) ClearActiveSession() error {
	return s.Delete(keyActiveSession)
}
