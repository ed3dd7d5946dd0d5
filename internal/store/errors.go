package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a direct lookup for an account name that is not in
// the registry. Authenticate never returns it; it creates instead.
var ErrNotFound = errors.New("account not found")

// CorruptDataError reports a stored payload that failed to parse. Callers
// recover by treating the slot as empty; the error exists for logging.
type CorruptDataError struct {
	Key string
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data at %q: %v", e.Key, e.Err)
}

func (e *CorruptDataError) Unwrap() error {
	return e.Err
}
