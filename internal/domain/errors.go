package domain

import "fmt"

// StoreError wraps an I/O or query failure in the usage store. Callers retry
// once, then surface it; ticks log it and move on.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err, or returns nil if err is nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// MigrationError is a non-idempotent migration failure. Fatal at startup:
// we never run against an unknown schema.
type MigrationError struct {
	Version     int
	Description string
	Err         error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %d (%s): %v", e.Version, e.Description, e.Err)
}
func (e *MigrationError) Unwrap() error { return e.Err }

// ValidationError rejects an app name before it can reach any
// process-termination call.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid app name %q: %s", e.Name, e.Reason)
}

// ProcessError is a failed termination attempt. Non-fatal: the app may not
// be running; the block record remains and the next tick retries.
type ProcessError struct {
	AppName string
	Err     error
}

func (e *ProcessError) Error() string { return fmt.Sprintf("terminate %s: %v", e.AppName, e.Err) }
func (e *ProcessError) Unwrap() error { return e.Err }

// NotFoundError reports an operation on an absent limit, goal, or schedule.
// No partial state change is performed.
type NotFoundError struct {
	Kind string // "limit", "goal", "schedule", "app"
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.Name) }
