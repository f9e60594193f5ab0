package repository

import (
	"errors"
	"fmt"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound = errors.New("not found")
	// ErrStorage marks connection, I/O and constraint failures of the backing store.
	ErrStorage = errors.New("storage failure")
	// ErrCorruptData marks a persisted id or payload that no longer decodes.
	ErrCorruptData = errors.New("corrupt data")
	// ErrAlreadyExists accompanies ErrStorage on primary-key collisions.
	ErrAlreadyExists = errors.New("already exists")
)

// StorageError wraps a driver failure so that it matches ErrStorage (and any
// extra markers) while keeping the original error reachable for logging.
func StorageError(op string, err error, markers ...error) error {
	if err == nil {
		return nil
	}
	format := "%s: %w"
	args := []any{op, ErrStorage}
	for _, m := range markers {
		format += ": %w"
		args = append(args, m)
	}
	args = append(args, err)
	return fmt.Errorf(format+": %w", args...)
}

// CorruptDataError reports a persisted value that failed to decode.
func CorruptDataError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCorruptData, what, err)
}
