package sqlite

import (
	"errors"
	"strings"

	"github.com/maxviazov/settings-service/internal/repository"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// mapSQLiteError wraps a driver error as a storage failure, tagging primary-key
// collisions so they can be told apart in logs. Everything stays ErrStorage.
func mapSQLiteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return repository.StorageError(op, err, repository.ErrAlreadyExists)
	}
	return repository.StorageError(op, err)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
