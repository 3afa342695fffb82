package application

import "errors"

var (
	// ErrMissingRepoManager is returned when the mirror is built without a
	// repository manager.
	ErrMissingRepoManager = errors.New("missing repository manager")
	// ErrMissingParser is returned when the mirror is built without a ledger
	// entry parser.
	ErrMissingParser = errors.New("missing ledger entry parser")
	// ErrUnsupportedDBType is returned by Config for unknown database types.
	ErrUnsupportedDBType = errors.New("database type not supported")
)
