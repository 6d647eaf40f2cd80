package service

import "errors"

// Error kinds returned by every service. Call sites wrap them with context;
// callers match with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrNoOpenSession     = errors.New("no open cash register session")
	ErrAlreadyOpen       = errors.New("a cash register session is already open")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// errNoop aborts a transaction that has nothing to change, so the state is not
// persisted again. It never leaves the package.
var errNoop = errors.New("no-op")

func ignoreNoop(err error) error {
	if errors.Is(err, errNoop) {
		return nil
	}
	return err
}
