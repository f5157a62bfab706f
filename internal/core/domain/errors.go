package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrMissingCredentials  = errors.New("username and password are required")
	ErrNoActiveSession     = errors.New("no active session")
	ErrCorruptedLocalState = errors.New("corrupted local session state")
	ErrKeyNotFound         = errors.New("key not found")
	ErrForbidden           = errors.New("access forbidden")
)
