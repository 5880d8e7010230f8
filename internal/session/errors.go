package session

import "errors"

var (
	// ErrClosed is returned once the store has been closed.
	ErrClosed = errors.New("session store closed")
	// ErrNoScreen is returned when a session has nothing mounted.
	ErrNoScreen = errors.New("no screen mounted")
)
