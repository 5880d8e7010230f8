package site

import "errors"

// Error constants
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrMount         = errors.New("screen mount failed")
)
