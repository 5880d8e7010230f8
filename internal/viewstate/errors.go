package viewstate

import "errors"

// Sentinel errors returned by controller actions.
var (
	ErrInactive      = errors.New("controller is not active")
	ErrAlreadyActive = errors.New("controller is already active")
	ErrNotPaginated  = errors.New("controller is not paginated")
	ErrNextDisabled  = errors.New("no next page")
	ErrPrevDisabled  = errors.New("already on the first page")
)
