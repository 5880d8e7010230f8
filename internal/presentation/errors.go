package presentation

import "errors"

var (
	ErrLocale          = errors.New("invalid locale")
	ErrUnknownTemplate = errors.New("unknown template")
	ErrRender          = errors.New("render failed")
)
