package app

import "errors"

// ErrNoActiveList and related errors describe session-state failures.
var (
	ErrNoActiveList = errors.New("no list is being edited")
	ErrJournal      = errors.New("activity journal")
)
