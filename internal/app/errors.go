package app

import "errors"

// Application errors.
var (
	// ErrQuit signals a normal user-initiated exit.
	ErrQuit = errors.New("quit")

	// ErrNoView is returned when Run is called without a view.
	ErrNoView = errors.New("no view function set")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("application already running")
)
