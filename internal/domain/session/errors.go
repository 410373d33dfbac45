package session

import "errors"

var (
	ErrAlreadyClockedIn = errors.New("a session is already open")
	ErrNotWorking       = errors.New("not in an active working state")
	ErrNotOnBreak       = errors.New("no break in progress")
	ErrNoSession        = errors.New("no open session")
)
