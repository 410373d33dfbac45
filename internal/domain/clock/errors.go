package clock

import "errors"

var (
	ErrEventNotFound = errors.New("clock event not found")
	ErrInvalidRange  = errors.New("from must not be after to")
)
