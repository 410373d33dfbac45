package timesheet

import "errors"

var (
	ErrInvalidRange = errors.New("from must not be after to")
)
