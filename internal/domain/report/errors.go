package report

import "errors"

var (
	ErrInvalidRange = errors.New("from must not be after to")
	ErrEmptyExport  = errors.New("no work hours in the requested range")
)
