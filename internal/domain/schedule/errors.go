package schedule

import "errors"

var (
	ErrAssignmentNotFound = errors.New("schedule assignment not found")
	ErrTemplateNotFound   = errors.New("shift template not found")
	ErrNoActiveAssignment = errors.New("no active schedule assignment")
	ErrWebhookRejected    = errors.New("schedule webhook did not confirm")
)
