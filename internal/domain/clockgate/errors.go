package clockgate

import "errors"

var (
	ErrNoLocationFix      = errors.New("could not acquire a location fix")
	ErrWebhookUnconfirmed = errors.New("clock webhook did not confirm the action")
	ErrNoOpenClockIn      = errors.New("no stored clock-in id for this device")
)
