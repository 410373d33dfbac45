package schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	ListAssignments(ctx context.Context) ([]AssignmentResponse, error)
	ListTemplates(ctx context.Context) ([]TemplateResponse, error)

	// ResolveActiveShift finds the user's assignment active on the given
	// date and its template (shift_name+project match first, shift_name
	// alone as fallback).
	ResolveActiveShift(ctx context.Context, userName string, date time.Time) (ResolvedShift, error)

	// CreateAssignment and CreateTemplate relay to the workflow webhook;
	// the workflow owns the insert.
	CreateAssignment(ctx context.Context, req CreateAssignmentRequest) error
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) error

	// UpdateAssignment persists locally and notifies the webhook.
	UpdateAssignment(ctx context.Context, req UpdateAssignmentRequest) error

	// Deletes remove the local row and notify the webhook.
	DeleteAssignment(ctx context.Context, id string) error
	DeleteTemplate(ctx context.Context, id string) error
}
