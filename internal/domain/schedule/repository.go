package schedule

import (
	"context"
	"time"
)

type ScheduleRepository interface {
	ListAssignments(ctx context.Context) ([]Assignment, error)
	ListAssignmentsByUser(ctx context.Context, userName string) ([]Assignment, error)
	ListAssignmentsOverlapping(ctx context.Context, from, to time.Time) ([]Assignment, error)
	GetAssignment(ctx context.Context, id string) (Assignment, error)
	UpdateAssignment(ctx context.Context, req UpdateAssignmentRequest) error
	DeleteAssignment(ctx context.Context, id string) error
}

type TemplateRepository interface {
	ListTemplates(ctx context.Context) ([]Template, error)
	GetTemplate(ctx context.Context, id string) (Template, error)
	GetByShift(ctx context.Context, shiftName, project string) (Template, error)
	DeleteTemplate(ctx context.Context, id string) error
}
