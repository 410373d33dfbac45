package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/webhook"
)

type ScheduleServiceImpl struct {
	schedule.ScheduleRepository
	schedule.TemplateRepository
	users  user.UserRepository
	client *webhook.Client
}

func NewScheduleService(
	scheduleRepo schedule.ScheduleRepository,
	templateRepo schedule.TemplateRepository,
	userRepo user.UserRepository,
	client *webhook.Client,
) schedule.ScheduleService {
	return &ScheduleServiceImpl{
		ScheduleRepository: scheduleRepo,
		TemplateRepository: templateRepo,
		users:              userRepo,
		client:             client,
	}
}

// ListAssignments implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListAssignments(ctx context.Context) ([]schedule.AssignmentResponse, error) {
	assignments, err := s.ScheduleRepository.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	out := make([]schedule.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, a.ToResponse())
	}
	return out, nil
}

// ListTemplates implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListTemplates(ctx context.Context) ([]schedule.TemplateResponse, error) {
	templates, err := s.TemplateRepository.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	out := make([]schedule.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, t.ToResponse())
	}
	return out, nil
}

// ResolveActiveShift implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ResolveActiveShift(ctx context.Context, userName string, date time.Time) (schedule.ResolvedShift, error) {
	assignments, err := s.ListAssignmentsByUser(ctx, userName)
	if err != nil {
		return schedule.ResolvedShift{}, fmt.Errorf("list assignments: %w", err)
	}

	for _, a := range assignments {
		if !a.ActiveOn(date) {
			continue
		}
		resolved := schedule.ResolvedShift{Assignment: a}
		if t, err := s.GetByShift(ctx, a.ShiftName, a.Project); err == nil {
			resolved.Template = &t
		}
		return resolved, nil
	}

	return schedule.ResolvedShift{}, schedule.ErrNoActiveAssignment
}

// CreateAssignment implements schedule.ScheduleService. The workflow
// behind the schedule webhook owns the insert; a rejected request means
// nothing was created anywhere.
func (s *ScheduleServiceImpl) CreateAssignment(ctx context.Context, req schedule.CreateAssignmentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	payload := s.assignmentPayload(ctx, nil, "create", req.UserName, req.ShiftName, req.Project, req.StartDate, req.EndDate)
	result, err := s.client.Send(ctx, webhook.EndpointSchedule, payload)
	if err != nil {
		return fmt.Errorf("send schedule create: %w", err)
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		return schedule.ErrWebhookRejected
	}

	return nil
}

// UpdateAssignment implements schedule.ScheduleService. The local row
// is updated first; the webhook notification is best effort.
func (s *ScheduleServiceImpl) UpdateAssignment(ctx context.Context, req schedule.UpdateAssignmentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	current, err := s.GetAssignment(ctx, req.ID)
	if err != nil {
		return err
	}
	if err := s.ScheduleRepository.UpdateAssignment(ctx, req); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}

	shiftName := current.ShiftName
	if req.ShiftName != nil {
		shiftName = *req.ShiftName
	}
	project := current.Project
	if req.Project != nil {
		project = *req.Project
	}
	startDate := slashDate(current.StartDate)
	if req.StartDate != nil {
		startDate = slashFromISO(*req.StartDate)
	}
	var endDate *string
	if req.EndDate != nil {
		v := slashFromISO(*req.EndDate)
		endDate = &v
	} else if current.EndDate != nil {
		v := slashDate(*current.EndDate)
		endDate = &v
	}

	payload := s.assignmentPayload(ctx, &req.ID, "update", current.UserName, shiftName, project, startDate, endDate)
	s.notify(ctx, webhook.EndpointSchedule, payload)

	return nil
}

// DeleteAssignment implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteAssignment(ctx context.Context, id string) error {
	current, err := s.GetAssignment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ScheduleRepository.DeleteAssignment(ctx, id); err != nil {
		return err
	}

	endDate := (*string)(nil)
	if current.EndDate != nil {
		v := slashDate(*current.EndDate)
		endDate = &v
	}
	payload := s.assignmentPayload(ctx, &id, "delete", current.UserName, current.ShiftName, current.Project, slashDate(current.StartDate), endDate)
	s.notify(ctx, webhook.EndpointSchedule, payload)

	return nil
}

// CreateTemplate implements schedule.ScheduleService. Like assignment
// creation, the insert belongs to the workflow.
func (s *ScheduleServiceImpl) CreateTemplate(ctx context.Context, req schedule.CreateTemplateRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"id":          nil,
		"name":        req.ShiftName,
		"projectName": req.Project,
		"startTime":   req.StartTime,
		"endTime":     req.EndTime,
		"weekdays":    req.Days,
		"action":      "create",
		"createdAt":   time.Now().UTC().Format(time.RFC3339),
	}
	if req.BreakTime != nil {
		payload["breakTime"] = *req.BreakTime
	}

	result, err := s.client.Send(ctx, webhook.EndpointTemplate, payload)
	if err != nil {
		return fmt.Errorf("send template create: %w", err)
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		return schedule.ErrWebhookRejected
	}

	return nil
}

// DeleteTemplate implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteTemplate(ctx context.Context, id string) error {
	current, err := s.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	if err := s.TemplateRepository.DeleteTemplate(ctx, id); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"id":          id,
		"name":        current.ShiftName,
		"projectName": current.Project,
		"weekdays":    current.Days,
		"action":      "delete",
		"createdAt":   time.Now().UTC().Format(time.RFC3339),
	}
	if current.StartTime != nil {
		payload["startTime"] = *current.StartTime
	}
	if current.EndTime != nil {
		payload["endTime"] = *current.EndTime
	}
	if current.BreakTime != nil {
		payload["breakTime"] = *current.BreakTime
	}
	s.notify(ctx, webhook.EndpointTemplate, payload)

	return nil
}

func (s *ScheduleServiceImpl) assignmentPayload(ctx context.Context, id *string, action, userName, shiftName, project, startDate string, endDate *string) map[string]interface{} {
	payload := map[string]interface{}{
		"action":      action,
		"user_name":   userName,
		"shiftName":   shiftName,
		"projectName": project,
		"startDate":   startDate,
		"createdAt":   time.Now().UTC().Format(time.RFC3339),
	}
	if id != nil {
		payload["id"] = *id
	} else {
		payload["id"] = nil
	}
	if endDate != nil {
		payload["endDate"] = *endDate
	} else {
		payload["endDate"] = nil
	}
	if u, err := s.users.GetByUserName(ctx, userName); err == nil {
		payload["employeeName"] = u.Name
	}
	if t, err := s.GetByShift(ctx, shiftName, project); err == nil {
		details := map[string]interface{}{"weekdays": t.Days}
		if t.StartTime != nil {
			details["startTime"] = *t.StartTime
		}
		if t.EndTime != nil {
			details["endTime"] = *t.EndTime
		}
		if t.BreakTime != nil {
			details["breakTime"] = *t.BreakTime
		}
		payload["details"] = details
	}
	return payload
}

// notify sends a best-effort webhook notification for a mutation that
// already happened locally.
func (s *ScheduleServiceImpl) notify(ctx context.Context, endpoint string, payload map[string]interface{}) {
	result, err := s.client.Send(ctx, endpoint, payload)
	if err != nil {
		slog.Warn("schedule webhook notification failed", "endpoint", endpoint, "error", err)
		return
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		slog.Warn("schedule webhook notification rejected", "endpoint", endpoint, "status", result.StatusCode)
	}
}

func slashDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

func slashFromISO(iso string) string {
	t, err := timeutil.ParseDate(iso)
	if err != nil {
		return iso
	}
	return slashDate(t)
}
