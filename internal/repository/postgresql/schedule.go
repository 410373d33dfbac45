package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/database"
)

type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

const assignmentColumns = `id, user_name, shift_name, project, start_date, end_date, created_at`

func scanAssignment(row pgx.Row) (schedule.Assignment, error) {
	var a schedule.Assignment
	err := row.Scan(
		&a.ID,
		&a.UserName,
		&a.ShiftName,
		&a.Project,
		&a.StartDate,
		&a.EndDate,
		&a.CreatedAt,
	)
	return a, err
}

// ListAssignments implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) ListAssignments(ctx context.Context) ([]schedule.Assignment, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + assignmentColumns + ` FROM schedule ORDER BY start_date DESC, created_at DESC`

	rows, err := q.Query(ctx, selectQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// ListAssignmentsByUser implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) ListAssignmentsByUser(ctx context.Context, userName string) ([]schedule.Assignment, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + assignmentColumns + ` FROM schedule WHERE user_name = $1 ORDER BY start_date DESC, created_at DESC`

	rows, err := q.Query(ctx, selectQuery, userName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// ListAssignmentsOverlapping implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) ListAssignmentsOverlapping(ctx context.Context, from, to time.Time) ([]schedule.Assignment, error) {
	q := r.db.Pool

	selectQuery := `
		SELECT ` + assignmentColumns + `
		FROM schedule
		WHERE start_date <= $2 AND (end_date IS NULL OR end_date >= $1)
		ORDER BY start_date DESC, created_at DESC
	`

	rows, err := q.Query(ctx, selectQuery, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// GetAssignment implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetAssignment(ctx context.Context, id string) (schedule.Assignment, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + assignmentColumns + ` FROM schedule WHERE id = $1`

	a, err := scanAssignment(q.QueryRow(ctx, selectQuery, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.Assignment{}, schedule.ErrAssignmentNotFound
		}
		return schedule.Assignment{}, err
	}

	return a, nil
}

// UpdateAssignment implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) UpdateAssignment(ctx context.Context, req schedule.UpdateAssignmentRequest) error {
	q := r.db.Pool

	updateQuery := `
		UPDATE schedule
		SET shift_name = COALESCE($1, shift_name),
		    project = COALESCE($2, project),
		    start_date = COALESCE($3::date, start_date),
		    end_date = COALESCE($4::date, end_date)
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, updateQuery, req.ShiftName, req.Project, req.StartDate, req.EndDate, req.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrAssignmentNotFound
	}

	return nil
}

// DeleteAssignment implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) DeleteAssignment(ctx context.Context, id string) error {
	q := r.db.Pool

	tag, err := q.Exec(ctx, `DELETE FROM schedule WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrAssignmentNotFound
	}

	return nil
}

func collectAssignments(rows pgx.Rows) ([]schedule.Assignment, error) {
	var assignments []schedule.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
