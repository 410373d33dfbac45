package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/database"
)

type templateRepositoryImpl struct {
	db *database.DB
}

func NewTemplateRepository(db *database.DB) schedule.TemplateRepository {
	return &templateRepositoryImpl{db: db}
}

const templateColumns = `id, shift_name, project, start_time, end_time, break_time, days, created_at`

func scanTemplate(row pgx.Row) (schedule.Template, error) {
	var t schedule.Template
	err := row.Scan(
		&t.ID,
		&t.ShiftName,
		&t.Project,
		&t.StartTime,
		&t.EndTime,
		&t.BreakTime,
		&t.Days,
		&t.CreatedAt,
	)
	return t, err
}

// ListTemplates implements schedule.TemplateRepository.
func (r *templateRepositoryImpl) ListTemplates(ctx context.Context) ([]schedule.Template, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + templateColumns + ` FROM template ORDER BY project, shift_name`

	rows, err := q.Query(ctx, selectQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []schedule.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// GetTemplate implements schedule.TemplateRepository.
func (r *templateRepositoryImpl) GetTemplate(ctx context.Context, id string) (schedule.Template, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + templateColumns + ` FROM template WHERE id = $1`

	t, err := scanTemplate(q.QueryRow(ctx, selectQuery, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.Template{}, schedule.ErrTemplateNotFound
		}
		return schedule.Template{}, err
	}

	return t, nil
}

// GetByShift implements schedule.TemplateRepository. The shift_name +
// project pair is tried first; a shift_name-only match is the fallback.
func (r *templateRepositoryImpl) GetByShift(ctx context.Context, shiftName, project string) (schedule.Template, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + templateColumns + ` FROM template WHERE shift_name = $1 AND project = $2 LIMIT 1`

	t, err := scanTemplate(q.QueryRow(ctx, selectQuery, shiftName, project))
	if err == nil {
		return t, nil
	}
	if err != pgx.ErrNoRows {
		return schedule.Template{}, err
	}

	fallbackQuery := `SELECT ` + templateColumns + ` FROM template WHERE shift_name = $1 LIMIT 1`

	t, err = scanTemplate(q.QueryRow(ctx, fallbackQuery, shiftName))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.Template{}, schedule.ErrTemplateNotFound
		}
		return schedule.Template{}, err
	}

	return t, nil
}

// DeleteTemplate implements schedule.TemplateRepository.
func (r *templateRepositoryImpl) DeleteTemplate(ctx context.Context, id string) error {
	q := r.db.Pool

	tag, err := q.Exec(ctx, `DELETE FROM template WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrTemplateNotFound
	}

	return nil
}
