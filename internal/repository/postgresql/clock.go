package postgresql

import (
	"context"
	"fmt"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clock"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/database"
)

type clockRepositoryImpl struct {
	db *database.DB
}

func NewClockRepository(db *database.DB) clock.ClockRepository {
	return &clockRepositoryImpl{db: db}
}

// ListIns implements clock.ClockRepository.
func (r *clockRepositoryImpl) ListIns(ctx context.Context, filter clock.Filter) ([]clock.Event, error) {
	return r.listEvents(ctx, "clock_in", true, filter)
}

// ListOuts implements clock.ClockRepository.
func (r *clockRepositoryImpl) ListOuts(ctx context.Context, filter clock.Filter) ([]clock.Event, error) {
	return r.listEvents(ctx, "clock_out", false, filter)
}

func (r *clockRepositoryImpl) listEvents(ctx context.Context, table string, withBreaks bool, filter clock.Filter) ([]clock.Event, error) {
	q := r.db.Pool

	columns := `id, user_name, created_at, clock_time, image, location`
	if withBreaks {
		columns += `, break_start, break_end`
	}

	selectQuery := `SELECT ` + columns + ` FROM ` + table + ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.UserName != "" {
		selectQuery += fmt.Sprintf(" AND user_name = $%d", argPos)
		args = append(args, filter.UserName)
		argPos++
	}
	if !filter.From.IsZero() {
		selectQuery += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, filter.From)
		argPos++
	}
	if !filter.To.IsZero() {
		selectQuery += fmt.Sprintf(" AND created_at <= $%d", argPos)
		args = append(args, filter.To)
		argPos++
	}

	selectQuery += " ORDER BY created_at DESC"

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []clock.Event
	for rows.Next() {
		var e clock.Event
		if withBreaks {
			err = rows.Scan(&e.ID, &e.UserName, &e.CreatedAt, &e.ClockTime, &e.Image, &e.Location, &e.BreakStart, &e.BreakEnd)
		} else {
			err = rows.Scan(&e.ID, &e.UserName, &e.CreatedAt, &e.ClockTime, &e.Image, &e.Location)
		}
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// ActiveUserNames implements clock.ClockRepository.
func (r *clockRepositoryImpl) ActiveUserNames(ctx context.Context, filter clock.Filter) ([]string, error) {
	q := r.db.Pool

	selectQuery := `
		SELECT DISTINCT user_name FROM (
			SELECT user_name, created_at FROM clock_in
			UNION ALL
			SELECT user_name, created_at FROM clock_out
		) e
		WHERE 1=1
	`
	args := []interface{}{}
	argPos := 1

	if !filter.From.IsZero() {
		selectQuery += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, filter.From)
		argPos++
	}
	if !filter.To.IsZero() {
		selectQuery += fmt.Sprintf(" AND created_at <= $%d", argPos)
		args = append(args, filter.To)
		argPos++
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
