package timesheet

import (
	"sort"
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clock"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/timesheet"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
)

// maxShiftSpan caps how far ahead of a clock-in its clock-out may be.
const maxShiftSpan = 36 * time.Hour

// resolveEventTime resolves a raw event's effective instant: the stored
// clock_time string interpreted on the event's own calendar date, with
// the created_at timestamp as fallback when the string is absent or
// unparseable.
func resolveEventTime(e clock.Event) time.Time {
	if e.ClockTime != nil {
		if t, ok := timeutil.ParseClockTime(*e.ClockTime, e.CreatedAt); ok {
			return t
		}
	}
	return e.CreatedAt
}

type resolvedOut struct {
	event clock.Event
	at    time.Time
}

// Reconcile pairs raw clock-ins with clock-outs and derives the
// attendance entries. Clock-ins are walked in the given order (newest
// first); each takes the earliest still-unconsumed clock-out of the
// same user whose row timestamp lies strictly after its own and within
// the shift span. Pairing goes by created_at only; the resolved
// clock-time strings feed the worked, break, and lateness arithmetic.
// Unmatched clock-ins become open entries; unmatched clock-outs are
// dropped.
func Reconcile(ins, outs []clock.Event, assignments []schedule.Assignment, templates []schedule.Template) []timesheet.Entry {
	resolved := make([]resolvedOut, 0, len(outs))
	for _, o := range outs {
		resolved = append(resolved, resolvedOut{event: o, at: resolveEventTime(o)})
	}
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].event.CreatedAt.Before(resolved[j].event.CreatedAt)
	})
	used := make([]bool, len(resolved))

	entries := make([]timesheet.Entry, 0, len(ins))
	for _, in := range ins {
		inAt := resolveEventTime(in)

		var out *resolvedOut
		var outIdx int
		for i := range resolved {
			if used[i] || resolved[i].event.UserName != in.UserName {
				continue
			}
			if !resolved[i].event.CreatedAt.After(in.CreatedAt) {
				continue
			}
			if resolved[i].event.CreatedAt.Sub(in.CreatedAt) > maxShiftSpan {
				break
			}
			out = &resolved[i]
			outIdx = i
			break
		}

		entry := buildEntry(in, inAt, out, assignments, templates)
		if out != nil {
			used[outIdx] = true
		}
		entries = append(entries, entry)
	}

	return entries
}

func buildEntry(in clock.Event, inAt time.Time, out *resolvedOut, assignments []schedule.Assignment, templates []schedule.Template) timesheet.Entry {
	entry := timesheet.Entry{
		UserName:   in.UserName,
		Date:       timeutil.DateOf(inAt),
		ClockIn:    inAt,
		InImage:    in.Image,
		InLocation: in.Location,
	}

	shift := resolveShift(in.UserName, entry.Date, assignments, templates)
	if shift != nil {
		entry.Project = shift.Assignment.Project
		entry.ShiftName = shift.Assignment.ShiftName
	}

	start := baselineStart(shift, entry.Date)
	if inAt.After(start) {
		entry.Late = true
		entry.LateMinutes = int(inAt.Sub(start) / time.Minute)
	}

	if out == nil {
		return entry
	}

	outAt := out.at
	entry.ClockOut = &outAt
	entry.OutImage = out.event.Image
	entry.OutLocation = out.event.Location

	entry.BreakMinutes = breakMinutes(in, inAt, outAt)

	worked := int(outAt.Sub(inAt)/time.Minute) - entry.BreakMinutes
	if worked < 0 {
		worked = 0
	}
	entry.WorkedMinutes = worked

	return entry
}

// breakMinutes counts the break carried on the clock-in row, but only
// when both boundaries fall within the worked window and the break has
// positive length.
func breakMinutes(in clock.Event, inAt, outAt time.Time) int {
	if in.BreakStart == nil || in.BreakEnd == nil {
		return 0
	}
	start, ok := timeutil.ParseClockTime(*in.BreakStart, inAt)
	if !ok {
		return 0
	}
	end, ok := timeutil.ParseClockTime(*in.BreakEnd, inAt)
	if !ok {
		return 0
	}
	if !end.After(start) {
		return 0
	}
	if start.Before(inAt) || end.After(outAt) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}

// resolveShift finds the assignment active on the date for the user and
// its template: shift_name+project match first, shift_name alone as
// fallback.
func resolveShift(userName string, date time.Time, assignments []schedule.Assignment, templates []schedule.Template) *schedule.ResolvedShift {
	for _, a := range assignments {
		if a.UserName != userName || !a.ActiveOn(date) {
			continue
		}
		resolved := schedule.ResolvedShift{Assignment: a}
		for i := range templates {
			if templates[i].ShiftName == a.ShiftName && templates[i].Project == a.Project {
				resolved.Template = &templates[i]
				break
			}
		}
		if resolved.Template == nil {
			for i := range templates {
				if templates[i].ShiftName == a.ShiftName {
					resolved.Template = &templates[i]
					break
				}
			}
		}
		return &resolved
	}
	return nil
}

func baselineStart(shift *schedule.ResolvedShift, date time.Time) time.Time {
	if shift != nil {
		return shift.StartTimeOn(date)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, date.Location())
}

// Summarize totals a set of reconciled entries. Days worked counts
// distinct calendar dates with at least one entry.
func Summarize(entries []timesheet.Entry) timesheet.WeeklySummary {
	var s timesheet.WeeklySummary
	days := map[string]struct{}{}
	for _, e := range entries {
		s.WorkedMinutes += e.WorkedMinutes
		s.BreakMinutes += e.BreakMinutes
		if e.Late {
			s.LateCount++
			s.LateMinutes += e.LateMinutes
		}
		days[e.Date.Format("2006-01-02")] = struct{}{}
	}
	s.DaysWorked = len(days)
	return s
}
