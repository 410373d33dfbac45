package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clock rows store a display time-of-day string next to the row timestamp.
// The string may be 12h ("09:05 AM"), 24h ("13:30"), or a full ISO
// timestamp depending on which workflow wrote the row, so parsing is
// best-effort with the row timestamp as the fallback.

var (
	twelveHourRegex     = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(AM|PM)$`)
	twentyFourHourRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
)

// ParseClockTime resolves a time-of-day string against the calendar date
// of its owning event. Full timestamps are honored as-is. Returns false
// when the string cannot be interpreted; callers fall back to the row's
// stored timestamp.
func ParseClockTime(s string, date time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Full timestamps carry their own date.
	if strings.Contains(s, "T") || strings.Contains(s, "-") {
		for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.ParseInLocation(layout, s, date.Location()); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	if m := twelveHourRegex.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		second := 0
		if m[3] != "" {
			second, _ = strconv.Atoi(m[3])
		}
		if hour < 1 || hour > 12 || minute > 59 || second > 59 {
			return time.Time{}, false
		}
		period := strings.ToUpper(m[4])
		if period == "PM" && hour != 12 {
			hour += 12
		}
		if period == "AM" && hour == 12 {
			hour = 0
		}
		return atTime(date, hour, minute, second), true
	}

	if m := twentyFourHourRegex.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		second := 0
		if m[3] != "" {
			second, _ = strconv.Atoi(m[3])
		}
		if hour > 23 || minute > 59 || second > 59 {
			return time.Time{}, false
		}
		return atTime(date, hour, minute, second), true
	}

	return time.Time{}, false
}

func atTime(date time.Time, hour, minute, second int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, second, 0, date.Location())
}

// Format12h renders a time as the zero-padded 12-hour display string
// used across clock rows and webhook payloads, e.g. "09:05 AM".
func Format12h(t time.Time) string {
	hour := t.Hour()
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, t.Minute(), period)
}

// To12h normalizes a template time string ("13:30", "9:00 am") to the
// canonical 12-hour display form. Unparseable input is returned as-is.
func To12h(s string) string {
	t, ok := ParseClockTime(s, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	if !ok {
		return s
	}
	return Format12h(t)
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate parses a "YYYY-MM-DD" date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// DatesInRange lists every calendar date in [start, end] inclusive.
func DatesInRange(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := DateOf(start); !d.After(DateOf(end)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// WeekEndingFriday returns the date of the Friday on or after d. Report
// weeks are keyed by this date.
func WeekEndingFriday(d time.Time) time.Time {
	delta := (int(time.Friday) - int(d.Weekday()) + 7) % 7
	return DateOf(d).AddDate(0, 0, delta)
}

// FormatElapsed renders a duration as HH:MM:SS for the live session
// display. Negative durations render as zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

var weekdayTokens = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// WeekdayToken returns the lowercase three-letter token for a weekday,
// matching the day lists stored on shift templates.
func WeekdayToken(w time.Weekday) string {
	return weekdayTokens[int(w)]
}
