package timeutil

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseClockTime(t *testing.T) {
	base := date(2025, time.October, 16)

	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"09:05 AM", "2025-10-16T09:05:00Z", true},
		{"12:00 AM", "2025-10-16T00:00:00Z", true},
		{"12:30 PM", "2025-10-16T12:30:00Z", true},
		{"01:00 pm", "2025-10-16T13:00:00Z", true},
		{"13:30", "2025-10-16T13:30:00Z", true},
		{"23:59:30", "2025-10-16T23:59:30Z", true},
		{"2025-10-16T08:00:00Z", "2025-10-16T08:00:00Z", true},
		{"2025-10-16 08:00:00", "2025-10-16T08:00:00Z", true},
		{"25:00", "", false},
		{"13:00 PM", "", false},
		{"", "", false},
		{"garbage", "", false},
	}
	for _, c := range cases {
		got, ok := ParseClockTime(c.input, base)
		if ok != c.ok {
			t.Errorf("ParseClockTime(%q) ok = %v, want %v", c.input, ok, c.ok)
			continue
		}
		if ok && got.Format(time.RFC3339) != c.want {
			t.Errorf("ParseClockTime(%q) = %s, want %s", c.input, got.Format(time.RFC3339), c.want)
		}
	}
}

func TestParseClockTimeNoSpaceAmPm(t *testing.T) {
	// "9:05am" style appears in some template rows.
	got, ok := ParseClockTime("9:05am", date(2025, time.October, 16))
	if !ok {
		t.Fatal("compact am/pm form not accepted")
	}
	if got.Hour() != 9 || got.Minute() != 5 {
		t.Errorf("got %v", got)
	}
}

func TestFormat12h(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         string
	}{
		{0, 5, "12:05 AM"},
		{9, 5, "09:05 AM"},
		{12, 0, "12:00 PM"},
		{18, 0, "06:00 PM"},
		{23, 59, "11:59 PM"},
	}
	for _, c := range cases {
		got := Format12h(time.Date(2025, 1, 1, c.hour, c.minute, 0, 0, time.UTC))
		if got != c.want {
			t.Errorf("Format12h(%02d:%02d) = %q, want %q", c.hour, c.minute, got, c.want)
		}
	}
}

func TestTo12h(t *testing.T) {
	if got := To12h("13:30"); got != "01:30 PM" {
		t.Errorf("To12h(13:30) = %q", got)
	}
	if got := To12h("not a time"); got != "not a time" {
		t.Errorf("To12h should pass through unparseable input, got %q", got)
	}
}

func TestWeekEndingFriday(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2025, time.October, 13), date(2025, time.October, 17)}, // Monday
		{date(2025, time.October, 17), date(2025, time.October, 17)}, // Friday itself
		{date(2025, time.October, 18), date(2025, time.October, 24)}, // Saturday rolls forward
		{date(2025, time.October, 19), date(2025, time.October, 24)}, // Sunday
	}
	for _, c := range cases {
		if got := WeekEndingFriday(c.in); !got.Equal(c.want) {
			t.Errorf("WeekEndingFriday(%s) = %s, want %s", c.in.Format("2006-01-02"), got.Format("2006-01-02"), c.want.Format("2006-01-02"))
		}
	}
}

func TestDatesInRange(t *testing.T) {
	got := DatesInRange(date(2025, time.October, 30), date(2025, time.November, 2))
	if len(got) != 4 {
		t.Fatalf("expected 4 dates, got %d", len(got))
	}
	if !got[0].Equal(date(2025, time.October, 30)) || !got[3].Equal(date(2025, time.November, 2)) {
		t.Errorf("unexpected bounds: %v .. %v", got[0], got[3])
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Minute, "00:00:00"},
		{time.Second * 59, "00:00:59"},
		{time.Hour*8 + time.Minute*3 + time.Second*7, "08:03:07"},
		{time.Hour * 100, "100:00:00"},
	}
	for _, c := range cases {
		if got := FormatElapsed(c.d); got != c.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestWeekdayToken(t *testing.T) {
	if WeekdayToken(time.Sunday) != "sun" || WeekdayToken(time.Friday) != "fri" {
		t.Error("weekday token mapping broken")
	}
}
