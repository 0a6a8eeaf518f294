package engine

import (
	"errors"
	"testing"
	"time"
)

func TestLocalDay(t *testing.T) {
	tests := []struct {
		name     string
		instant  time.Time
		timezone string
		wantDate string
		wantDay  time.Weekday
	}{
		{
			name:     "utc identity",
			instant:  time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			timezone: "UTC",
			wantDate: "2024-06-15",
			wantDay:  time.Saturday,
		},
		{
			name:     "ahead of utc crosses midnight",
			instant:  time.Date(2024, 3, 10, 23, 55, 0, 0, time.UTC),
			timezone: "Pacific/Kiritimati",
			wantDate: "2024-03-11",
			wantDay:  time.Monday,
		},
		{
			name:     "behind utc still previous day",
			instant:  time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC),
			timezone: "America/New_York",
			wantDate: "2024-05-31",
			wantDay:  time.Friday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, day, err := LocalDay(tt.instant, tt.timezone)
			if err != nil {
				t.Fatalf("LocalDay: %v", err)
			}
			if got := date.String(); got != tt.wantDate {
				t.Errorf("date = %s, want %s", got, tt.wantDate)
			}
			if day != tt.wantDay {
				t.Errorf("weekday = %v, want %v", day, tt.wantDay)
			}
		})
	}
}

func TestLocalDayInvalidTimezone(t *testing.T) {
	for _, tz := range []string{"", "Mars/Olympus", "not a zone"} {
		if _, _, err := LocalDay(time.Now(), tz); !errors.Is(err, ErrInvalidTimezone) {
			t.Errorf("LocalDay(%q) err = %v, want ErrInvalidTimezone", tz, err)
		}
	}
}

func TestDayBounds(t *testing.T) {
	start, end, err := DayBounds(NewDate(2024, 6, 15), "America/New_York")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	if got := end.Sub(start); got != 24*time.Hour {
		t.Errorf("ordinary day span = %v, want 24h", got)
	}
	loc, _ := time.LoadLocation("America/New_York")
	if !start.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, loc)) {
		t.Errorf("start = %v, want local midnight", start)
	}
}

func TestDayBoundsDST(t *testing.T) {
	// 2024-03-10: clocks jump forward in US Eastern, the local day is 23h.
	start, end, err := DayBounds(NewDate(2024, 3, 10), "America/New_York")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	if got := end.Sub(start); got != 23*time.Hour {
		t.Errorf("spring-forward day span = %v, want 23h", got)
	}

	// 2024-11-03: clocks fall back, the local day is 25h.
	start, end, err = DayBounds(NewDate(2024, 11, 3), "America/New_York")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	if got := end.Sub(start); got != 25*time.Hour {
		t.Errorf("fall-back day span = %v, want 25h", got)
	}
}

func TestDayBoundsInvalidTimezone(t *testing.T) {
	if _, _, err := DayBounds(NewDate(2024, 1, 1), "Nowhere/Falls"); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("err = %v, want ErrInvalidTimezone", err)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, 2, 28)
	if got := d.AddDays(1).String(); got != "2024-02-29" {
		t.Errorf("leap day: got %s", got)
	}
	if got := d.AddDays(2).String(); got != "2024-03-01" {
		t.Errorf("month rollover: got %s", got)
	}
	if got := NewDate(2024, 1, 1).AddDays(-1).String(); got != "2023-12-31" {
		t.Errorf("year rollover: got %s", got)
	}
	if got := NewDate(2024, 1, 1).DaysUntil(NewDate(2024, 1, 8)); got != 7 {
		t.Errorf("DaysUntil = %d, want 7", got)
	}
}
