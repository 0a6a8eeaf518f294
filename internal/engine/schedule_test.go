package engine

import (
	"errors"
	"testing"
	"time"

	"habit_tracker_backend/internal/model"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func testHabit(t *testing.T, schedule, from string, until string) *model.Habit {
	t.Helper()
	h := &model.Habit{
		Schedule:   schedule,
		ActiveFrom: mustDate(t, from).Time(time.UTC),
	}
	h.ID = 1
	if until != "" {
		u := mustDate(t, until).Time(time.UTC)
		h.ActiveUntil = &u
	}
	return h
}

func TestParseWeekdaySet(t *testing.T) {
	set, err := ParseWeekdaySet([]string{"Mon", " wed", "FRI", "mon"})
	if err != nil {
		t.Fatalf("ParseWeekdaySet: %v", err)
	}
	if got := set.String(); got != "mon,wed,fri" {
		t.Errorf("set = %q, want mon,wed,fri", got)
	}
	if !set.Contains(time.Wednesday) || set.Contains(time.Tuesday) {
		t.Errorf("membership wrong for %v", set.Labels())
	}
}

func TestParseWeekdaySetInvalid(t *testing.T) {
	for _, labels := range [][]string{nil, {}, {"monday"}, {"mon", "xyz"}, {""}} {
		if _, err := ParseWeekdaySet(labels); !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("ParseWeekdaySet(%v) err = %v, want ErrInvalidSchedule", labels, err)
		}
	}
	if _, err := ParseScheduleString(" "); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("blank schedule string accepted")
	}
}

func TestIsDue(t *testing.T) {
	tests := []struct {
		name  string
		habit *model.Habit
		date  string
		want  bool
	}{
		{
			name:  "weekday in set inside window",
			habit: testHabit(t, "mon,wed,fri", "2024-01-01", ""),
			date:  "2024-01-03", // Wednesday
			want:  true,
		},
		{
			name:  "weekday not in set",
			habit: testHabit(t, "mon,wed,fri", "2024-01-01", ""),
			date:  "2024-01-02", // Tuesday
			want:  false,
		},
		{
			name:  "before activeFrom",
			habit: testHabit(t, "mon,wed,fri", "2024-01-01", ""),
			date:  "2023-12-29", // Friday
			want:  false,
		},
		{
			name:  "activeFrom itself is inclusive",
			habit: testHabit(t, "mon", "2024-01-01", ""),
			date:  "2024-01-01", // Monday
			want:  true,
		},
		{
			name:  "activeUntil itself is inclusive",
			habit: testHabit(t, "fri", "2024-01-01", "2024-01-05"),
			date:  "2024-01-05", // Friday
			want:  true,
		},
		{
			name:  "after activeUntil",
			habit: testHabit(t, "fri", "2024-01-01", "2024-01-05"),
			date:  "2024-01-12",
			want:  false,
		},
		{
			name:  "inverted window never due",
			habit: testHabit(t, "mon,tue,wed,thu,fri,sat,sun", "2024-06-01", "2024-01-01"),
			date:  "2024-03-01",
			want:  false,
		},
		{
			name:  "empty schedule never due",
			habit: testHabit(t, "", "2024-01-01", ""),
			date:  "2024-01-01",
			want:  false,
		},
		{
			name:  "malformed schedule never due",
			habit: testHabit(t, "mon,funday", "2024-01-01", ""),
			date:  "2024-01-01",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.habit, mustDate(t, tt.date)); got != tt.want {
				t.Errorf("IsDue(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}
