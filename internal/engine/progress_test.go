package engine

import (
	"errors"
	"testing"
	"time"

	"habit_tracker_backend/internal/model"
)

// spanEvents builds one event per day over [from, to] inclusive.
func spanEvents(t *testing.T, habitID uint, from, to string) []model.CompletionEvent {
	t.Helper()
	start, end := mustDate(t, from), mustDate(t, to)
	var out []model.CompletionEvent
	for d := start; !d.After(end); d = d.AddDays(1) {
		out = append(out, model.CompletionEvent{
			HabitID:    habitID,
			OccurredAt: d.Time(time.UTC).Add(12 * time.Hour),
			LocalDate:  d.String(),
		})
	}
	return out
}

func TestHistoryInvalidRange(t *testing.T) {
	_, err := History(nil, nil, "UTC", mustDate(t, "2024-02-01"), mustDate(t, "2024-01-01"))
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestHistoryInvalidTimezone(t *testing.T) {
	_, err := History(nil, nil, "Narnia/Lamppost", mustDate(t, "2024-01-01"), mustDate(t, "2024-01-02"))
	if !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("err = %v, want ErrInvalidTimezone", err)
	}
}

func TestHistoryRates(t *testing.T) {
	daily := testHabit(t, "mon,tue,wed,thu,fri,sat,sun", "2024-01-01", "")
	daily.ID = 1
	weekday := testHabit(t, "mon,wed,fri", "2024-01-01", "")
	weekday.ID = 2
	habits := []model.Habit{*daily, *weekday}

	events := append(eventsOn(t, 1, "2024-01-01", "2024-01-02"), eventsOn(t, 2, "2024-01-01")...)

	series, err := History(habits, events, "UTC", mustDate(t, "2024-01-01"), mustDate(t, "2024-01-03"))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("len = %d, want 3", len(series))
	}

	want := []DailyProgress{
		{DateLabel: "2024-01-01", ScheduledCount: 2, CompletedCount: 2, CompletionRate: 100},
		{DateLabel: "2024-01-02", ScheduledCount: 1, CompletedCount: 1, CompletionRate: 100},
		{DateLabel: "2024-01-03", ScheduledCount: 2, CompletedCount: 0, CompletionRate: 0},
	}
	for i, w := range want {
		got := series[i]
		if got.DateLabel != w.DateLabel || got.ScheduledCount != w.ScheduledCount ||
			got.CompletedCount != w.CompletedCount || got.CompletionRate != w.CompletionRate {
			t.Errorf("day %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestHistoryZeroScheduledDay(t *testing.T) {
	habit := testHabit(t, "mon", "2024-01-01", "")
	series, err := History([]model.Habit{*habit}, nil, "UTC", mustDate(t, "2024-01-02"), mustDate(t, "2024-01-02"))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	got := series[0]
	if got.ScheduledCount != 0 || got.CompletionRate != 100 {
		t.Errorf("rest day = %+v, want scheduled 0 rate 100", got)
	}
}

func TestPerfectDayStreaksSkipsEmptyDays(t *testing.T) {
	// Only Mondays are scheduled; the six empty days between two perfect
	// Mondays neither break nor inflate the run.
	habit := testHabit(t, "mon", "2024-01-01", "")
	events := eventsOn(t, habit.ID, "2024-01-01", "2024-01-08")
	now := time.Date(2024, 1, 8, 20, 0, 0, 0, time.UTC)

	info, err := PerfectDayStreaks([]model.Habit{*habit}, events, "UTC", now)
	if err != nil {
		t.Fatalf("PerfectDayStreaks: %v", err)
	}
	if info.Current != 2 || info.Longest != 2 {
		t.Errorf("got %+v, want current 2 longest 2", info)
	}
}

func TestPerfectDayStreaksBrokenByPartialDay(t *testing.T) {
	daily := testHabit(t, "mon,tue,wed,thu,fri,sat,sun", "2024-01-01", "")
	daily.ID = 1
	weekday := testHabit(t, "mon,wed,fri", "2024-01-01", "")
	weekday.ID = 2
	habits := []model.Habit{*daily, *weekday}

	// Jan 3 (Wed) both are due but only the daily habit was completed.
	events := append(spanEvents(t, 1, "2024-01-01", "2024-01-05"), eventsOn(t, 2, "2024-01-01", "2024-01-05")...)
	now := time.Date(2024, 1, 5, 22, 0, 0, 0, time.UTC)

	info, err := PerfectDayStreaks(habits, events, "UTC", now)
	if err != nil {
		t.Fatalf("PerfectDayStreaks: %v", err)
	}
	if info.Current != 2 {
		t.Errorf("current = %d, want 2 (Jan 4 and 5)", info.Current)
	}
	if info.Longest != 2 {
		t.Errorf("longest = %d, want 2", info.Longest)
	}
}

func TestPerfectDayStreaksTodayWindowStillOpen(t *testing.T) {
	habit := testHabit(t, "mon,tue,wed,thu,fri,sat,sun", "2024-01-01", "")
	events := spanEvents(t, habit.ID, "2024-01-01", "2024-01-03")
	now := time.Date(2024, 1, 4, 8, 0, 0, 0, time.UTC)

	info, err := PerfectDayStreaks([]model.Habit{*habit}, events, "UTC", now)
	if err != nil {
		t.Fatalf("PerfectDayStreaks: %v", err)
	}
	if info.Current != 3 {
		t.Errorf("current = %d, want 3 (incomplete today is not a break)", info.Current)
	}
}

func TestPerfectDayStreaksIgnoreDisplayRange(t *testing.T) {
	// A user whose streak began May 20 queries history from June 1: the
	// returned series is trimmed but the streak still reports the full run.
	habit := testHabit(t, "mon,tue,wed,thu,fri,sat,sun", "2024-01-01", "")
	events := spanEvents(t, habit.ID, "2024-05-20", "2024-06-10")
	now := time.Date(2024, 6, 10, 21, 0, 0, 0, time.UTC)

	series, err := History([]model.Habit{*habit}, events, "UTC", mustDate(t, "2024-06-01"), mustDate(t, "2024-06-10"))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(series) != 10 {
		t.Fatalf("series len = %d, want 10", len(series))
	}

	info, err := PerfectDayStreaks([]model.Habit{*habit}, events, "UTC", now)
	if err != nil {
		t.Fatalf("PerfectDayStreaks: %v", err)
	}
	if want := 22; info.Current != want {
		t.Errorf("current = %d, want %d (May 20 through June 10)", info.Current, want)
	}
}

func TestPerfectDayStreaksInvalidTimezone(t *testing.T) {
	if _, err := PerfectDayStreaks(nil, nil, "Moon/Tranquility", time.Now()); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("err = %v, want ErrInvalidTimezone", err)
	}
}
