package engine

import (
	"errors"
	"testing"
	"time"

	"habit_tracker_backend/internal/model"
)

// eventsOn builds one completion event per date, occurring at noon UTC.
func eventsOn(t *testing.T, habitID uint, dates ...string) []model.CompletionEvent {
	t.Helper()
	out := make([]model.CompletionEvent, 0, len(dates))
	for _, s := range dates {
		out = append(out, model.CompletionEvent{
			HabitID:    habitID,
			OccurredAt: mustDate(t, s).Time(time.UTC).Add(12 * time.Hour),
			LocalDate:  s,
		})
	}
	return out
}

func TestHabitStreaksUnbrokenRun(t *testing.T) {
	// Mon/Wed/Fri habit, every due day completed, asked on the following
	// Monday before any completion that day.
	habit := testHabit(t, "mon,wed,fri", "2024-01-01", "")
	events := eventsOn(t, habit.ID, "2024-01-01", "2024-01-03", "2024-01-05")
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	info, err := HabitStreaks(habit, events, "UTC", now)
	if err != nil {
		t.Fatalf("HabitStreaks: %v", err)
	}
	if info.Current != 3 || info.Longest != 3 {
		t.Errorf("got %+v, want current 3 longest 3", info)
	}
}

func TestHabitStreaksBrokenRun(t *testing.T) {
	// Same habit but Wednesday was missed: the walk from Friday backward
	// stops there.
	habit := testHabit(t, "mon,wed,fri", "2024-01-01", "")
	events := eventsOn(t, habit.ID, "2024-01-01", "2024-01-05")
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	info, err := HabitStreaks(habit, events, "UTC", now)
	if err != nil {
		t.Fatalf("HabitStreaks: %v", err)
	}
	if info.Current != 1 || info.Longest != 1 {
		t.Errorf("got %+v, want current 1 longest 1", info)
	}
}

func TestHabitStreaksHistoricRunExceedsCurrent(t *testing.T) {
	// A three-day run in the past, then a miss, then a fresh one-day run.
	habit := testHabit(t, "mon,wed,fri", "2024-01-01", "")
	events := eventsOn(t, habit.ID, "2024-01-01", "2024-01-03", "2024-01-05", "2024-01-10")
	now := time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)

	info, err := HabitStreaks(habit, events, "UTC", now)
	if err != nil {
		t.Fatalf("HabitStreaks: %v", err)
	}
	if info.Current != 1 {
		t.Errorf("current = %d, want 1", info.Current)
	}
	if info.Longest != 3 {
		t.Errorf("longest = %d, want 3", info.Longest)
	}
	if info.Current > info.Longest {
		t.Errorf("current %d exceeds longest %d", info.Current, info.Longest)
	}
}

func TestHabitStreaksTodayWindowStillOpen(t *testing.T) {
	// Today is due and not yet completed; the streak survives until the day
	// actually closes.
	habit := testHabit(t, "mon,tue,wed,thu,fri,sat,sun", "2024-01-01", "")
	events := eventsOn(t, habit.ID, "2024-01-01", "2024-01-02")
	now := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)

	info, err := HabitStreaks(habit, events, "UTC", now)
	if err != nil {
		t.Fatalf("HabitStreaks: %v", err)
	}
	if info.Current != 2 {
		t.Errorf("current = %d, want 2 (open today must not break the walk)", info.Current)
	}
}

func TestHabitStreaksNoCompletionsKeepsHighWaterMark(t *testing.T) {
	habit := testHabit(t, "mon,wed,fri", "2024-01-01", "")
	habit.LongestStreak = 7

	info, err := HabitStreaks(habit, nil, "UTC", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("HabitStreaks: %v", err)
	}
	if info.Current != 0 || info.Longest != 7 {
		t.Errorf("got %+v, want current 0 longest 7", info)
	}
}

func TestHabitStreaksNeverLowersLongest(t *testing.T) {
	// The cached longest stays even when the surviving events only support a
	// shorter run.
	habit := testHabit(t, "mon,wed,fri", "2024-01-01", "")
	habit.LongestStreak = 5
	events := eventsOn(t, habit.ID, "2024-01-01", "2024-01-03")
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	info, err := HabitStreaks(habit, events, "UTC", now)
	if err != nil {
		t.Fatalf("HabitStreaks: %v", err)
	}
	if info.Longest != 5 {
		t.Errorf("longest = %d, want cached high-water mark 5", info.Longest)
	}
}

func TestHabitStreaksLocalizesEvents(t *testing.T) {
	// An event a few hours past UTC midnight still belongs to the previous
	// local day in a western zone.
	habit := testHabit(t, "mon,tue,wed,thu,fri,sat,sun", "2024-01-01", "")
	events := []model.CompletionEvent{{
		HabitID:    habit.ID,
		OccurredAt: time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC),
	}}
	// 2024-01-02T02:00Z is still Jan 1 evening in New York.
	now := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC)

	info, err := HabitStreaks(habit, events, "America/New_York", now)
	if err != nil {
		t.Fatalf("HabitStreaks: %v", err)
	}
	if info.Current != 1 {
		t.Errorf("current = %d, want 1 (event should land on Jan 1 local)", info.Current)
	}
}

func TestHabitStreaksInvalidTimezone(t *testing.T) {
	habit := testHabit(t, "mon", "2024-01-01", "")
	if _, err := HabitStreaks(habit, nil, "Atlantis/Central", time.Now()); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("err = %v, want ErrInvalidTimezone", err)
	}
}

func TestHabitStreaksDeterministic(t *testing.T) {
	habit := testHabit(t, "mon,wed,fri", "2024-01-01", "")
	events := eventsOn(t, habit.ID, "2024-01-05", "2024-01-01", "2024-01-03")
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	first, err := HabitStreaks(habit, events, "UTC", now)
	if err != nil {
		t.Fatalf("HabitStreaks: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := HabitStreaks(habit, events, "UTC", now)
		if err != nil {
			t.Fatalf("HabitStreaks: %v", err)
		}
		if again != first {
			t.Fatalf("run %d: got %+v, want %+v", i, again, first)
		}
	}
}
