package service

import (
	"errors"
	"testing"
	"time"

	"habit_tracker_backend/internal/config"
	"habit_tracker_backend/internal/model"
	"habit_tracker_backend/internal/repository"
	"habit_tracker_backend/internal/util"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTrackerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Habit{}, &model.CompletionEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestTracker(t *testing.T, db *gorm.DB) *TrackerService {
	t.Helper()
	habitRepo := repository.NewHabitRepository(db)
	eventRepo := repository.NewCompletionEventRepository(db)
	progress := NewProgressService(habitRepo, eventRepo, nil, &config.Config{})
	return NewTrackerService(habitRepo, eventRepo, progress, db)
}

func seedHabit(t *testing.T, db *gorm.DB, userID uint) *model.Habit {
	t.Helper()
	habit := &model.Habit{
		UserID:     userID,
		Name:       "morning stretch",
		Schedule:   "mon,tue,wed,thu,fri,sat,sun",
		ActiveFrom: time.Now().UTC().AddDate(0, 0, -30),
	}
	if err := db.Create(habit).Error; err != nil {
		t.Fatalf("create habit: %v", err)
	}
	return habit
}

func countEvents(t *testing.T, db *gorm.DB, habitID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.CompletionEvent{}).Where("habit_id = ?", habitID).Count(&n).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	return n
}

func TestToggleRoundTrip(t *testing.T) {
	// Toggling the same habit and local day twice must restore the event set
	// and the cached analytics to their pre-toggle state.
	db := newTrackerTestDB(t)
	svc := newTestTracker(t, db)
	habit := seedHabit(t, db, 1)
	occurred := time.Now().UTC()

	first, err := svc.Toggle(1, habit.ID, occurred, "UTC", "")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Inserted {
		t.Fatalf("first toggle should insert")
	}
	if first.Habit.TotalCompletions != 1 || first.Habit.CurrentStreak != 1 {
		t.Errorf("after insert: completions %d streak %d, want 1 and 1",
			first.Habit.TotalCompletions, first.Habit.CurrentStreak)
	}
	if got := countEvents(t, db, habit.ID); got != 1 {
		t.Fatalf("event count after insert = %d, want 1", got)
	}

	second, err := svc.Toggle(1, habit.ID, occurred, "UTC", "")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Inserted {
		t.Fatalf("second toggle should remove")
	}
	if got := countEvents(t, db, habit.ID); got != 0 {
		t.Fatalf("event count after remove = %d, want 0", got)
	}
	if second.Habit.TotalCompletions != 0 || second.Habit.CurrentStreak != 0 {
		t.Errorf("after remove: completions %d streak %d, want 0 and 0",
			second.Habit.TotalCompletions, second.Habit.CurrentStreak)
	}
	if second.Habit.LongestStreak != 1 {
		t.Errorf("longest = %d, want high-water mark 1 to survive removal", second.Habit.LongestStreak)
	}
	if second.Habit.LastCompletedAt != nil {
		t.Errorf("lastCompletedAt should reset to nil, got %v", second.Habit.LastCompletedAt)
	}

	var stored model.Habit
	if err := db.First(&stored, habit.ID).Error; err != nil {
		t.Fatalf("reload habit: %v", err)
	}
	if stored.TotalCompletions != 0 || stored.CurrentStreak != 0 || stored.LongestStreak != 1 {
		t.Errorf("stored analytics = %d/%d/%d, want 0/0/1",
			stored.TotalCompletions, stored.CurrentStreak, stored.LongestStreak)
	}
}

func TestToggleReinsertsAfterRemoval(t *testing.T) {
	// The untoggle hard-deletes its row, so a third toggle on the same day
	// must pass the unique (habit_id, local_date) index again.
	db := newTrackerTestDB(t)
	svc := newTestTracker(t, db)
	habit := seedHabit(t, db, 1)
	occurred := time.Now().UTC()

	for i, wantInserted := range []bool{true, false, true} {
		result, err := svc.Toggle(1, habit.ID, occurred, "UTC", "")
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if result.Inserted != wantInserted {
			t.Fatalf("toggle %d inserted = %v, want %v", i, result.Inserted, wantInserted)
		}
	}
	if got := countEvents(t, db, habit.ID); got != 1 {
		t.Errorf("event count = %d, want 1", got)
	}
}

func TestToggleKeysOnLocalDay(t *testing.T) {
	// Two different instants on the same local calendar day address the same
	// completion: the second one removes what the first recorded.
	db := newTrackerTestDB(t)
	svc := newTestTracker(t, db)
	habit := seedHabit(t, db, 1)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	morning := today.Add(9 * time.Hour)
	evening := today.Add(21 * time.Hour)

	first, err := svc.Toggle(1, habit.ID, morning, "UTC", "")
	if err != nil {
		t.Fatalf("morning toggle: %v", err)
	}
	if !first.Inserted {
		t.Fatalf("morning toggle should insert")
	}

	second, err := svc.Toggle(1, habit.ID, evening, "UTC", "")
	if err != nil {
		t.Fatalf("evening toggle: %v", err)
	}
	if second.Inserted {
		t.Errorf("evening toggle should remove the morning completion")
	}
	if got := countEvents(t, db, habit.ID); got != 0 {
		t.Errorf("event count = %d, want 0", got)
	}
}

func TestToggleRejectsForeignAndMissingHabits(t *testing.T) {
	db := newTrackerTestDB(t)
	svc := newTestTracker(t, db)
	habit := seedHabit(t, db, 1)

	if _, err := svc.Toggle(2, habit.ID, time.Now(), "UTC", ""); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("foreign user err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.Toggle(1, habit.ID+99, time.Now(), "UTC", ""); !errors.Is(err, util.ErrHabitNotFound) {
		t.Errorf("missing habit err = %v, want ErrHabitNotFound", err)
	}
	if got := countEvents(t, db, habit.ID); got != 0 {
		t.Errorf("rejected toggles must not write events, count = %d", got)
	}
}
