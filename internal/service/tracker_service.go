package service

import (
	"errors"
	"time"

	"habit_tracker_backend/internal/engine"
	"habit_tracker_backend/internal/model"
	"habit_tracker_backend/internal/repository"
	"habit_tracker_backend/internal/util"

	"gorm.io/gorm"
)

// ToggleResult reports whether the toggle inserted a completion (true) or
// removed an existing same-day one (false), plus the habit with its
// refreshed analytics.
type ToggleResult struct {
	Inserted bool
	Habit    *model.Habit
}

// TrackerService owns the completion-toggle workflow. The toggle is the only
// writer of a habit's cached analytics, and it refreshes them in the same
// transaction that mutates the event log, so the cache can lag the log only
// if the whole transaction rolls back.
type TrackerService struct {
	HabitRepo *repository.HabitRepository
	EventRepo *repository.CompletionEventRepository
	Progress  *ProgressService
	DB        *gorm.DB
}

func NewTrackerService(habitRepo *repository.HabitRepository, eventRepo *repository.CompletionEventRepository, progress *ProgressService, db *gorm.DB) *TrackerService {
	return &TrackerService{
		HabitRepo: habitRepo,
		EventRepo: eventRepo,
		Progress:  progress,
		DB:        db,
	}
}

// Toggle localizes occurredAt, then either records a completion for that
// local day or removes the one already there. Delete-before-insert against
// the unique (habit_id, local_date) index keeps concurrent toggles for the
// same habit and day single-writer.
func (s *TrackerService) Toggle(userID, habitID uint, occurredAt time.Time, timezone, note string) (*ToggleResult, error) {
	habit, err := s.HabitRepo.FindByID(habitID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	localDate, _, err := engine.LocalDay(occurredAt, timezone)
	if err != nil {
		return nil, err
	}

	result := &ToggleResult{Habit: habit}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.CompletionEvent
		err := tx.Where("habit_id = ? AND local_date = ?", habitID, localDate.String()).First(&existing).Error
		switch {
		case err == nil:
			// Hard delete so the unique index frees the day for re-toggling.
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
			result.Inserted = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			event := &model.CompletionEvent{
				HabitID:    habitID,
				UserID:     userID,
				OccurredAt: occurredAt.UTC(),
				LocalDate:  localDate.String(),
				Note:       note,
			}
			if err := tx.Create(event).Error; err != nil {
				return err
			}
			result.Inserted = true
		default:
			return err
		}

		return s.refreshAnalytics(tx, habit, timezone)
	})
	if err != nil {
		return nil, err
	}

	s.Progress.Invalidate(userID)
	return result, nil
}

// refreshAnalytics recomputes the habit's cached streaks and totals from the
// event log as it stands inside the transaction.
func (s *TrackerService) refreshAnalytics(tx *gorm.DB, habit *model.Habit, timezone string) error {
	var events []model.CompletionEvent
	if err := tx.Where("habit_id = ?", habit.ID).Order("occurred_at ASC").Find(&events).Error; err != nil {
		return err
	}

	info, err := engine.HabitStreaks(habit, events, timezone, time.Now())
	if err != nil {
		return err
	}

	habit.CurrentStreak = info.Current
	habit.LongestStreak = info.Longest
	habit.TotalCompletions = len(events)
	habit.LastCompletedAt = nil
	if len(events) > 0 {
		last := events[len(events)-1].OccurredAt
		habit.LastCompletedAt = &last
	}

	return tx.Model(habit).Select("current_streak", "longest_streak", "total_completions", "last_completed_at").
		Updates(map[string]interface{}{
			"current_streak":    habit.CurrentStreak,
			"longest_streak":    habit.LongestStreak,
			"total_completions": habit.TotalCompletions,
			"last_completed_at": habit.LastCompletedAt,
		}).Error
}
