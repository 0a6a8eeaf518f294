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

// HabitInput carries a validated create/update payload. Schedule arrives as
// weekday labels and is rejected here, at the boundary, before anything
// downstream can see a malformed encoding.
type HabitInput struct {
	Name        string
	Icon        string
	Schedule    []string
	ActiveFrom  string
	ActiveUntil string
}

// HabitDayView is one habit enriched for a specific calendar date.
// swagger:model HabitDayView
type HabitDayView struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	Icon             string     `json:"icon"`
	Schedule         []string   `json:"schedule"`
	Completed        bool       `json:"completed"`
	Streak           int        `json:"streak"`
	LongestStreak    int        `json:"longestStreak"`
	TotalCompletions int        `json:"totalCompletions"`
	LastCompletedAt  *time.Time `json:"lastCompletedAt,omitempty"`
}

type HabitService struct {
	HabitRepo *repository.HabitRepository
	EventRepo *repository.CompletionEventRepository
	Progress  *ProgressService
}

func NewHabitService(habitRepo *repository.HabitRepository, eventRepo *repository.CompletionEventRepository, progress *ProgressService) *HabitService {
	return &HabitService{
		HabitRepo: habitRepo,
		EventRepo: eventRepo,
		Progress:  progress,
	}
}

func (s *HabitService) CreateHabit(userID uint, input HabitInput) (*model.Habit, error) {
	habit, err := s.habitFromInput(input)
	if err != nil {
		return nil, err
	}
	habit.UserID = userID

	if err := s.HabitRepo.Create(habit); err != nil {
		return nil, err
	}
	s.Progress.Invalidate(userID)
	return habit, nil
}

func (s *HabitService) UpdateHabit(userID, habitID uint, input HabitInput) (*model.Habit, error) {
	existing, err := s.ownedHabit(userID, habitID)
	if err != nil {
		return nil, err
	}

	updated, err := s.habitFromInput(input)
	if err != nil {
		return nil, err
	}

	existing.Name = updated.Name
	existing.Icon = updated.Icon
	existing.Schedule = updated.Schedule
	existing.ActiveFrom = updated.ActiveFrom
	existing.ActiveUntil = updated.ActiveUntil

	if err := s.HabitRepo.Update(existing); err != nil {
		return nil, err
	}
	s.Progress.Invalidate(userID)
	return existing, nil
}

func (s *HabitService) DeleteHabit(userID, habitID uint) error {
	habit, err := s.ownedHabit(userID, habitID)
	if err != nil {
		return err
	}
	if err := s.HabitRepo.Delete(habit); err != nil {
		return err
	}
	s.Progress.Invalidate(userID)
	return nil
}

// ListForDate returns the user's habits due on the given local date, each
// with its completion state for that date and the cached analytics.
func (s *HabitService) ListForDate(userID uint, date engine.Date, timezone string) ([]HabitDayView, error) {
	if _, _, err := engine.LocalDay(time.Now(), timezone); err != nil {
		return nil, err
	}

	habits, err := s.HabitRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	out := make([]HabitDayView, 0, len(habits))
	for i := range habits {
		h := &habits[i]
		if !engine.IsDue(h, date) {
			continue
		}

		completed := false
		if _, err := s.EventRepo.FindByHabitAndLocalDate(h.ID, date.String()); err == nil {
			completed = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		set, err := engine.ParseScheduleString(h.Schedule)
		if err != nil {
			// IsDue already filtered malformed schedules out.
			continue
		}

		out = append(out, HabitDayView{
			ID:               h.ID,
			Name:             h.Name,
			Icon:             h.Icon,
			Schedule:         set.Labels(),
			Completed:        completed,
			Streak:           h.CurrentStreak,
			LongestStreak:    h.LongestStreak,
			TotalCompletions: h.TotalCompletions,
			LastCompletedAt:  h.LastCompletedAt,
		})
	}
	return out, nil
}

func (s *HabitService) ownedHabit(userID, habitID uint) (*model.Habit, error) {
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
	return habit, nil
}

func (s *HabitService) habitFromInput(input HabitInput) (*model.Habit, error) {
	set, err := engine.ParseWeekdaySet(input.Schedule)
	if err != nil {
		return nil, err
	}

	from, err := engine.ParseDate(input.ActiveFrom)
	if err != nil {
		return nil, err
	}

	habit := &model.Habit{
		Name:       input.Name,
		Icon:       input.Icon,
		Schedule:   set.String(),
		ActiveFrom: from.Time(time.UTC),
	}
	if input.ActiveUntil != "" {
		until, err := engine.ParseDate(input.ActiveUntil)
		if err != nil {
			return nil, err
		}
		u := until.Time(time.UTC)
		habit.ActiveUntil = &u
	}
	return habit, nil
}
