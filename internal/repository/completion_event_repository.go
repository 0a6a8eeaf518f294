package repository

import (
	"time"

	"habit_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type CompletionEventRepository struct {
	DB *gorm.DB
}

func NewCompletionEventRepository(db *gorm.DB) *CompletionEventRepository {
	return &CompletionEventRepository{DB: db}
}

func (r *CompletionEventRepository) Create(event *model.CompletionEvent) error {
	return r.DB.Create(event).Error
}

func (r *CompletionEventRepository) FindByUser(userID uint) ([]model.CompletionEvent, error) {
	var events []model.CompletionEvent
	err := r.DB.Where("user_id = ?", userID).Order("occurred_at ASC").Find(&events).Error
	return events, err
}

func (r *CompletionEventRepository) FindByHabit(habitID uint) ([]model.CompletionEvent, error) {
	var events []model.CompletionEvent
	err := r.DB.Where("habit_id = ?", habitID).Order("occurred_at ASC").Find(&events).Error
	return events, err
}

// FindByHabitAndLocalDate looks up the at-most-one event for a habit on a
// local calendar day.
func (r *CompletionEventRepository) FindByHabitAndLocalDate(habitID uint, localDate string) (*model.CompletionEvent, error) {
	var event model.CompletionEvent
	err := r.DB.Where("habit_id = ? AND local_date = ?", habitID, localDate).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByUserAndRange returns a user's events with occurred_at in [start, end).
func (r *CompletionEventRepository) FindByUserAndRange(userID uint, start, end time.Time) ([]model.CompletionEvent, error) {
	var events []model.CompletionEvent
	err := r.DB.Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, start, end).
		Order("occurred_at ASC").Find(&events).Error
	return events, err
}

// Delete removes the event for good. Hard delete on purpose: a soft-deleted
// row would keep occupying the unique (habit_id, local_date) index and block
// re-toggling the same day.
func (r *CompletionEventRepository) Delete(event *model.CompletionEvent) error {
	return r.DB.Unscoped().Delete(event).Error
}
