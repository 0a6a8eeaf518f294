package repository

import (
	"habit_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type HabitRepository struct {
	DB *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{DB: db}
}

func (r *HabitRepository) Create(habit *model.Habit) error {
	return r.DB.Create(habit).Error
}

func (r *HabitRepository) FindByID(id uint) (*model.Habit, error) {
	var habit model.Habit
	err := r.DB.First(&habit, id).Error
	return &habit, err
}

// FindByUser returns all of a user's habits, including ones whose lifecycle
// window has already closed; schedule matching decides per-date relevance.
func (r *HabitRepository) FindByUser(userID uint) ([]model.Habit, error) {
	var habits []model.Habit
	err := r.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&habits).Error
	return habits, err
}

func (r *HabitRepository) Update(habit *model.Habit) error {
	return r.DB.Save(habit).Error
}

// Delete removes a habit and cascades to its completion events inside one
// transaction, so the event log never holds orphans.
func (r *HabitRepository) Delete(habit *model.Habit) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("habit_id = ?", habit.ID).
			Delete(&model.CompletionEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(habit).Error
	})
}
