package model

import (
	"time"
)

// CompletionEvent is the immutable fact that a habit was marked done at a
// specific instant. LocalDate is the calendar day of OccurredAt in the
// timezone the toggle request carried; the unique index on
// (habit_id, local_date) enforces at most one event per habit per local day.
// Rows are never updated, only inserted by a toggle and deleted by an
// untoggle or a cascading habit delete.
// swagger:model CompletionEvent
type CompletionEvent struct {
	UUIDBase
	HabitID    uint      `gorm:"index:idx_habit_local_date,unique;not null" json:"habitId"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurredAt"`
	LocalDate  string    `gorm:"size:10;index:idx_habit_local_date,unique;not null" json:"localDate"`
	Note       string    `gorm:"size:255" json:"note,omitempty"`
}

func (CompletionEvent) TableName() string {
	return "completion_events"
}
