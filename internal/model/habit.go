package model

import (
	"time"
)

// Habit is a recurring commitment owned by a single user. Schedule holds the
// ordered comma-joined weekday labels (e.g. "mon,wed,fri") exactly as
// validated at the API boundary.
//
// CurrentStreak, LongestStreak, TotalCompletions and LastCompletedAt are a
// write-through cache refreshed by the tracker toggle workflow; the
// completion_events table stays the source of truth.
// swagger:model Habit
type Habit struct {
	BaseModel
	UserID           uint       `gorm:"index;not null" json:"userId"`
	Name             string     `gorm:"size:100;not null" json:"name"`
	Icon             string     `gorm:"size:50" json:"icon"`
	Schedule         string     `gorm:"size:64;not null" json:"schedule"`
	ActiveFrom       time.Time  `gorm:"type:date;not null" json:"activeFrom"`
	ActiveUntil      *time.Time `gorm:"type:date" json:"activeUntil,omitempty"`
	CurrentStreak    int        `gorm:"default:0" json:"currentStreak"`
	LongestStreak    int        `gorm:"default:0" json:"longestStreak"`
	TotalCompletions int        `gorm:"default:0" json:"totalCompletions"`
	LastCompletedAt  *time.Time `json:"lastCompletedAt,omitempty"`
}

func (Habit) TableName() string {
	return "habits"
}
