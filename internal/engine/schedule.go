package engine

import (
	"strings"
	"time"

	"habit_tracker_backend/internal/model"
)

// WeekdaySet is a validated set of weekdays, one bit per time.Weekday.
// It is the strongly-typed form of a habit's recurrence; the loose
// comma-joined label encoding on the habit row is parsed into one of these
// at the boundary and never interpreted ad hoc downstream.
type WeekdaySet uint8

var weekdayByLabel = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// labelOrder fixes mon..sun as the canonical serialization order.
var labelOrder = []struct {
	label string
	day   time.Weekday
}{
	{"mon", time.Monday},
	{"tue", time.Tuesday},
	{"wed", time.Wednesday},
	{"thu", time.Thursday},
	{"fri", time.Friday},
	{"sat", time.Saturday},
	{"sun", time.Sunday},
}

// ParseWeekdaySet validates a list of weekday labels. An empty list or an
// unknown label yields ErrInvalidSchedule; duplicates collapse silently.
func ParseWeekdaySet(labels []string) (WeekdaySet, error) {
	var set WeekdaySet
	for _, l := range labels {
		day, ok := weekdayByLabel[strings.ToLower(strings.TrimSpace(l))]
		if !ok {
			return 0, ErrInvalidSchedule
		}
		set |= 1 << uint(day)
	}
	if set == 0 {
		return 0, ErrInvalidSchedule
	}
	return set, nil
}

// ParseScheduleString parses the comma-joined label encoding stored on
// habit rows.
func ParseScheduleString(s string) (WeekdaySet, error) {
	if strings.TrimSpace(s) == "" {
		return 0, ErrInvalidSchedule
	}
	return ParseWeekdaySet(strings.Split(s, ","))
}

func (s WeekdaySet) Contains(day time.Weekday) bool {
	return s&(1<<uint(day)) != 0
}

func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

// Labels returns the set's weekday labels in mon..sun order.
func (s WeekdaySet) Labels() []string {
	out := make([]string, 0, 7)
	for _, e := range labelOrder {
		if s.Contains(e.day) {
			out = append(out, e.label)
		}
	}
	return out
}

func (s WeekdaySet) String() string {
	return strings.Join(s.Labels(), ",")
}

// IsDue reports whether the habit is scheduled on the given date: the date
// falls inside [ActiveFrom, ActiveUntil] and its weekday is in the set.
// A malformed or empty schedule yields false rather than an error, and an
// inverted lifecycle window is not repaired, it is simply never due.
func IsDue(h *model.Habit, date Date) bool {
	set, err := ParseScheduleString(h.Schedule)
	if err != nil {
		return false
	}
	return dueOn(set, h, date)
}

// dueOn is IsDue with the schedule already parsed, for callers walking many
// dates against one habit.
func dueOn(set WeekdaySet, h *model.Habit, date Date) bool {
	if date.Before(DateOf(h.ActiveFrom)) {
		return false
	}
	if h.ActiveUntil != nil && date.After(DateOf(*h.ActiveUntil)) {
		return false
	}
	return set.Contains(date.Weekday())
}
