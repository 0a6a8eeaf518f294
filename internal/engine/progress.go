package engine

import (
	"time"

	"habit_tracker_backend/internal/model"
)

// perfectDayLookbackDays fixes the scan window for perfect-day streaks.
// Display filters trim what History returns, never what a streak means, so
// the streak functions always look back this far from today no matter what
// range a caller asked to see.
const perfectDayLookbackDays = 365

// DailyProgress is one user-level day in the completion-rate series.
//
// CompletionRate is 100 on a day with nothing scheduled: nothing could fail,
// and charts should not dip on rest days. Such days still carry
// ScheduledCount 0 so streak logic can tell them apart.
type DailyProgress struct {
	Date           Date    `json:"-"`
	DateLabel      string  `json:"date"`
	ScheduledCount int     `json:"scheduledCount"`
	CompletedCount int     `json:"completedCount"`
	CompletionRate float64 `json:"completionRate"`
}

// scheduled pairs a habit with its schedule parsed once, for scans that
// visit many dates. Habits with a malformed schedule are dropped, matching
// IsDue's never-due behavior.
type scheduled struct {
	habit *model.Habit
	set   WeekdaySet
}

func parseSchedules(habits []model.Habit) []scheduled {
	out := make([]scheduled, 0, len(habits))
	for i := range habits {
		set, err := ParseScheduleString(habits[i].Schedule)
		if err != nil {
			continue
		}
		out = append(out, scheduled{habit: &habits[i], set: set})
	}
	return out
}

// History computes the per-day completion-rate series for [start, end].
func History(habits []model.Habit, events []model.CompletionEvent, timezone string, start, end Date) ([]DailyProgress, error) {
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	if _, err := loadLocation(timezone); err != nil {
		return nil, err
	}
	byDay, err := completionsByDay(events, timezone)
	if err != nil {
		return nil, err
	}

	sched := parseSchedules(habits)
	out := make([]DailyProgress, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		out = append(out, progressOn(sched, byDay[d], d))
	}
	return out, nil
}

// PerfectDayStreaks computes the aggregate day-level streaks: runs of days on
// which every due habit was completed. It always derives from raw events and
// the habits' current schedules, never from per-habit cached analytics, so it
// stays honest across retroactive edits and deletions.
//
// A day with nothing scheduled is excluded outright: it neither extends nor
// breaks a run, so empty days cannot manufacture streak length. Today gets
// the same open-window grace as the per-habit walk.
func PerfectDayStreaks(habits []model.Habit, events []model.CompletionEvent, timezone string, now time.Time) (StreakInfo, error) {
	today, _, err := LocalDay(now, timezone)
	if err != nil {
		return StreakInfo{}, err
	}
	byDay, err := completionsByDay(events, timezone)
	if err != nil {
		return StreakInfo{}, err
	}
	windowStart := today.AddDays(-perfectDayLookbackDays)
	sched := parseSchedules(habits)

	current := 0
	for d := today; !d.Before(windowStart); d = d.AddDays(-1) {
		p := progressOn(sched, byDay[d], d)
		if p.ScheduledCount == 0 {
			continue
		}
		if p.CompletedCount == p.ScheduledCount {
			current++
			continue
		}
		if d == today {
			continue
		}
		break
	}

	run, longest := 0, 0
	for d := windowStart; !d.After(today); d = d.AddDays(1) {
		p := progressOn(sched, byDay[d], d)
		if p.ScheduledCount == 0 {
			continue
		}
		if p.CompletedCount == p.ScheduledCount {
			run++
			if run > longest {
				longest = run
			}
		} else if d != today {
			run = 0
		}
	}
	if current > longest {
		longest = current
	}

	return StreakInfo{Current: current, Longest: longest}, nil
}

// completionsByDay localizes every event and groups the completed habit ids
// per calendar date. Duplicate events for one habit-day collapse.
func completionsByDay(events []model.CompletionEvent, timezone string) (map[Date]map[uint]struct{}, error) {
	byDay := make(map[Date]map[uint]struct{})
	for i := range events {
		d, _, err := LocalDay(events[i].OccurredAt, timezone)
		if err != nil {
			return nil, err
		}
		if byDay[d] == nil {
			byDay[d] = make(map[uint]struct{})
		}
		byDay[d][events[i].HabitID] = struct{}{}
	}
	return byDay, nil
}

func progressOn(sched []scheduled, completed map[uint]struct{}, d Date) DailyProgress {
	p := DailyProgress{Date: d, DateLabel: d.String(), CompletionRate: 100}
	for _, s := range sched {
		if !dueOn(s.set, s.habit, d) {
			continue
		}
		p.ScheduledCount++
		if _, ok := completed[s.habit.ID]; ok {
			p.CompletedCount++
		}
	}
	if p.ScheduledCount > 0 {
		p.CompletionRate = float64(p.CompletedCount) / float64(p.ScheduledCount) * 100
	}
	return p
}
