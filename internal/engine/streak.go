package engine

import (
	"time"

	"habit_tracker_backend/internal/model"
)

// StreakInfo carries a current streak (measured backward from today) and the
// longest streak ever observed.
type StreakInfo struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// HabitStreaks computes one habit's streaks from its raw completion events.
//
// Current: every event is localized to a date and deduped, then the walk
// moves backward from today one day at a time. Non-due dates are skipped,
// due-and-completed dates count, and the first due-but-missing date stops
// the walk, except today itself, whose due window has not closed yet.
//
// Longest: a forward scan from max(ActiveFrom, earliest completion) to
// min(today, ActiveUntil) keeps a running run length over due dates and
// tracks its maximum. The full history matters: a broken-and-resumed run in
// the past can exceed the current streak. The result never drops below the
// habit's cached LongestStreak, which acts as a monotonic high-water mark.
func HabitStreaks(h *model.Habit, events []model.CompletionEvent, timezone string, now time.Time) (StreakInfo, error) {
	today, _, err := LocalDay(now, timezone)
	if err != nil {
		return StreakInfo{}, err
	}

	set, err := ParseScheduleString(h.Schedule)
	if err != nil {
		// Never due, nothing to count; keep the high-water mark.
		return StreakInfo{Current: 0, Longest: h.LongestStreak}, nil
	}

	done := make(map[Date]struct{}, len(events))
	var earliest Date
	for i := range events {
		d, _, err := LocalDay(events[i].OccurredAt, timezone)
		if err != nil {
			return StreakInfo{}, err
		}
		if len(done) == 0 || d.Before(earliest) {
			earliest = d
		}
		done[d] = struct{}{}
	}

	info := StreakInfo{
		Current: currentStreak(set, h, done, today),
		Longest: h.LongestStreak,
	}
	if len(done) > 0 {
		if longest := longestStreak(set, h, done, earliest, today); longest > info.Longest {
			info.Longest = longest
		}
	}
	return info, nil
}

func currentStreak(set WeekdaySet, h *model.Habit, done map[Date]struct{}, today Date) int {
	from := DateOf(h.ActiveFrom)
	count := 0
	for d := today; !d.Before(from); d = d.AddDays(-1) {
		if !dueOn(set, h, d) {
			continue
		}
		if _, ok := done[d]; ok {
			count++
			continue
		}
		if d == today {
			// Today's window is still open; missing is not yet a break.
			continue
		}
		break
	}
	return count
}

func longestStreak(set WeekdaySet, h *model.Habit, done map[Date]struct{}, earliest, today Date) int {
	start := MaxDate(DateOf(h.ActiveFrom), earliest)
	end := today
	if h.ActiveUntil != nil {
		end = MinDate(end, DateOf(*h.ActiveUntil))
	}

	run, longest := 0, 0
	for d := start; !d.After(end); d = d.AddDays(1) {
		if !dueOn(set, h, d) {
			continue
		}
		if _, ok := done[d]; ok {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}
