package engine

import (
	"time"
)

// loadLocation resolves an IANA timezone identifier. An empty or unknown
// identifier is rejected rather than silently falling back to UTC.
func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return nil, ErrInvalidTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

// LocalDay converts an instant into the calendar date and weekday as
// perceived in the given zone. The weekday comes from the localized date,
// which can disagree with the UTC date near midnight.
func LocalDay(instant time.Time, timezone string) (Date, time.Weekday, error) {
	loc, err := loadLocation(timezone)
	if err != nil {
		return Date{}, 0, err
	}
	d := DateOf(instant.In(loc))
	return d, d.Weekday(), nil
}

// DayBounds returns the UTC instant span [start, end) covered by the given
// calendar date in the given zone. The span is whatever the zone's offset
// dictates for that date, not a fixed 24h: a forward DST transition yields a
// 23h day, a backward one 25h.
func DayBounds(date Date, timezone string) (time.Time, time.Time, error) {
	loc, err := loadLocation(timezone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := date.Time(loc)
	end := date.AddDays(1).Time(loc)
	return start, end, nil
}
