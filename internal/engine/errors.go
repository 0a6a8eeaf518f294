package engine

import "errors"

var (
	ErrInvalidTimezone  = errors.New("invalid timezone identifier")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("end date precedes start date")
	ErrInvalidSchedule  = errors.New("invalid schedule definition")
)
