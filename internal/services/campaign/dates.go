package campaign

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrStartDateRequired = errors.New("Start date is required")
	ErrEndDateRequired   = errors.New("End date is required")
	ErrStartDateInPast   = errors.New("Start date cannot be in the past")
	ErrEndBeforeStart    = errors.New("End date must be after start date")
	ErrInvalidDateFormat = errors.New("Invalid date format")
)

// ValidateDateRange checks a campaign run window. Both dates are compared
// as calendar days in now's location: the start may be today but not
// earlier, and the end must fall strictly after the start.
func ValidateDateRange(start, end string, now time.Time) error {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" {
		return ErrStartDateRequired
	}
	if end == "" {
		return ErrEndDateRequired
	}

	startDay, err := calendarDay(start, now.Location())
	if err != nil {
		return ErrInvalidDateFormat
	}
	endDay, err := calendarDay(end, now.Location())
	if err != nil {
		return ErrInvalidDateFormat
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if startDay.Before(today) {
		return ErrStartDateInPast
	}
	if !endDay.After(startDay) {
		return ErrEndBeforeStart
	}
	return nil
}

func calendarDay(raw string, loc *time.Location) (time.Time, error) {
	t, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}
