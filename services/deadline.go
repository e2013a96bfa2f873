package services

import "time"

// Deadline is a computed deadline for display and enforcement
type Deadline struct {
	Date          time.Time `json:"date"`
	DaysRemaining int       `json:"days_remaining"`
	IsExpired     bool      `json:"is_expired"`
}

// ComputeDeadline derives a deadline from an anchor timestamp and a window
// in days. DaysRemaining is floored and never negative.
func ComputeDeadline(anchor time.Time, windowDays int, now time.Time) Deadline {
	date := anchor.Add(time.Duration(windowDays) * 24 * time.Hour)

	daysRemaining := int(date.Sub(now).Hours() / 24)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	return Deadline{
		Date:          date,
		DaysRemaining: daysRemaining,
		IsExpired:     now.After(date),
	}
}

// DaysSince returns the whole days elapsed between a past timestamp and now
func DaysSince(t time.Time, now time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}
