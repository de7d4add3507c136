package program

import "time"

// DayForDate maps a calendar date to the tab to preselect. Off days fall
// forward to the next training day; the weekend lands on the
// progression view.
func DayForDate(t time.Time) Day {
	switch t.Weekday() {
	case time.Monday:
		return Lundi
	case time.Tuesday, time.Wednesday:
		return Mercredi
	case time.Thursday, time.Friday:
		return Vendredi
	default:
		return Progression
	}
}

// WeekForDate derives the program week from the start date: one week per
// 7 elapsed calendar days, floor 1. Dates before the start clamp to 1.
func WeekForDate(start, now time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	elapsed := int(nowDay.Sub(startDay).Hours() / 24)
	if elapsed < 0 {
		return 1
	}
	return elapsed/7 + 1
}
