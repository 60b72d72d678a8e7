package forecast

import "time"

// holidayName reports the US federal holiday falling on d, if any.
// Observed-day shifts (e.g. July 4th on a Saturday observed Friday) are
// ignored: checkpoint traffic follows the calendar holiday.
func holidayName(d time.Time) (string, bool) {
	y, month, day := d.Year(), d.Month(), d.Day()

	switch month {
	case time.January:
		if day == 1 {
			return "new_years_day", true
		}
		if day == nthWeekday(y, time.January, time.Monday, 3) {
			return "mlk_day", true
		}
	case time.February:
		if day == nthWeekday(y, time.February, time.Monday, 3) {
			return "presidents_day", true
		}
	case time.May:
		if day == lastWeekday(y, time.May, time.Monday) {
			return "memorial_day", true
		}
	case time.June:
		if day == 19 {
			return "juneteenth", true
		}
	case time.July:
		if day == 4 {
			return "independence_day", true
		}
	case time.September:
		if day == nthWeekday(y, time.September, time.Monday, 1) {
			return "labor_day", true
		}
	case time.October:
		if day == nthWeekday(y, time.October, time.Monday, 2) {
			return "columbus_day", true
		}
	case time.November:
		if day == 11 {
			return "veterans_day", true
		}
		if day == nthWeekday(y, time.November, time.Thursday, 4) {
			return "thanksgiving", true
		}
	case time.December:
		if day == 25 {
			return "christmas_day", true
		}
	}
	return "", false
}

// nthWeekday returns the day of month of the n-th weekday in the month.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return 1 + offset + (n-1)*7
}

// lastWeekday returns the day of month of the final weekday in the month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) int {
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.Day() - offset
}
