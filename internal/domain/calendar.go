package domain

import (
	"fmt"
	"time"
)

const (
	// HoursPerDay is the number of hourly samples averaged into one day
	HoursPerDay = 24

	// DaysPerYear is fixed; leap years are not supported
	DaysPerYear = 365

	// HoursPerYear is the length of every hourly series
	HoursPerYear = HoursPerDay * DaysPerYear
)

// daysInMonth follows a non-leap calendar regardless of the site's year.
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// MonthBounds returns the half-open day range [start, end) covered by month
// (1 = January) within a 365-day series.
func MonthBounds(month int) (start, end int, err error) {
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %d must be between 1 (Jan) and 12 (Dec)", ErrRange, month)
	}
	for _, n := range daysInMonth[:month-1] {
		start += n
	}
	return start, start + daysInMonth[month-1], nil
}

// MonthName returns the English name of month (1 = January).
func MonthName(month int) string {
	return time.Month(month).String()
}

// DayDate returns the month (1 = January) and day of month of day of year
// doy (1..365).
func DayDate(doy int) (month, day int, err error) {
	if doy < 1 || doy > DaysPerYear {
		return 0, 0, fmt.Errorf("%w: day of year %d must be between 1 and %d", ErrRange, doy, DaysPerYear)
	}
	day = doy
	for m, n := range daysInMonth {
		if day <= n {
			return m + 1, day, nil
		}
		day -= n
	}
	return 0, 0, fmt.Errorf("%w: day of year %d", ErrRange, doy)
}
