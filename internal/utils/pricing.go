package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date represents a calendar date
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date struct
func ParseDate(dateStr string) (Date, error) {
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month: %v", err)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}

	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("day must be between 1 and %d", DaysInMonth(year, month))
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// String formats the date as yyyy-mm-dd
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		// Check for leap year
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	// Months with 30 days: April, June, September, November
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	return 31
}

// CalendarDaysBetween counts calendar-day boundaries from start to end.
// The result is negative when end is before start.
func CalendarDaysBetween(start, end Date) int {
	return int(end.midnightUTC().Sub(start.midnightUTC()).Hours() / 24)
}

// BillableDays counts both the issue and the return day, with a minimum of
// one day.
func BillableDays(issue, ret Date) int {
	days := CalendarDaysBetween(issue, ret) + 1
	if days < 1 {
		return 1
	}
	return days
}

// CalculateRentalFee returns rate * quantity * billable days for a return
// recorded on returnDate of a rental issued on issueDate.
func CalculateRentalFee(rate decimal.Decimal, quantity int, issueDate, returnDate string) (decimal.Decimal, int, error) {
	issue, err := ParseDate(issueDate)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("invalid issue date: %v", err)
	}

	ret, err := ParseDate(returnDate)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("invalid return date: %v", err)
	}

	days := BillableDays(issue, ret)
	fee := rate.Mul(decimal.NewFromInt(int64(quantity))).Mul(decimal.NewFromInt(int64(days)))
	return fee, days, nil
}
