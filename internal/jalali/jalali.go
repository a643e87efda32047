// Package jalali implements conversion between the Jalali (Solar Hijri)
// and Gregorian calendars, plus the calendar metadata the rest of the
// engine needs: leap years, month lengths, weekdays, seasons, holidays.
//
// The conversion uses the classic 33-year intercalation arithmetic
// (12053-day cycles of 33 Jalali years, 1461-day quads), anchored at
// Jalali 979 / Gregorian 1600. Leap years fall where year%33 is one of
// 1, 5, 9, 13, 17, 22, 26, 30. Both directions are exact and invertible
// for the supported range.
package jalali

import (
	"fmt"
	"time"
)

// Date is a civil date in the Jalali calendar.
type Date struct {
	Year  int
	Month int // 1..12
	Day   int // 1..31
}

var gDaysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
var jDaysInMonth = [12]int{31, 31, 31, 31, 31, 31, 30, 30, 30, 30, 30, 29}

// leapRemainders are the year%33 values that mark leap years in the
// 33-year cycle. Do not replace this with an approximation: the 365.25
// rule drifts by whole days over centuries.
var leapRemainders = map[int]bool{
	1: true, 5: true, 9: true, 13: true, 17: true, 22: true, 26: true, 30: true,
}

// MinYear and MaxYear bound the supported Jalali range. The day-number
// arithmetic is anchored at Jalali 979 (Gregorian 1600-03-21); dates
// outside the range are rejected by Valid.
const (
	MinYear = 979
	MaxYear = 3000
)

// IsLeapYear reports whether the given Jalali year is a leap year.
func IsLeapYear(year int) bool {
	return leapRemainders[year%33]
}

// DaysInMonth returns the number of days in a Jalali month.
// Months 1-6 have 31 days, 7-11 have 30, and month 12 has 29 in a
// common year and 30 in a leap year.
func DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 12 && IsLeapYear(year) {
		return 30
	}
	return jDaysInMonth[month-1]
}

// DaysInYear returns 366 for leap years, 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// Valid reports whether d is a real date in the supported range.
func (d Date) Valid() bool {
	if d.Year < MinYear || d.Year > MaxYear || d.Month < 1 || d.Month > 12 {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// String formats the date as YYYY/MM/DD, the original application's
// display form.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Parse parses a Jalali date in YYYY/MM/DD form.
func Parse(s string) (Date, error) {
	var d Date
	if _, err := fmt.Sscanf(s, "%d/%d/%d", &d.Year, &d.Month, &d.Day); err != nil {
		return Date{}, fmt.Errorf("parse jalali date %q: %w", s, err)
	}
	if !d.Valid() {
		return Date{}, fmt.Errorf("invalid jalali date %q", s)
	}
	return d, nil
}

// dayNumber returns the number of days between the arithmetic anchor
// (Jalali 979-01-01) and d.
func dayNumber(d Date) int {
	jy := d.Year - 979
	n := 365*jy + (jy/33)*8 + (jy%33+3)/4
	for i := 0; i < d.Month-1; i++ {
		n += jDaysInMonth[i]
	}
	return n + d.Day - 1
}

// gregorianDayNumber returns the number of days between Gregorian
// 1600-01-01 and the given civil date.
func gregorianDayNumber(year, month, day int) int {
	gy := year - 1600
	n := 365*gy + (gy+3)/4 - (gy+99)/100 + (gy+399)/400
	for i := 0; i < month-1; i++ {
		n += gDaysInMonth[i]
	}
	if month > 2 && (gy%4 == 0 && gy%100 != 0 || gy%400 == 0) {
		n++
	}
	return n + day - 1
}

// FromTime converts the civil date of t (in t's location) to Jalali.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	n := gregorianDayNumber(y, int(m), d) - 79

	np := n / 12053
	n %= 12053

	jy := 979 + 33*np + 4*(n/1461)
	n %= 1461

	if n >= 366 {
		jy += (n - 1) / 365
		n = (n - 1) % 365
	}

	var i int
	for i = 0; i < 11 && n >= jDaysInMonth[i]; i++ {
		n -= jDaysInMonth[i]
	}
	return Date{Year: jy, Month: i + 1, Day: n + 1}
}

// Time converts d to a Gregorian time.Time at midnight in loc.
func (d Date) Time(loc *time.Location) time.Time {
	n := dayNumber(d) + 79

	gy := 1600 + 400*(n/146097)
	n %= 146097

	leap := true
	if n >= 36525 {
		n--
		gy += 100 * (n / 36524)
		n %= 36524
		if n >= 365 {
			n++
		} else {
			leap = false
		}
	}

	gy += 4 * (n / 1461)
	n %= 1461
	if n >= 366 {
		leap = false
		n--
		gy += n / 365
		n %= 365
	}

	var i int
	for i = 0; ; i++ {
		days := gDaysInMonth[i]
		if i == 1 && leap {
			days++
		}
		if n < days {
			break
		}
		n -= days
	}
	return time.Date(gy, time.Month(i+1), n+1, 0, 0, 0, 0, loc)
}

// Today returns the current Jalali date in loc.
func Today(loc *time.Location) Date {
	return FromTime(time.Now().In(loc))
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time(time.UTC).AddDate(0, 0, n))
}

// Weekday returns the Jalali weekday index of d: 0=Saturday (شنبه)
// through 6=Friday (جمعه). The Gregorian weekday is remapped, since the
// Persian week starts two days before the ISO week.
func (d Date) Weekday() int {
	return (int(d.Time(time.UTC).Weekday()) + 1) % 7
}
