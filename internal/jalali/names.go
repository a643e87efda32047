package jalali

import "time"

// Season is a quarter of the Jalali year.
type Season int

const (
	Spring Season = iota + 1
	Summer
	Autumn
	Winter
)

var seasonNames = [...]string{"", "Spring", "Summer", "Autumn", "Winter"}
var seasonNamesFa = [...]string{"", "بهار", "تابستان", "پاییز", "زمستان"}

func (s Season) String() string {
	if s < Spring || s > Winter {
		return "unknown"
	}
	return seasonNames[s]
}

// PersianName returns the Persian season name.
func (s Season) PersianName() string {
	if s < Spring || s > Winter {
		return ""
	}
	return seasonNamesFa[s]
}

// SeasonOf returns the season a Jalali month falls in: months 1-3 are
// spring, 4-6 summer, 7-9 autumn, 10-12 winter.
func SeasonOf(month int) Season {
	if month < 1 || month > 12 {
		return 0
	}
	return Season((month-1)/3 + 1)
}

// QuarterOf returns the calendar quarter (1..4) of a Jalali month.
func QuarterOf(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return (month-1)/3 + 1
}

var monthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد",
	"تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر",
	"دی", "بهمن", "اسفند",
}

// Index 0 is Saturday, matching Date.Weekday.
var weekdayNames = [7]string{
	"شنبه", "یکشنبه", "دوشنبه", "سه‌شنبه", "چهارشنبه", "پنجشنبه", "جمعه",
}

// MonthName returns the Persian name of a Jalali month (1..12).
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// WeekdayName returns the Persian name for a weekday index as returned
// by Date.Weekday.
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return weekdayNames[weekday]
}

// MonthRange returns the first and last Gregorian days of a Jalali
// month, both at midnight in loc.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	first := Date{Year: year, Month: month, Day: 1}
	last := Date{Year: year, Month: month, Day: DaysInMonth(year, month)}
	return first.Time(loc), last.Time(loc)
}

// Holiday is a fixed national holiday in the Jalali calendar.
type Holiday struct {
	Month       int
	Day         int
	Description string
}

// Religious holidays follow the lunar calendar and shift against the
// Jalali year; only the fixed solar ones are listed here.
var fixedHolidays = []Holiday{
	{1, 1, "عید نوروز"},
	{1, 2, "عید نوروز"},
	{1, 3, "عید نوروز"},
	{1, 4, "عید نوروز"},
	{1, 12, "روز جمهوری اسلامی"},
	{1, 13, "روز طبیعت"},
	{3, 14, "رحلت امام خمینی"},
	{3, 15, "قیام ۱۵ خرداد"},
	{11, 22, "پیروزی انقلاب اسلامی"},
	{12, 29, "ملی شدن صنعت نفت"},
}

// Holidays returns the fixed holidays of a month, or of the whole year
// when month is 0.
func Holidays(month int) []Holiday {
	if month == 0 {
		out := make([]Holiday, len(fixedHolidays))
		copy(out, fixedHolidays)
		return out
	}
	var out []Holiday
	for _, h := range fixedHolidays {
		if h.Month == month {
			out = append(out, h)
		}
	}
	return out
}
