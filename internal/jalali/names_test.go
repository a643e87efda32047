package jalali

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonOf(t *testing.T) {
	assert.Equal(t, Spring, SeasonOf(1))
	assert.Equal(t, Spring, SeasonOf(3))
	assert.Equal(t, Summer, SeasonOf(4))
	assert.Equal(t, Autumn, SeasonOf(9))
	assert.Equal(t, Winter, SeasonOf(12))
	assert.Equal(t, Season(0), SeasonOf(13))

	assert.Equal(t, "Spring", Spring.String())
	assert.Equal(t, "بهار", Spring.PersianName())
	assert.Equal(t, "زمستان", Winter.PersianName())
}

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, 1, QuarterOf(2))
	assert.Equal(t, 2, QuarterOf(6))
	assert.Equal(t, 3, QuarterOf(7))
	assert.Equal(t, 4, QuarterOf(10))
	assert.Equal(t, 0, QuarterOf(0))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "فروردین", MonthName(1))
	assert.Equal(t, "اسفند", MonthName(12))
	assert.Equal(t, "", MonthName(0))
	assert.Equal(t, "", MonthName(13))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "شنبه", WeekdayName(0))
	assert.Equal(t, "جمعه", WeekdayName(6))
	assert.Equal(t, "", WeekdayName(7))
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(1403, 1, time.UTC)
	assert.Equal(t, "2024-03-20", first.Format("2006-01-02"))
	assert.Equal(t, "2024-04-19", last.Format("2006-01-02"))

	first, last = MonthRange(1403, 12, time.UTC)
	assert.Equal(t, "2025-02-19", first.Format("2006-01-02"))
	assert.Equal(t, "2025-03-20", last.Format("2006-01-02"))
}

func TestHolidays(t *testing.T) {
	farvardin := Holidays(1)
	assert.Len(t, farvardin, 6)
	assert.Equal(t, "عید نوروز", farvardin[0].Description)

	assert.Empty(t, Holidays(5))
	assert.Len(t, Holidays(0), 10, "month 0 lists the whole year")
}
