package weeks

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func on(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func TestParseDate(t *testing.T) {
	t.Run("parses ISO calendar date", func(t *testing.T) {
		d, err := ParseDate("1990-06-15")
		require.NoError(t, err)
		assert.Equal(t, on(1990, time.June, 15), d)
	})

	for _, value := range []string{"", "1990-6-15", "15-06-1990", "2021-02-29", "1990-13-01", "1990-06-15T00:00:00Z", "yesterday"} {
		t.Run("rejects "+value, func(t *testing.T) {
			_, err := ParseDate(value)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}

	t.Run("accepts leap day in leap year", func(t *testing.T) {
		d, err := ParseDate("2000-02-29")
		require.NoError(t, err)
		assert.Equal(t, on(2000, time.February, 29), d)
	})
}

func TestNewDate(t *testing.T) {
	_, err := NewDate(2023, time.February, 29)
	assert.ErrorIs(t, err, ErrInvalidDate)

	d, err := NewDate(2024, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
}

func TestDate_AddMonths(t *testing.T) {
	tests := []struct {
		name     string
		from     Date
		months   int
		expected Date
	}{
		{"same day next month", on(2020, time.March, 15), 1, on(2020, time.April, 15)},
		{"clamps to leap February", on(2000, time.January, 31), 1, on(2000, time.February, 29)},
		{"clamps to short February", on(2001, time.January, 31), 1, on(2001, time.February, 28)},
		{"crosses year end", on(2020, time.November, 30), 3, on(2021, time.February, 28)},
		{"goes backwards", on(2020, time.March, 31), -1, on(2020, time.February, 29)},
		{"goes back across years", on(2020, time.January, 15), -13, on(2018, time.December, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.AddMonths(tt.months))
		})
	}
}

func TestDate_AddYears(t *testing.T) {
	leapDay := on(2000, time.February, 29)

	assert.Equal(t, on(2001, time.February, 28), leapDay.AddYears(1))
	assert.Equal(t, on(2004, time.February, 29), leapDay.AddYears(4))
	assert.Equal(t, on(2100, time.February, 28), leapDay.AddYears(100))
	assert.Equal(t, on(2070, time.January, 1), on(1990, time.January, 1).AddYears(80))
}

func TestDate_DaysSince(t *testing.T) {
	assert.Equal(t, 7, on(2020, time.January, 8).DaysSince(on(2020, time.January, 1)))
	assert.Equal(t, -7, on(2020, time.January, 1).DaysSince(on(2020, time.January, 8)))
	assert.Equal(t, 366, on(2001, time.January, 1).DaysSince(on(2000, time.January, 1)))
	// Longer than a time.Duration can hold.
	assert.Equal(t, 146097*3, on(2900, time.January, 1).DaysSince(on(1700, time.January, 1)))
}

func TestDate_Compare(t *testing.T) {
	a := on(2020, time.May, 1)
	b := on(2020, time.May, 2)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, on(2019, time.December, 31).Compare(a))
}

func TestDate_In(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	midnight := on(2021, time.March, 28).In(warsaw)

	assert.Equal(t, 0, midnight.Hour())
	assert.Equal(t, on(2021, time.March, 28), DateOf(midnight))
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Born Date `json:"born"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"born":"1990-06-15"}`), &payload))
	assert.Equal(t, on(1990, time.June, 15), payload.Born)

	encoded, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"born":"1990-06-15"}`, string(encoded))

	assert.Error(t, json.Unmarshal([]byte(`{"born":"1990-02-30"}`), &payload))
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2000))
	assert.True(t, IsLeapYear(2024))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(2023))
}
