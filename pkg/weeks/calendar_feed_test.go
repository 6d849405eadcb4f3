package weeks

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecialWeeksCalendar(t *testing.T) {
	// given
	service := setup(t, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	birth := on(1990, time.June, 15)
	summaries, err := service.ListWeeks(birth, 0, 60, "UTC")
	require.NoError(t, err)

	special := 0
	for _, summary := range summaries {
		if summary.WeekType != WeekTypeNormal {
			special++
		}
	}
	require.Positive(t, special)

	// when
	body, err := SpecialWeeksCalendar(birth, summaries, clock.Now())

	// then
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.HasPrefix(text, "BEGIN:VCALENDAR"))
	assert.Equal(t, special, strings.Count(text, "BEGIN:VEVENT"))
	assert.Contains(t, text, "DTSTART;VALUE=DATE:19900615")
	assert.Contains(t, text, "DTEND;VALUE=DATE:19900622")
	assert.Contains(t, text, "UID:1990-06-15-week-0@lifeweeks")

	decoded, err := ical.NewDecoder(strings.NewReader(text)).Decode()
	require.NoError(t, err)
	events := decoded.Events()
	require.Len(t, events, special)
	summary, err := events[0].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Birthday (week 0)", summary)
}

func TestSpecialWeeksCalendar_NoSpecialWeeks(t *testing.T) {
	summaries := []WeekSummary{{WeekIndex: 3, WeekType: WeekTypeNormal}}

	body, err := SpecialWeeksCalendar(on(1990, time.June, 15), summaries, time.Now())

	require.NoError(t, err)
	assert.NotContains(t, string(body), "BEGIN:VEVENT")
}
