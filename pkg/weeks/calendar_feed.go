package weeks

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

const feedProductID = "-//lifeweeks//Special Weeks//EN"

// emptyCalendar is served when a page has no special weeks; the encoder
// refuses calendars without components.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + feedProductID + "\r\nCALSCALE:GREGORIAN\r\nEND:VCALENDAR\r\n"

// SpecialWeeksCalendar renders every non-normal week as an all-day event.
// Events end on the day after the week, as DTEND is exclusive for dates.
func SpecialWeeksCalendar(birthDate Date, summaries []WeekSummary, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, feedProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, summary := range summaries {
		if summary.WeekType == WeekTypeNormal {
			continue
		}
		cal.Children = append(cal.Children, weekEvent(birthDate, summary, stamp).Component)
	}

	if len(cal.Children) == 0 {
		return []byte(emptyCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode special weeks calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func weekEvent(birthDate Date, summary WeekSummary, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, fmt.Sprintf("%s-week-%d@lifeweeks", birthDate, summary.WeekIndex))
	event.Props.SetText(ical.PropSummary, fmt.Sprintf("%s (week %d)", summary.WeekType.Label(), summary.WeekIndex))
	event.Props.SetText(ical.PropCategories, string(summary.WeekType))

	dtStamp := ical.NewProp(ical.PropDateTimeStamp)
	dtStamp.SetDateTime(stamp.UTC())
	event.Props.Set(dtStamp)

	dtStart := ical.NewProp(ical.PropDateTimeStart)
	dtStart.SetDate(summary.WeekStart.Time())
	event.Props.Set(dtStart)

	dtEnd := ical.NewProp(ical.PropDateTimeEnd)
	dtEnd.SetDate(summary.WeekEnd.AddDays(1).Time())
	event.Props.Set(dtEnd)

	return event
}
