package weeks

import (
	"time"
)

type WeekType string

const (
	WeekTypeNormal        WeekType = "normal"
	WeekTypeBirthday      WeekType = "birthday"
	WeekTypeYearStart     WeekType = "year_start"
	WeekTypeLeapDay       WeekType = "leap_day"
	WeekTypeDstTransition WeekType = "dst_transition"
)

// Label is a human readable name of the week type.
func (t WeekType) Label() string {
	switch t {
	case WeekTypeBirthday:
		return "Birthday"
	case WeekTypeYearStart:
		return "New Year"
	case WeekTypeLeapDay:
		return "Leap day"
	case WeekTypeDstTransition:
		return "Clock change"
	default:
		return "Week"
	}
}

// Span is an inclusive range of dates.
type Span struct {
	Start Date
	End   Date
}

func (s Span) Contains(d Date) bool {
	return !d.Before(s.Start) && !d.After(s.End)
}

type weekRule struct {
	weekType WeekType
	matches  func(birthDate Date, span Span, loc *time.Location) bool
}

// weekRules is ordered by precedence. The first matching rule decides the type.
var weekRules = []weekRule{
	{WeekTypeBirthday, containsBirthday},
	{WeekTypeYearStart, containsYearStart},
	{WeekTypeLeapDay, containsLeapDay},
	{WeekTypeDstTransition, containsDstTransition},
}

// Classify assigns exactly one type to the week spanning span.
func Classify(birthDate Date, span Span, loc *time.Location) WeekType {
	for _, rule := range weekRules {
		if rule.matches(birthDate, span, loc) {
			return rule.weekType
		}
	}
	return WeekTypeNormal
}

func containsBirthday(birthDate Date, span Span, _ *time.Location) bool {
	for year := span.Start.Year - 1; year <= span.Start.Year+1; year++ {
		if span.Contains(birthDate.AddYears(year - birthDate.Year)) {
			return true
		}
	}
	return false
}

func containsYearStart(_ Date, span Span, _ *time.Location) bool {
	if span.Start.Year != span.End.Year {
		return true
	}
	return span.Contains(Date{Year: span.Start.Year, Month: time.January, Day: 1})
}

func containsLeapDay(_ Date, span Span, _ *time.Location) bool {
	if IsLeapYear(span.Start.Year) && span.Contains(Date{Year: span.Start.Year, Month: time.February, Day: 29}) {
		return true
	}
	// A 7-day span that ends in the next year ends in early January, so it can
	// never reach that year's Feb 29. Kept for spans longer than a week.
	if span.End.Year > span.Start.Year && IsLeapYear(span.End.Year) {
		return span.Contains(Date{Year: span.End.Year, Month: time.February, Day: 29})
	}
	return false
}

// containsDstTransition reports whether the UTC offset at local midnight
// changes between any two consecutive days from span.Start to span.End+1.
func containsDstTransition(_ Date, span Span, loc *time.Location) bool {
	if loc == nil || loc == time.UTC {
		return false
	}
	_, previous := span.Start.In(loc).Zone()
	for day := span.Start.AddDays(1); !day.After(span.End.AddDays(1)); day = day.AddDays(1) {
		_, offset := day.In(loc).Zone()
		if offset != previous {
			return true
		}
		previous = offset
	}
	return false
}
