package weeks

import (
	"fmt"
	"time"
)

const (
	DaysPerWeek = 7

	MinBirthYear     = 1900
	MinLifespanYears = 1
	MaxLifespanYears = 150
	DefaultLifespan  = 80

	// MaxListedWeekIndex is the last week ListWeeks pages to. 150 years is
	// under 7830 weeks.
	MaxListedWeekIndex = 10000

	// MaxDateYear is the last year a week may end in.
	MaxDateYear = 9999
)

// Age is a calendar age broken into whole years, months and remaining days.
type Age struct {
	Years  int
	Months int
	Days   int
}

// AgeBetween returns the calendar age on `on` of someone born on birth. Months
// are counted with end-of-month clamping, so a Jan 31 birth is one month old
// on the last day of February.
func AgeBetween(birth, on Date) Age {
	months := (on.Year-birth.Year)*12 + int(on.Month) - int(birth.Month)
	anchor := birth.AddMonths(months)
	if anchor.After(on) {
		months--
		anchor = birth.AddMonths(months)
	}
	return Age{
		Years:  months / 12,
		Months: months % 12,
		Days:   on.DaysSince(anchor),
	}
}

// ValidateBirthDate checks birthDate against today, the caller's local date.
// Malformed dates are reported first, then future dates, then the lower bound.
func ValidateBirthDate(birthDate, today Date) error {
	if !birthDate.Valid() {
		return fmt.Errorf("%w: %s is not a calendar date", ErrInvalidDate, birthDate)
	}
	if birthDate.After(today) {
		return fmt.Errorf("%w: %s is after %s", ErrFutureDate, birthDate, today)
	}
	if birthDate.Year < MinBirthYear {
		return fmt.Errorf("%w: date of birth must be after year %d", ErrInvalidDate, MinBirthYear)
	}
	return nil
}

func validateLifespan(lifespanYears int) error {
	if lifespanYears < MinLifespanYears || lifespanYears > MaxLifespanYears {
		return fmt.Errorf("%w: lifespan must be between %d and %d years, got %d",
			ErrOutOfRange, MinLifespanYears, MaxLifespanYears, lifespanYears)
	}
	return nil
}

func validateWeekIndex(birthDate Date, weekIndex int) error {
	if weekIndex < 0 {
		return fmt.Errorf("%w: week index cannot be negative, got %d", ErrOutOfRange, weekIndex)
	}
	if weekIndex > lastWeekIndex(birthDate) {
		return fmt.Errorf("%w: week %d ends after year %d", ErrOutOfRange, weekIndex, MaxDateYear)
	}
	return nil
}

// lastWeekIndex is the last week of a life born on birthDate that ends by
// the end of MaxDateYear.
func lastWeekIndex(birthDate Date) int {
	lastDay := Date{Year: MaxDateYear, Month: time.December, Day: 31}
	return (lastDay.DaysSince(birthDate) - (DaysPerWeek - 1)) / DaysPerWeek
}

// TotalWeeks returns the number of complete weeks between birthDate and the
// same calendar date lifespanYears later. It assumes birthDate was validated.
func TotalWeeks(birthDate Date, lifespanYears int) (int, error) {
	if err := validateLifespan(lifespanYears); err != nil {
		return 0, err
	}
	end := birthDate.AddYears(lifespanYears)
	return end.DaysSince(birthDate) / DaysPerWeek, nil
}

// WeekIndexOn returns the week containing day, clamped to 0 for days before birth.
func WeekIndexOn(birthDate, day Date) int {
	days := day.DaysSince(birthDate)
	if days < 0 {
		return 0
	}
	return days / DaysPerWeek
}

func WeekStartDate(birthDate Date, weekIndex int) (Date, error) {
	if err := validateWeekIndex(birthDate, weekIndex); err != nil {
		return Date{}, err
	}
	return birthDate.AddDays(DaysPerWeek * weekIndex), nil
}

func WeekEndDate(birthDate Date, weekIndex int) (Date, error) {
	start, err := WeekStartDate(birthDate, weekIndex)
	if err != nil {
		return Date{}, err
	}
	return start.AddDays(DaysPerWeek - 1), nil
}

// WeekSpan returns the inclusive date range of a week.
func WeekSpan(birthDate Date, weekIndex int) (Span, error) {
	start, err := WeekStartDate(birthDate, weekIndex)
	if err != nil {
		return Span{}, err
	}
	return Span{Start: start, End: start.AddDays(DaysPerWeek - 1)}, nil
}
