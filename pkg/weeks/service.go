package weeks

import (
	"fmt"
	"math"
	"time"

	"github.com/lifeweeks/lifeweeks/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	TotalWeeks(birthDate Date, lifespanYears int) (int, error)
	CurrentWeekIndex(birthDate Date, timezone string) (int, error)
	WeekStartDate(birthDate Date, weekIndex int) (Date, error)
	WeekEndDate(birthDate Date, weekIndex int) (Date, error)
	WeekType(birthDate Date, weekIndex int, timezone string) (WeekType, error)
	WeekSummary(birthDate Date, weekIndex int, timezone string) (WeekSummary, error)
	LifeProgress(birthDate Date, lifespanYears int, timezone string) (LifeProgress, error)
	// ListWeeks returns summaries for weeks fromIndex..fromIndex+count-1, all
	// evaluated against the same "now".
	ListWeeks(birthDate Date, fromIndex int, count int, timezone string) ([]WeekSummary, error)
	// WeeksPage is ListWeeks together with the instant the page was evaluated at.
	WeeksPage(birthDate Date, fromIndex int, count int, timezone string) (WeekPage, error)
	WeekIndexForDate(birthDate Date, date Date) (int, error)
	NowIn(timezone string) (time.Time, error)
	ValidateBirthDate(birthDate Date, timezone string) error
	ValidateTimezone(timezone string) error
}

type Options struct {
	// DefaultTimezone is the zone whose "today" bounds birth dates when the
	// caller does not name one.
	DefaultTimezone string
	LenientUTC      bool
	MaxPageSize     int
}

func DefaultOptions() Options {
	return Options{
		DefaultTimezone: UTC,
		LenientUTC:      true,
		MaxPageSize:     520,
	}
}

type ServiceImpl struct {
	clock    utils.Clock
	resolver TimezoneResolver
	options  Options
}

func NewService(clock utils.Clock, options Options) *ServiceImpl {
	if options.DefaultTimezone == "" {
		options.DefaultTimezone = UTC
	}
	if options.MaxPageSize <= 0 {
		options.MaxPageSize = DefaultOptions().MaxPageSize
	}
	return &ServiceImpl{
		clock:    clock,
		resolver: TimezoneResolver{LenientUTC: options.LenientUTC},
		options:  options,
	}
}

// evaluation is one captured instant projected into the caller's zone.
type evaluation struct {
	now   time.Time
	loc   *time.Location
	today Date
}

func (s *ServiceImpl) evaluate(timezone string) (evaluation, error) {
	loc, err := s.resolver.Resolve(timezone)
	if err != nil {
		return evaluation{}, err
	}
	now := NowIn(s.clock.Now(), loc)
	return evaluation{now: now, loc: loc, today: DateOf(now)}, nil
}

// evaluateBirth captures "now" in timezone and validates birthDate against it.
// An unknown timezone is reported before any problem with the date.
func (s *ServiceImpl) evaluateBirth(birthDate Date, timezone string) (evaluation, error) {
	ev, err := s.evaluate(timezone)
	if err != nil {
		return evaluation{}, err
	}
	if err := ValidateBirthDate(birthDate, ev.today); err != nil {
		return evaluation{}, err
	}
	return ev, nil
}

func (s *ServiceImpl) NowIn(timezone string) (time.Time, error) {
	ev, err := s.evaluate(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return ev.now, nil
}

func (s *ServiceImpl) ValidateTimezone(timezone string) error {
	_, err := s.resolver.Resolve(timezone)
	return err
}

func (s *ServiceImpl) ValidateBirthDate(birthDate Date, timezone string) error {
	_, err := s.evaluateBirth(birthDate, timezone)
	return err
}

func (s *ServiceImpl) TotalWeeks(birthDate Date, lifespanYears int) (int, error) {
	if _, err := s.evaluateBirth(birthDate, s.options.DefaultTimezone); err != nil {
		return 0, err
	}
	return TotalWeeks(birthDate, lifespanYears)
}

func (s *ServiceImpl) CurrentWeekIndex(birthDate Date, timezone string) (int, error) {
	ev, err := s.evaluateBirth(birthDate, timezone)
	if err != nil {
		return 0, err
	}
	return WeekIndexOn(birthDate, ev.today), nil
}

func (s *ServiceImpl) WeekStartDate(birthDate Date, weekIndex int) (Date, error) {
	return WeekStartDate(birthDate, weekIndex)
}

func (s *ServiceImpl) WeekEndDate(birthDate Date, weekIndex int) (Date, error) {
	return WeekEndDate(birthDate, weekIndex)
}

func (s *ServiceImpl) WeekType(birthDate Date, weekIndex int, timezone string) (WeekType, error) {
	ev, err := s.evaluateBirth(birthDate, timezone)
	if err != nil {
		return "", err
	}
	span, err := WeekSpan(birthDate, weekIndex)
	if err != nil {
		return "", err
	}
	return Classify(birthDate, span, ev.loc), nil
}

func (s *ServiceImpl) WeekSummary(birthDate Date, weekIndex int, timezone string) (WeekSummary, error) {
	ev, err := s.evaluateBirth(birthDate, timezone)
	if err != nil {
		return WeekSummary{}, err
	}
	return summarize(birthDate, weekIndex, ev)
}

func (s *ServiceImpl) LifeProgress(birthDate Date, lifespanYears int, timezone string) (LifeProgress, error) {
	ev, err := s.evaluateBirth(birthDate, timezone)
	if err != nil {
		return LifeProgress{}, err
	}
	totalWeeks, err := TotalWeeks(birthDate, lifespanYears)
	if err != nil {
		return LifeProgress{}, err
	}
	currentWeek := WeekIndexOn(birthDate, ev.today)
	currentWeekInfo, err := summarize(birthDate, currentWeek, ev)
	if err != nil {
		return LifeProgress{}, err
	}

	progress := LifeProgress{
		BirthDate:          birthDate,
		LifespanYears:      lifespanYears,
		Timezone:           timezone,
		TotalWeeks:         totalWeeks,
		CurrentWeek:        currentWeek,
		WeeksLived:         currentWeek + 1,
		WeeksRemaining:     max(0, totalWeeks-currentWeek),
		ProgressPercentage: progressPercentage(currentWeek, totalWeeks),
		CurrentAge:         AgeBetween(birthDate, ev.today),
		DaysLived:          ev.today.DaysSince(birthDate),
		CurrentWeekInfo:    currentWeekInfo,
	}
	log.Tracef("life progress for %s: %d of %d weeks", birthDate, currentWeek, totalWeeks)
	return progress, nil
}

func (s *ServiceImpl) ListWeeks(birthDate Date, fromIndex int, count int, timezone string) ([]WeekSummary, error) {
	page, err := s.WeeksPage(birthDate, fromIndex, count, timezone)
	if err != nil {
		return nil, err
	}
	return page.Summaries, nil
}

func (s *ServiceImpl) WeeksPage(birthDate Date, fromIndex int, count int, timezone string) (WeekPage, error) {
	if count < 1 || count > s.options.MaxPageSize {
		return WeekPage{}, fmt.Errorf("%w: count must be between 1 and %d, got %d", ErrOutOfRange, s.options.MaxPageSize, count)
	}
	ev, err := s.evaluateBirth(birthDate, timezone)
	if err != nil {
		return WeekPage{}, err
	}
	if err := validateWeekIndex(birthDate, fromIndex); err != nil {
		return WeekPage{}, err
	}
	if fromIndex > MaxListedWeekIndex {
		return WeekPage{}, fmt.Errorf("%w: listing starts at most at week %d, got %d", ErrOutOfRange, MaxListedWeekIndex, fromIndex)
	}
	last := min(fromIndex+count-1, MaxListedWeekIndex, lastWeekIndex(birthDate))
	summaries := make([]WeekSummary, 0, last-fromIndex+1)
	for weekIndex := fromIndex; weekIndex <= last; weekIndex++ {
		summary, err := summarize(birthDate, weekIndex, ev)
		if err != nil {
			return WeekPage{}, err
		}
		summaries = append(summaries, summary)
	}
	return WeekPage{Summaries: summaries, EvaluatedAt: ev.now}, nil
}

func (s *ServiceImpl) WeekIndexForDate(birthDate Date, date Date) (int, error) {
	if _, err := s.evaluateBirth(birthDate, s.options.DefaultTimezone); err != nil {
		return 0, err
	}
	if !date.Valid() {
		return 0, fmt.Errorf("%w: %s is not a calendar date", ErrInvalidDate, date)
	}
	if date.Before(birthDate) {
		return 0, fmt.Errorf("%w: %s is before the date of birth %s", ErrOutOfRange, date, birthDate)
	}
	weekIndex := WeekIndexOn(birthDate, date)
	if err := validateWeekIndex(birthDate, weekIndex); err != nil {
		return 0, err
	}
	return weekIndex, nil
}

func summarize(birthDate Date, weekIndex int, ev evaluation) (WeekSummary, error) {
	span, err := WeekSpan(birthDate, weekIndex)
	if err != nil {
		return WeekSummary{}, err
	}
	return WeekSummary{
		WeekIndex:     weekIndex,
		WeekStart:     span.Start,
		WeekEnd:       span.End,
		WeekType:      Classify(birthDate, span, ev.loc),
		Age:           AgeBetween(birthDate, span.Start),
		DaysLived:     span.Start.DaysSince(birthDate),
		IsCurrentWeek: span.Contains(ev.today),
	}, nil
}

func progressPercentage(currentWeek, totalWeeks int) float64 {
	if totalWeeks == 0 {
		return 0
	}
	percentage := min(100, float64(currentWeek)/float64(totalWeeks)*100)
	return math.Round(percentage*100) / 100
}
