package weeks

import "time"

// WeekSummary describes one week of a life, counted from the date of birth.
type WeekSummary struct {
	WeekIndex int
	WeekStart Date
	WeekEnd   Date
	WeekType  WeekType
	// Age at WeekStart.
	Age           Age
	DaysLived     int
	IsCurrentWeek bool
}

// LifeProgress echoes its inputs; Timezone is the zone name as requested.
type LifeProgress struct {
	BirthDate          Date
	LifespanYears      int
	Timezone           string
	TotalWeeks         int
	CurrentWeek        int
	WeeksLived         int
	WeeksRemaining     int
	ProgressPercentage float64
	CurrentAge         Age
	DaysLived          int
	CurrentWeekInfo    WeekSummary
}

type WeekPage struct {
	Summaries   []WeekSummary
	EvaluatedAt time.Time
}
