package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lifeweeks/lifeweeks/internal/utils"
	"github.com/lifeweeks/lifeweeks/pkg/grid"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
	log "github.com/sirupsen/logrus"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func main() {
	dob := flag.String("dob", "", "date of birth, YYYY-MM-DD")
	lifespan := flag.Int("lifespan", weeks.DefaultLifespan, "expected lifespan in years")
	timezone := flag.String("tz", weeks.UTC, "IANA timezone that decides the current week")
	perRow := flag.Int("per-row", grid.DefaultWeeksPerRow, "weeks per row")
	legend := flag.Bool("legend", true, "print a legend below the grid")
	plain := flag.Bool("plain", false, "no colors")
	flag.Parse()

	if *dob == "" {
		flag.Usage()
		os.Exit(2)
	}
	birthDate, err := weeks.ParseDate(*dob)
	if err != nil {
		log.Fatalf("invalid -dob: %v", err)
	}

	service := weeks.NewService(utils.SystemClock{}, weeks.DefaultOptions())
	progress, err := service.LifeProgress(birthDate, *lifespan, *timezone)
	if err != nil {
		log.Fatalf("failed to calculate life progress: %v", err)
	}

	summaries, err := allWeeks(service, birthDate, progress.TotalWeeks, *timezone)
	if err != nil {
		log.Fatalf("failed to list weeks: %v", err)
	}

	opts := grid.Options{
		WeeksPerRow: *perRow,
		CurrentWeek: progress.CurrentWeek,
		ShowLegend:  *legend,
		Theme:       grid.DefaultTheme(),
	}
	if *plain {
		opts.Theme = grid.PlainTheme()
	}

	fmt.Println(grid.Render(summaries, opts))
	fmt.Printf("\nweek %d of %d, %.2f%% lived, %d weeks ahead\n",
		progress.CurrentWeek, progress.TotalWeeks, progress.ProgressPercentage, progress.WeeksRemaining)
}

// allWeeks pages through the engine until total weeks are collected.
func allWeeks(service weeks.Service, birthDate weeks.Date, total int, timezone string) ([]weeks.WeekSummary, error) {
	pageSize := weeks.DefaultOptions().MaxPageSize
	summaries := make([]weeks.WeekSummary, 0, total)
	for from := 0; from < total; from += pageSize {
		page, err := service.ListWeeks(birthDate, from, min(pageSize, total-from), timezone)
		if err != nil {
			return nil, err
		}
		log.Debugf("fetched weeks %d to %d", from, from+len(page)-1)
		summaries = append(summaries, page...)
		if len(page) == 0 {
			break
		}
	}
	return summaries, nil
}
