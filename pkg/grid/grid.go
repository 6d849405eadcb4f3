// Package grid draws a life in weeks as a block of terminal cells, one row per
// year of life.
package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
)

const (
	DefaultWeeksPerRow = 52

	LivedGlyph   = "■"
	CurrentGlyph = "◆"
	FutureGlyph  = "□"
)

type cellState int

const (
	stateLived cellState = iota
	stateCurrent
	stateFuture
)

type Options struct {
	WeeksPerRow int
	// CurrentWeek separates lived weeks from future ones. Summaries flagged as
	// the current week take precedence.
	CurrentWeek int
	ShowLegend  bool
	Theme       Theme
}

func DefaultOptions() Options {
	return Options{
		WeeksPerRow: DefaultWeeksPerRow,
		ShowLegend:  true,
		Theme:       DefaultTheme(),
	}
}

// Render draws summaries, which must be consecutive weeks in ascending order.
// The first summary need not be week 0; rows are still aligned to multiples of
// WeeksPerRow so a row label is always the year of life.
func Render(summaries []weeks.WeekSummary, opts Options) string {
	if len(summaries) == 0 {
		return ""
	}
	perRow := opts.WeeksPerRow
	if perRow <= 0 {
		perRow = DefaultWeeksPerRow
	}
	currentWeek := opts.CurrentWeek
	for _, summary := range summaries {
		if summary.IsCurrentWeek {
			currentWeek = summary.WeekIndex
			break
		}
	}

	first := summaries[0].WeekIndex
	rows := make([]string, 0, len(summaries)/perRow+2)
	var row strings.Builder
	row.WriteString(rowLabel(opts.Theme, first/perRow))
	row.WriteString(strings.Repeat(" ", first%perRow))

	for _, summary := range summaries {
		if summary.WeekIndex%perRow == 0 && summary.WeekIndex != first {
			rows = append(rows, row.String())
			row.Reset()
			row.WriteString(rowLabel(opts.Theme, summary.WeekIndex/perRow))
		}
		state := stateOf(summary.WeekIndex, currentWeek)
		row.WriteString(opts.Theme.styleFor(state, summary.WeekType).Render(glyphs[state]))
	}
	rows = append(rows, row.String())

	if opts.ShowLegend {
		rows = append(rows, "", legend(opts.Theme))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

var glyphs = map[cellState]string{
	stateLived:   LivedGlyph,
	stateCurrent: CurrentGlyph,
	stateFuture:  FutureGlyph,
}

func stateOf(weekIndex, currentWeek int) cellState {
	switch {
	case weekIndex < currentWeek:
		return stateLived
	case weekIndex == currentWeek:
		return stateCurrent
	default:
		return stateFuture
	}
}

func rowLabel(theme Theme, year int) string {
	return theme.RowLabel.Render(fmt.Sprintf("%3d ", year))
}

var legendOrder = []weeks.WeekType{
	weeks.WeekTypeBirthday,
	weeks.WeekTypeYearStart,
	weeks.WeekTypeLeapDay,
	weeks.WeekTypeDstTransition,
}

func legend(theme Theme) string {
	entries := []string{
		theme.Lived.Render(LivedGlyph) + " lived",
		theme.Current.Render(CurrentGlyph) + " now",
		theme.Future.Render(FutureGlyph) + " ahead",
	}
	for _, weekType := range legendOrder {
		style, ok := theme.Special[weekType]
		if !ok {
			continue
		}
		entries = append(entries, style.Render(LivedGlyph)+" "+strings.ToLower(weekType.Label()))
	}
	return theme.Legend.Render(strings.Join(entries, "  "))
}
