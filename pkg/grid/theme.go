package grid

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
)

// Theme holds one style per cell state and per special week type.
type Theme struct {
	Lived   lipgloss.Style
	Current lipgloss.Style
	Future  lipgloss.Style

	// Special weeks are keyed by type; a missing entry falls back to the state style.
	Special map[weeks.WeekType]lipgloss.Style

	RowLabel lipgloss.Style
	Legend   lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Lived:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5F87AF")),
		Current: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")).Bold(true),
		Future:  lipgloss.NewStyle().Foreground(lipgloss.Color("#585858")),
		Special: map[weeks.WeekType]lipgloss.Style{
			weeks.WeekTypeBirthday:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
			weeks.WeekTypeYearStart:     lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787")),
			weeks.WeekTypeLeapDay:       lipgloss.NewStyle().Foreground(lipgloss.Color("#AF87FF")),
			weeks.WeekTypeDstTransition: lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7FF")),
		},
		RowLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Legend:   lipgloss.NewStyle().Italic(true),
	}
}

// PlainTheme renders glyphs only.
func PlainTheme() Theme {
	return Theme{
		Lived:    lipgloss.NewStyle(),
		Current:  lipgloss.NewStyle(),
		Future:   lipgloss.NewStyle(),
		RowLabel: lipgloss.NewStyle(),
		Legend:   lipgloss.NewStyle(),
	}
}

func (t Theme) styleFor(state cellState, weekType weeks.WeekType) lipgloss.Style {
	if state == stateCurrent {
		return t.Current
	}
	if style, ok := t.Special[weekType]; ok {
		return style
	}
	if state == stateLived {
		return t.Lived
	}
	return t.Future
}
