package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
)

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF4D4D")
	ColorGreen   = lipgloss.Color("#5FD787")
	ColorYellow  = lipgloss.Color("#FFD75F")
	ColorRose    = lipgloss.Color("#FF87AF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// SegmentColors tints each intensity, from a pale blush to deep red.
var SegmentColors = map[content.Segment]lipgloss.Color{
	content.Level1: lipgloss.Color("#F8BBD0"),
	content.Level2: lipgloss.Color("#F48FB1"),
	content.Level3: lipgloss.Color("#F06292"),
	content.Level4: lipgloss.Color("#E91E63"),
	content.Level5: lipgloss.Color("#C2185B"),
	content.Climax: lipgloss.Color("#B71C1C"),
}

// SegmentColor returns the theme colour of seg, rose when unknown.
func SegmentColor(seg content.Segment) lipgloss.Color {
	if c, ok := SegmentColors[seg]; ok {
		return c
	}
	return ColorRose
}

// SegmentBadge renders seg's label on its theme colour.
func SegmentBadge(seg content.Segment, label string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(SegmentColor(seg)).
		Padding(0, 1).
		Render(label)
}

// ProgressBar renders done/total as a bar of width cells in seg's colour.
func ProgressBar(seg content.Segment, done, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = min(width, max(0, done*width/total))
	}
	fill := lipgloss.NewStyle().Foreground(SegmentColor(seg)).Render(strings.Repeat("█", filled))
	rest := LevelGrayStyle.Render(strings.Repeat("░", width-filled))
	return fill + rest
}

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRose)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	RunningDotStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	PausedDotStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ActionTextStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	SecondaryTextStyle = lipgloss.NewStyle().
				Foreground(ColorRose)

	CooldownStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorGray)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRose).
			Underline(true).
			Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorRose).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	LevelGrayStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)
