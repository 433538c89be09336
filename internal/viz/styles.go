package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	brakeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	powerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true)
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// SpeedBar renders current speed against the active limit as a bar.
// The bar turns orange past 90% of the limit and red above it.
func SpeedBar(v, limit float64, width int) string {
	if limit <= 0 || width <= 0 {
		return ""
	}
	ratio := v / limit
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
	switch {
	case ratio > 1:
		return brakeStyle.Render(bar)
	case ratio > 0.9:
		return alertStyle.Render(bar)
	default:
		return valueStyle.Render(bar)
	}
}

// NotchGauge renders the notch position as B3..N..P3 with the active
// cell highlighted.
func NotchGauge(n int) string {
	var b strings.Builder
	for i := -3; i <= 3; i++ {
		cell := "·"
		if i == 0 {
			cell = "N"
		}
		if i == n {
			switch {
			case i < 0:
				cell = brakeStyle.Render("B")
			case i > 0:
				cell = powerStyle.Render("P")
			default:
				cell = valueStyle.Render("N")
			}
		}
		b.WriteString(cell)
	}
	return b.String()
}
