package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))
	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	gainStyle = lipgloss.NewStyle().Bold(true)
	okIcon    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
	failIcon  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Render("✗")
)

// renderOutcome formats one analyzed file as a single summary line
func renderOutcome(o fileOutcome) string {
	if o.Error != "" {
		return fmt.Sprintf("%s %s  %s %s", failIcon, fileStyle.Render(o.File), dimStyle.Render(o.Code), o.Error)
	}
	gain := "n/a"
	if o.ReplayGain != nil {
		gain = fmt.Sprintf("%+.2f dB", *o.ReplayGain)
	}
	line := fmt.Sprintf("%s %s  %s", okIcon, fileStyle.Render(o.File), gainStyle.Render(gain))
	if o.ID != "" {
		line += "  " + dimStyle.Render(o.ID)
	}
	return line
}
