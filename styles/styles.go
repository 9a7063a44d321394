package styles

import "github.com/charmbracelet/lipgloss"

// https://github.com/inngest/inngest/blob/main/pkg/cli/styles.go
var (
	Red   = lipgloss.Color("#ff0000")
	White = lipgloss.Color("#ffffff")

	// Status Bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#343433", Dark: "#C1C6B2"}).
			Background(lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#353533"})

	StatusStyle = lipgloss.NewStyle().
			Inherit(StatusBarStyle).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#FF5F87")).
			Padding(0, 1).
			MarginRight(1)

	StatusNugget = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Padding(0, 1)

	// Last note event.
	NoteStyle = StatusNugget.Copy().
			Background(lipgloss.Color("#A550DF"))

	// Hold time stats.
	HoldStyle = StatusNugget.Copy().
			Background(lipgloss.Color("#e783f2")).
			Align(lipgloss.Right)

	StatusText = lipgloss.NewStyle().Inherit(StatusBarStyle)

	HelpMenu = lipgloss.NewStyle().Align(lipgloss.Left).PaddingLeft(1)
)

// RenderError returns a formatted error string.
func RenderError(msg string) string {
	// Error applies styles to an error message
	err := lipgloss.NewStyle().Background(Red).Foreground(White).Bold(true).Padding(0, 1).Render("Error")
	content := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(msg)
	return err + content
}

// StatusBar lays out the status nuggets over width: the label, a stretching
// description, then the right-aligned extras.
func StatusBar(width int, label, desc string, extras ...string) string {
	left := StatusStyle.Render(label)
	right := lipgloss.JoinHorizontal(lipgloss.Top, extras...)

	descWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if descWidth < 0 {
		descWidth = 0
	}
	middle := StatusText.Copy().Width(descWidth).MaxWidth(descWidth).Render(desc)

	bar := lipgloss.JoinHorizontal(lipgloss.Top, left, middle, right)
	return StatusBarStyle.Copy().MaxWidth(width).Render(bar)
}
