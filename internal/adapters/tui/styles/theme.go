package styles

import (
	"github.com/charmbracelet/lipgloss"

	"figvault/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Font kind colors
	KindFIGlet = lipgloss.Color("#60A5FA") // Blue
	KindTOIlet = lipgloss.Color("#EC4899") // Pink

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Font list styles
	FontRow = lipgloss.NewStyle()

	FontRowVirtual = lipgloss.NewStyle().
			Foreground(Warning)

	FontSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	KindBadge = lipgloss.NewStyle().
			Bold(true)

	// Preview pane
	PreviewPane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1)

	PreviewTitle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// KindColor returns the accent color for a font kind.
func KindColor(kind domain.FontKind) lipgloss.Color {
	switch kind {
	case domain.KindTOIlet:
		return KindTOIlet
	default:
		return KindFIGlet
	}
}
