package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"figvault/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	v := NewViewBuilder()
	v.Title("figvault Help")
	v.Subtitle("FIGlet font browser")

	v.Line(styles.InputLabel.Render("Navigation"))
	v.Raw(helpLine("j / k / ↑ / ↓", "Move up/down"))
	v.Raw(helpLine("pgup / pgdn", "Page up/down"))
	v.Raw(helpLine("/", "Filter fonts by name"))
	v.Raw(helpLine("esc", "Clear filter"))
	v.BlankLine()

	v.Line(styles.InputLabel.Render("Preview"))
	v.Raw(helpLine("t", "Change sample text and width"))
	v.Raw(helpLine("y", "Copy rendered preview to clipboard"))
	v.BlankLine()

	v.Line(styles.InputLabel.Render("Output"))
	v.Raw(helpLine("s", "Save current preview to a file"))
	v.Raw(helpLine("S", "Save renders of all listed fonts"))
	v.Raw(helpLine("r", "Rescan the font directory"))
	v.BlankLine()

	v.Line(styles.InputLabel.Render("General"))
	v.Raw(helpLine("?", "Toggle help"))
	v.Raw(helpLine("q / Ctrl+C", "Quit"))
	v.BlankLine()

	v.Muted("Fonts inside zip archives are listed as archive.zip::font.flf")
	v.Muted("and extracted on demand before rendering.")
	v.BlankLine()

	v.Raw(styles.HelpDesc.Render("Press "))
	v.Raw(styles.HelpKey.Render("esc"))
	v.Raw(styles.HelpDesc.Render(" or "))
	v.Raw(styles.HelpKey.Render("?"))
	v.Raw(styles.HelpDesc.Render(" to close"))

	return v.String()
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
