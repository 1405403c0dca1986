package views

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"figvault/internal/adapters/tui/styles"
	"figvault/internal/application/commands"
	"figvault/internal/domain"
	"figvault/internal/ports"
)

// BrowserKeyMap defines key bindings for the font browser
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Filter   key.Binding
	Copy     key.Binding
	Save     key.Binding
	SaveAll  key.Binding
	Settings key.Binding
	Rescan   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy preview"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	SaveAll: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "save all"),
	),
	Settings: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "text/width"),
	),
	Rescan: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rescan"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

const listWidth = 36

// BrowserOptions configures the font browser.
type BrowserOptions struct {
	FontRoot   string
	OutDir     string
	Recursive  bool
	Containers bool
}

// BrowserModel lists discovered fonts with a live preview pane. The
// selected font is rendered asynchronously; stale renders are dropped
// by sequence number when the cursor has moved on.
type BrowserModel struct {
	ViewState

	source  ports.Discovery
	preview *commands.PreviewCommand
	opts    BrowserOptions

	entries  []domain.FontEntry
	filtered []domain.FontEntry
	pag      *Paginator
	filter   textinput.Model
	filterOn bool

	previewBody string
	previewErr  string
	previewSeq  int
	rendering   bool

	settings   *InputForm
	settingsOn bool

	// per-session output name counters, shared with save-all
	saveCounts map[string]int
}

// NewBrowserModel creates a new font browser
func NewBrowserModel(source ports.Discovery, preview *commands.PreviewCommand, opts BrowserOptions) *BrowserModel {
	filter := textinput.New()
	filter.Placeholder = "filter fonts"
	filter.Prompt = "/ "

	return &BrowserModel{
		source:     source,
		preview:    preview,
		opts:       opts,
		pag:        NewPaginator(20),
		filter:     filter,
		saveCounts: make(map[string]int),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadFonts
}

// Reload rescans the font root
func (m *BrowserModel) Reload() tea.Cmd {
	m.previewBody = ""
	m.previewErr = ""
	return m.loadFonts
}

func (m *BrowserModel) loadFonts() tea.Msg {
	entries, err := m.source.Scan(ports.ScanOptions{
		Root:       m.opts.FontRoot,
		Recursive:  m.opts.Recursive,
		Containers: m.opts.Containers,
	})
	if err != nil {
		return errMsg{err}
	}
	return fontsLoadedMsg{entries: entries}
}

type fontsLoadedMsg struct {
	entries []domain.FontEntry
}

type errMsg struct {
	err error
}

type previewReadyMsg struct {
	seq  int
	body string
	err  error
}

type savedMsg struct {
	path string
}

type saveAllDoneMsg struct {
	result *commands.SaveAllResult
	err    error
}

// Messages for view switching
type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.pag.SetPageSize(m.listHeight())
		return m, nil

	case fontsLoadedMsg:
		m.entries = msg.entries
		m.applyFilter()
		return m, m.loadPreview()

	case previewReadyMsg:
		if msg.seq != m.previewSeq {
			return m, nil
		}
		m.rendering = false
		if msg.err != nil {
			m.previewBody = ""
			m.previewErr = msg.err.Error()
		} else {
			m.previewBody = msg.body
			m.previewErr = ""
		}
		return m, nil

	case savedMsg:
		m.SetMessage(fmt.Sprintf("Saved %s", msg.path), false)
		return m, nil

	case saveAllDoneMsg:
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
		} else if len(msg.result.Failures) > 0 {
			m.SetMessage(fmt.Sprintf("Saved %d outputs, %d renders failed", msg.result.Saved, len(msg.result.Failures)), true)
		} else {
			m.SetMessage(fmt.Sprintf("Saved %d outputs to %s", msg.result.Saved, m.opts.OutDir), false)
		}
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		if m.settingsOn {
			return m.updateSettings(msg)
		}
		if m.filterOn {
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m *BrowserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		if m.pag.CursorUp() {
			return m, m.loadPreview()
		}
		return m, nil

	case key.Matches(msg, BrowserKeys.Down):
		if m.pag.CursorDown() {
			return m, m.loadPreview()
		}
		return m, nil

	case key.Matches(msg, BrowserKeys.PageUp):
		if m.pag.PageUp() {
			return m, m.loadPreview()
		}
		return m, nil

	case key.Matches(msg, BrowserKeys.PageDown):
		if m.pag.PageDown() {
			return m, m.loadPreview()
		}
		return m, nil

	case key.Matches(msg, BrowserKeys.Filter):
		m.filterOn = true
		m.filter.Focus()
		return m, textinput.Blink

	case key.Matches(msg, BrowserKeys.Copy):
		if m.previewBody == "" {
			m.SetMessage("Nothing to copy", true)
			return m, nil
		}
		if err := clipboard.WriteAll(m.previewBody); err != nil {
			m.SetMessage(err.Error(), true)
		} else {
			m.SetMessage("Preview copied to clipboard", false)
		}
		return m, nil

	case key.Matches(msg, BrowserKeys.Save):
		return m, m.saveCurrent()

	case key.Matches(msg, BrowserKeys.SaveAll):
		return m, m.saveAll()

	case key.Matches(msg, BrowserKeys.Settings):
		m.openSettings()
		return m, m.settings.Init()

	case key.Matches(msg, BrowserKeys.Rescan):
		return m, m.Reload()

	case key.Matches(msg, BrowserKeys.Help):
		return m, func() tea.Msg {
			return SwitchToHelpMsg{}
		}
	}

	return m, nil
}

func (m *BrowserModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterOn = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, m.loadPreview()
	case "enter":
		m.filterOn = false
		m.filter.Blur()
		return m, nil
	case "up", "down":
		// Let the list keys work while the filter is focused
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
		return m, tea.Batch(cmd, m.loadPreview())
	}
	return m, cmd
}

func (m *BrowserModel) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.settings.Keys.Cancel):
		m.settingsOn = false
		return m, nil

	case key.Matches(msg, m.settings.Keys.Submit):
		text := m.settings.Value(0)
		if text != "" {
			m.preview.Text = text
		}
		if w, err := strconv.Atoi(m.settings.Value(1)); err == nil && w > 0 {
			m.preview.Width = w
		}
		m.settingsOn = false
		return m, m.loadPreview()
	}

	_, cmd := m.settings.Update(msg)
	return m, cmd
}

func (m *BrowserModel) openSettings() {
	m.settings = NewInputForm(
		NewInputField("Sample text", "Hello World", 120),
		NewInputField("Width", "80", 4),
	)
	m.settings.SetValue(0, m.preview.Text)
	m.settings.SetValue(1, strconv.Itoa(m.preview.Width))
	m.settingsOn = true
}

func (m *BrowserModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		m.filtered = m.entries
	} else {
		m.filtered = nil
		for _, e := range m.entries {
			if strings.Contains(strings.ToLower(e.DisplayPath()), query) {
				m.filtered = append(m.filtered, e)
			}
		}
	}
	m.pag.Reset()
	m.pag.SetPageSize(m.listHeight())
	m.pag.SetTotal(len(m.filtered))
}

func (m *BrowserModel) selected() (domain.FontEntry, bool) {
	i := m.pag.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return domain.FontEntry{}, false
	}
	return m.filtered[i], true
}

func (m *BrowserModel) loadPreview() tea.Cmd {
	entry, ok := m.selected()
	if !ok {
		m.previewBody = ""
		m.previewErr = ""
		return nil
	}

	m.previewSeq++
	seq := m.previewSeq
	m.rendering = true
	return func() tea.Msg {
		body, err := m.preview.Execute(context.Background(), entry)
		return previewReadyMsg{seq: seq, body: body, err: err}
	}
}

func (m *BrowserModel) saveCurrent() tea.Cmd {
	entry, ok := m.selected()
	if !ok || m.previewBody == "" {
		m.SetMessage("Nothing to save", true)
		return nil
	}

	// Path choice happens here so the counter map stays on the
	// update goroutine.
	if err := os.MkdirAll(m.opts.OutDir, 0755); err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}
	out := commands.OutputPath(m.opts.OutDir, "", commands.SanitizeName(entry, m.opts.FontRoot), m.saveCounts)
	body := commands.Frame(entry, m.previewBody)

	return func() tea.Msg {
		if err := os.WriteFile(out, []byte(body), 0644); err != nil {
			return errMsg{err}
		}
		return savedMsg{path: out}
	}
}

func (m *BrowserModel) saveAll() tea.Cmd {
	if len(m.filtered) == 0 {
		m.SetMessage("Nothing to save", true)
		return nil
	}

	fonts := m.filtered
	saver := commands.NewSaveAllCommand(m.preview, m.opts.FontRoot, m.opts.OutDir, "")
	m.SetMessage(fmt.Sprintf("Rendering %d fonts...", len(fonts)), false)
	return func() tea.Msg {
		result, err := saver.Execute(context.Background(), fonts)
		return saveAllDoneMsg{result: result, err: err}
	}
}

// listHeight is the number of font rows that fit above the footer.
func (m *BrowserModel) listHeight() int {
	h := m.Height - 8
	if h < 5 {
		h = 20
	}
	return h
}

// View renders the browser
func (m *BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("figvault"))
	b.WriteString("  ")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d fonts", len(m.filtered))))
	b.WriteString("\n")
	b.WriteString(RenderLabelValue("text", m.preview.Text))
	b.WriteString("  ")
	b.WriteString(RenderLabelValue("width", strconv.Itoa(m.preview.Width)))
	b.WriteString("\n\n")

	if m.settingsOn {
		b.WriteString(m.settings.RenderField(0))
		b.WriteString("\n")
		b.WriteString(m.settings.RenderField(1))
		b.WriteString("\n\n")
		b.WriteString(m.settings.RenderHelp("apply"))
		return styles.App.Render(b.String())
	}

	if m.filterOn || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), m.renderPreview()))
	b.WriteString("\n")

	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	}

	b.WriteString(RenderHelpLine(
		BrowserKeys.Filter, BrowserKeys.Copy, BrowserKeys.Save,
		BrowserKeys.SaveAll, BrowserKeys.Settings, BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderList() string {
	if len(m.filtered) == 0 {
		return styles.MutedText.Render("No fonts found")
	}

	var b strings.Builder
	start, end := m.pag.VisibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.filtered[i], i == m.pag.Cursor()))
		b.WriteString("\n")
	}
	if m.pag.TotalPages() > 1 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d", m.pag.CurrentPage(), m.pag.TotalPages())))
	}
	return lipgloss.NewStyle().Width(listWidth).Render(b.String())
}

func (m *BrowserModel) renderRow(entry domain.FontEntry, selected bool) string {
	badge := styles.KindBadge.Foreground(styles.KindColor(entry.Kind)).Render(strings.ToUpper(string(entry.Kind)))

	name := entry.BaseName()
	if len(name) > listWidth-6 {
		name = name[:listWidth-7] + "…"
	}

	if selected {
		return badge + " " + styles.FontSelected.Render(name)
	}
	if entry.IsVirtual() {
		return badge + " " + styles.FontRowVirtual.Render(name)
	}
	return badge + " " + styles.FontRow.Render(name)
}

func (m *BrowserModel) renderPreview() string {
	width := m.Width - listWidth - 10
	if width < 20 {
		width = 40
	}

	var body string
	switch {
	case m.rendering:
		body = styles.MutedText.Render("Rendering...")
	case m.previewErr != "":
		body = styles.ErrorMsg.Render(m.previewErr)
	case m.previewBody != "":
		body = m.previewBody
	default:
		body = styles.MutedText.Render("No preview")
	}

	title := ""
	if entry, ok := m.selected(); ok {
		title = styles.PreviewTitle.Render(entry.DisplayPath()) + "\n"
	}

	return styles.PreviewPane.Width(width).Render(title + body)
}
