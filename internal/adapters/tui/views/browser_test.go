package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"figvault/internal/application/commands"
	"figvault/internal/domain"
	"figvault/internal/ports"
)

type stubDiscovery struct {
	entries []domain.FontEntry
}

func (d *stubDiscovery) Scan(opts ports.ScanOptions) ([]domain.FontEntry, error) {
	return d.entries, nil
}

func (d *stubDiscovery) Read(entry domain.FontEntry) ([]byte, error) {
	return nil, nil
}

func (d *stubDiscovery) Materialize(entry domain.FontEntry) (domain.FontEntry, error) {
	return entry, nil
}

type stubRenderer struct{}

func (r *stubRenderer) Render(ctx context.Context, req ports.RenderRequest) ([]byte, error) {
	return []byte("rendered " + req.Text), nil
}

func testEntries() []domain.FontEntry {
	return []domain.FontEntry{
		{Path: "/fonts/banner.flf", Kind: domain.KindFIGlet},
		{Path: "/fonts/future.tlf", Kind: domain.KindTOIlet},
		{Path: "/fonts/slant.flf", Kind: domain.KindFIGlet},
	}
}

func newTestBrowser(entries []domain.FontEntry) *BrowserModel {
	source := &stubDiscovery{entries: entries}
	preview := commands.NewPreviewCommand(&stubRenderer{}, source, "Hello", 80, "", time.Second)
	m := NewBrowserModel(source, preview, BrowserOptions{FontRoot: "/fonts", OutDir: "/tmp/out"})
	m.Update(fontsLoadedMsg{entries: entries})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestBrowser_LoadsAndSelectsFirst(t *testing.T) {
	m := newTestBrowser(testEntries())

	if len(m.filtered) != 3 {
		t.Fatalf("filtered = %d, want 3", len(m.filtered))
	}
	entry, ok := m.selected()
	if !ok || entry.Path != "/fonts/banner.flf" {
		t.Errorf("selected = %v, %v", entry.Path, ok)
	}
}

func TestBrowser_CursorMovement(t *testing.T) {
	m := newTestBrowser(testEntries())

	m.Update(keyMsg("j"))
	if entry, _ := m.selected(); entry.Path != "/fonts/future.tlf" {
		t.Errorf("after j: selected %s", entry.Path)
	}

	m.Update(keyMsg("k"))
	if entry, _ := m.selected(); entry.Path != "/fonts/banner.flf" {
		t.Errorf("after k: selected %s", entry.Path)
	}

	// Cursor stays clamped at the top
	m.Update(keyMsg("k"))
	if entry, _ := m.selected(); entry.Path != "/fonts/banner.flf" {
		t.Errorf("after second k: selected %s", entry.Path)
	}
}

func TestBrowser_FilterNarrowsList(t *testing.T) {
	m := newTestBrowser(testEntries())

	m.Update(keyMsg("/"))
	if !m.filterOn {
		t.Fatal("filter should be focused after /")
	}
	for _, r := range "slant" {
		m.Update(keyMsg(string(r)))
	}

	if len(m.filtered) != 1 {
		t.Fatalf("filtered = %d, want 1", len(m.filtered))
	}
	if entry, _ := m.selected(); entry.Path != "/fonts/slant.flf" {
		t.Errorf("selected %s", entry.Path)
	}

	// Esc clears the filter and restores the full list
	m.Update(keyMsg("esc"))
	if m.filterOn || len(m.filtered) != 3 {
		t.Errorf("after esc: filterOn=%v filtered=%d", m.filterOn, len(m.filtered))
	}
}

func TestBrowser_StalePreviewDropped(t *testing.T) {
	m := newTestBrowser(testEntries())
	staleSeq := m.previewSeq

	// Moving the cursor schedules a new render with a later sequence
	m.Update(keyMsg("j"))

	m.Update(previewReadyMsg{seq: staleSeq, body: "stale output"})
	if m.previewBody == "stale output" {
		t.Error("stale render result should be ignored")
	}

	m.Update(previewReadyMsg{seq: m.previewSeq, body: "fresh output"})
	if m.previewBody != "fresh output" {
		t.Errorf("previewBody = %q", m.previewBody)
	}
}

func TestBrowser_PreviewErrorShown(t *testing.T) {
	m := newTestBrowser(testEntries())

	m.Update(previewReadyMsg{seq: m.previewSeq, err: context.DeadlineExceeded})
	if m.previewErr == "" {
		t.Error("previewErr should be set on render failure")
	}
	if m.previewBody != "" {
		t.Errorf("previewBody = %q, want empty", m.previewBody)
	}
}

func TestBrowser_SettingsUpdatePreviewParams(t *testing.T) {
	m := newTestBrowser(testEntries())

	m.Update(keyMsg("t"))
	if !m.settingsOn {
		t.Fatal("settings should open on t")
	}

	m.settings.SetValue(0, "Testing")
	m.settings.SetValue(1, "120")
	m.Update(keyMsg("enter"))

	if m.settingsOn {
		t.Error("settings should close on enter")
	}
	if m.preview.Text != "Testing" || m.preview.Width != 120 {
		t.Errorf("preview params = %q, %d", m.preview.Text, m.preview.Width)
	}
}

func TestBrowser_EmptyListHasNoSelection(t *testing.T) {
	m := newTestBrowser(nil)

	if _, ok := m.selected(); ok {
		t.Error("selected should report false for an empty list")
	}
	if cmd := m.loadPreview(); cmd != nil {
		t.Error("loadPreview should be a no-op for an empty list")
	}
}
