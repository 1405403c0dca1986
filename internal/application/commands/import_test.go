package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"figvault/internal/adapters/filesystem"
	"figvault/internal/application"
	"figvault/internal/domain"
	"figvault/internal/ports"
)

// fakeRenderer renders a font by reading its file: a body of
// "RENDER:<text>" renders as <text>, anything else fails. Extra lines
// after the first let tests create byte-distinct fonts with identical
// rendered output.
type fakeRenderer struct{}

func (fakeRenderer) Render(_ context.Context, req ports.RenderRequest) ([]byte, error) {
	data, err := os.ReadFile(req.Font.Path)
	if err != nil {
		return nil, &application.RenderError{Font: req.Font.DisplayPath(), Err: err}
	}
	body := string(data)
	if !strings.HasPrefix(body, "RENDER:") {
		return nil, &application.RenderError{
			Font:   req.Font.DisplayPath(),
			Stderr: "unknown font format",
			Err:    application.ErrRenderFailed,
		}
	}
	first := strings.SplitN(strings.TrimPrefix(body, "RENDER:"), "\n", 2)[0]
	return []byte(first), nil
}

// collectSink records events in emission order.
type collectSink struct {
	events []domain.ImportEvent
}

func (s *collectSink) Emit(e domain.ImportEvent) error { s.events = append(s.events, e); return nil }
func (s *collectSink) Close() error                    { return nil }

func writeFont(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func runImport(t *testing.T, source, dest string, opts ImportOptions) (*ImportResult, []domain.ImportEvent) {
	t.Helper()

	opts.SourceRoot = source
	if opts.SampleText == "" {
		opts.SampleText = "Hello"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}

	discovery := filesystem.NewDiscovery()
	vault := filesystem.NewVault(dest)
	engine := &application.FingerprintEngine{
		Renderer:   fakeRenderer{},
		Source:     discovery,
		SampleText: opts.SampleText,
		Timeout:    opts.Timeout,
	}
	sink := &collectSink{}

	cmd := NewImportCommand(discovery, vault, engine, sink, nil, nil, opts)
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	return result, sink.events
}

func TestImport_CopyRenameSkipSequence(t *testing.T) {
	dest := t.TempDir()

	// First run: fresh a.flf with bytes X.
	src1 := t.TempDir()
	writeFont(t, src1, "a.flf", "X")
	result, events := runImport(t, src1, dest, ImportOptions{})
	if result.Copied != 1 || result.Renamed != 0 || result.Skipped != 0 {
		t.Fatalf("run 1: %+v", result)
	}
	if events[0].Outcome != domain.OutcomeCopied || filepath.Base(events[0].Dest) != "a.flf" {
		t.Fatalf("run 1 event: %+v", events[0])
	}

	// Second run: same name, different bytes — versioned rename.
	src2 := t.TempDir()
	writeFont(t, src2, "a.flf", "Y")
	result, events = runImport(t, src2, dest, ImportOptions{})
	if result.Renamed != 1 {
		t.Fatalf("run 2: %+v", result)
	}
	if events[0].Outcome != domain.OutcomeCopiedRenamed || filepath.Base(events[0].Dest) != "a_v02.flf" {
		t.Fatalf("run 2 event: %+v", events[0])
	}
	if !events[0].NameConflict {
		t.Error("run 2: expected a name conflict")
	}

	// Third run: original bytes under a new name — duplicate content.
	src3 := t.TempDir()
	writeFont(t, src3, "b.flf", "X")
	result, events = runImport(t, src3, dest, ImportOptions{})
	if result.Skipped != 1 {
		t.Fatalf("run 3: %+v", result)
	}
	if events[0].Outcome != domain.OutcomeSkippedDuplicate || !events[0].ContentDuplicate {
		t.Fatalf("run 3 event: %+v", events[0])
	}
	if !strings.Contains(events[0].Reason, "a.flf") {
		t.Errorf("run 3 reason should name the existing copy: %q", events[0].Reason)
	}

	// The destination holds exactly the two distinct contents.
	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".flf") {
			names = append(names, e.Name())
		}
	}
	if len(names) != 2 {
		t.Errorf("destination files: %v", names)
	}
}

func TestImport_DuplicateClosureWithinOneRun(t *testing.T) {
	src := t.TempDir()
	writeFont(t, src, "one.flf", "SAME")
	writeFont(t, src, "two.flf", "SAME")
	writeFont(t, src, "three.flf", "SAME")

	result, events := runImport(t, src, t.TempDir(), ImportOptions{})
	if result.Copied != 1 || result.Skipped != 2 {
		t.Fatalf("expected 1 copy + 2 skips, got %+v", result)
	}
	if len(events) != result.Candidates {
		t.Errorf("event count %d != candidate count %d", len(events), result.Candidates)
	}
}

func TestImport_VersionMonotonicityAcrossRuns(t *testing.T) {
	dest := t.TempDir()
	for i, content := range []string{"v1", "v2", "v3", "v4"} {
		src := t.TempDir()
		writeFont(t, src, "block.flf", content)
		_, events := runImport(t, src, dest, ImportOptions{})
		want := "block.flf"
		if i > 0 {
			want = domain.VersionedName("block", ".flf", i+1)
		}
		if filepath.Base(events[0].Dest) != want {
			t.Fatalf("acceptance %d landed at %q, want %q", i+1, events[0].Dest, want)
		}
	}
}

func TestImport_OutputStrategy(t *testing.T) {
	src := t.TempDir()
	// Byte-distinct fonts with identical rendered output.
	writeFont(t, src, "first.flf", "RENDER:GLYPHS\n#variant one")
	writeFont(t, src, "second.flf", "RENDER:GLYPHS\n#variant two")
	// TOIlet fonts have no deterministic renderer under this strategy.
	writeFont(t, src, "third.tlf", "RENDER:GLYPHS")

	result, events := runImport(t, src, t.TempDir(), ImportOptions{Strategy: domain.StrategyOutput})
	if result.Copied != 1 || result.Skipped != 1 || result.Errors != 1 {
		t.Fatalf("result: %+v", result)
	}

	byName := map[string]domain.ImportEvent{}
	for _, e := range events {
		byName[filepath.Base(e.Source)] = e
	}
	if byName["first.flf"].Outcome != domain.OutcomeCopied {
		t.Errorf("first.flf: %+v", byName["first.flf"])
	}
	if byName["second.flf"].Outcome != domain.OutcomeSkippedDuplicate {
		t.Errorf("second.flf: %+v", byName["second.flf"])
	}
	tlf := byName["third.tlf"]
	if tlf.Outcome != domain.OutcomeErrorFingerprint || tlf.Reason != "UnsupportedFormat" {
		t.Errorf("third.tlf: %+v", tlf)
	}
}

func TestImport_RenderFailureIsPerFile(t *testing.T) {
	src := t.TempDir()
	writeFont(t, src, "good.flf", "RENDER:OK")
	writeFont(t, src, "bad.flf", "not a renderable font")

	result, events := runImport(t, src, t.TempDir(), ImportOptions{Strategy: domain.StrategyOutput})
	if result.Copied != 1 || result.Errors != 1 {
		t.Fatalf("result: %+v", result)
	}
	for _, e := range events {
		if filepath.Base(e.Source) == "bad.flf" {
			if e.Outcome != domain.OutcomeErrorFingerprint || e.Reason != "RenderFailed" {
				t.Errorf("bad.flf event: %+v", e)
			}
		}
	}
}

func TestImport_SelfExclusion(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(src, "vault")
	writeFont(t, src, "outside.flf", "A")
	writeFont(t, dest, "inside.flf", "B")

	result, _ := runImport(t, src, dest, ImportOptions{Recursive: true})
	if result.Candidates != 1 {
		t.Fatalf("the vault's own files leaked into discovery: %+v", result)
	}
	if result.Copied != 1 {
		t.Fatalf("result: %+v", result)
	}
	// Running again changes nothing: the one candidate is now a known
	// duplicate.
	result, _ = runImport(t, src, dest, ImportOptions{Recursive: true})
	if result.Copied != 0 || result.Skipped != 1 {
		t.Fatalf("rerun result: %+v", result)
	}
}

func TestImport_RejectsEqualRoots(t *testing.T) {
	dir := t.TempDir()
	discovery := filesystem.NewDiscovery()
	vault := filesystem.NewVault(dir)
	engine := &application.FingerprintEngine{Renderer: fakeRenderer{}, Source: discovery}
	cmd := NewImportCommand(discovery, vault, engine, &collectSink{}, nil, nil, ImportOptions{
		SourceRoot: dir,
		SampleText: "Hello",
	})

	_, err := cmd.Execute(context.Background())
	var verr *application.ValidationError
	if err == nil || !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImport_PreserveStructureAndSubfolder(t *testing.T) {
	src := t.TempDir()
	writeFont(t, filepath.Join(src, "decorative"), "ivrit.flf", "IVRIT")
	dest := t.TempDir()

	_, events := runImport(t, src, dest, ImportOptions{
		Recursive:         true,
		PreserveStructure: true,
		Subfolder:         "imported",
	})
	want := filepath.Join(dest, "imported", "decorative", "ivrit.flf")
	if events[0].Dest != want {
		t.Fatalf("dest = %q, want %q", events[0].Dest, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("file missing: %v", err)
	}
}

func TestImport_CandidateVersionSuffixFoldsIntoSequence(t *testing.T) {
	dest := t.TempDir()
	src1 := t.TempDir()
	writeFont(t, src1, "roman.flf", "one")
	runImport(t, src1, dest, ImportOptions{})

	// A source file already carrying a version suffix joins roman's
	// sequence instead of starting its own.
	src2 := t.TempDir()
	writeFont(t, src2, "roman_v05.flf", "two")
	_, events := runImport(t, src2, dest, ImportOptions{})
	if filepath.Base(events[0].Dest) != "roman_v02.flf" {
		t.Fatalf("dest = %q, want roman_v02.flf", events[0].Dest)
	}
}
