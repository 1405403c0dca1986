package filesystem

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"figvault/internal/domain"
	"figvault/internal/ports"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func writeZip(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.Bytes())
}

func testDiscovery(t *testing.T) *Discovery {
	t.Helper()
	d := NewDiscovery()
	d.cacheDir = filepath.Join(t.TempDir(), "containers")
	return d
}

func TestScan_ExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.flf"), []byte("a"))
	writeFile(t, filepath.Join(root, "b.TLF"), []byte("b"))
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("x"))
	writeFile(t, filepath.Join(root, "c.flc"), []byte("charmap"))

	entries, err := testDiscovery(t).Scan(ports.ScanOptions{Root: root})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: %+v", entries)
	}
	if entries[0].Kind != domain.KindFIGlet || entries[1].Kind != domain.KindTOIlet {
		t.Errorf("kinds: %+v", entries)
	}
}

func TestScan_NonRecursiveStaysTopLevel(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.flf"), []byte("t"))
	writeFile(t, filepath.Join(root, "sub", "nested.flf"), []byte("n"))

	entries, err := testDiscovery(t).Scan(ports.ScanOptions{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || filepath.Base(entries[0].Path) != "top.flf" {
		t.Errorf("entries: %+v", entries)
	}
}

func TestScan_RecursiveWithExclusion(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.flf"), []byte("t"))
	writeFile(t, filepath.Join(root, "sub", "nested.flf"), []byte("n"))
	writeFile(t, filepath.Join(root, "vault", "imported.flf"), []byte("v"))
	// Sibling directory whose name shares the excluded prefix string.
	writeFile(t, filepath.Join(root, "vault2", "other.flf"), []byte("o"))

	entries, err := testDiscovery(t).Scan(ports.ScanOptions{
		Root:            root,
		Recursive:       true,
		ExcludePrefixes: []string{filepath.Join(root, "vault")},
	})
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, filepath.Base(e.Path))
	}
	want := map[string]bool{"top.flf": true, "nested.flf": true, "other.flf": true}
	if len(names) != len(want) {
		t.Fatalf("names: %v", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected entry %s", n)
		}
	}
}

func TestScan_SortedByDisplayPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Zulu.flf"), []byte("z"))
	writeFile(t, filepath.Join(root, "alpha.flf"), []byte("a"))

	entries, err := testDiscovery(t).Scan(ports.ScanOptions{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(entries[0].Path) != "alpha.flf" {
		t.Errorf("order: %+v", entries)
	}
}

func TestScan_Containers(t *testing.T) {
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "pack.zip"), map[string][]byte{
		"inner/slant.flf": []byte("slant data"),
		"readme.txt":      []byte("not a font"),
	})

	d := testDiscovery(t)
	entries, err := d.Scan(ports.ScanOptions{Root: root, Containers: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries: %+v", entries)
	}
	e := entries[0]
	if !e.IsVirtual() || e.InnerName != "inner/slant.flf" {
		t.Fatalf("entry: %+v", e)
	}

	data, err := d.Read(e)
	if err != nil || string(data) != "slant data" {
		t.Fatalf("Read = %q, %v", data, err)
	}
}

func TestScan_ContainersDisabled(t *testing.T) {
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "pack.zip"), map[string][]byte{
		"slant.flf": []byte("data"),
	})

	entries, err := testDiscovery(t).Scan(ports.ScanOptions{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("zip should be ignored without container probing: %+v", entries)
	}
}

func TestMaterialize_ExtractsOnceAndReuses(t *testing.T) {
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "pack.zip"), map[string][]byte{
		"slant.flf": []byte("font bytes"),
	})

	d := testDiscovery(t)
	entries, err := d.Scan(ports.ScanOptions{Root: root, Containers: true})
	if err != nil {
		t.Fatal(err)
	}

	first, err := d.Materialize(entries[0])
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if first.Path == "" {
		t.Fatal("no on-disk path")
	}
	data, err := os.ReadFile(first.Path)
	if err != nil || string(data) != "font bytes" {
		t.Fatalf("extract = %q, %v", data, err)
	}

	second, err := d.Materialize(entries[0])
	if err != nil {
		t.Fatal(err)
	}
	if second.Path != first.Path {
		t.Errorf("extract not reused: %q vs %q", second.Path, first.Path)
	}

	// Already-materialized entries pass through.
	third, err := d.Materialize(first)
	if err != nil || third.Path != first.Path {
		t.Errorf("materialized entry changed: %+v, %v", third, err)
	}
}

func TestMaterialize_PlainEntryPassesThrough(t *testing.T) {
	e := domain.FontEntry{Path: "/fonts/slant.flf", Kind: domain.KindFIGlet}
	got, err := testDiscovery(t).Materialize(e)
	if err != nil || got != e {
		t.Errorf("got %+v, %v", got, err)
	}
}

func TestZipDisguisedAsFontExtension(t *testing.T) {
	// Some collections ship zips renamed to .flf; the magic-number probe
	// still finds the real fonts inside.
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "bundle.flf"), map[string][]byte{
		"real.flf": []byte("real font"),
	})

	entries, err := testDiscovery(t).Scan(ports.ScanOptions{Root: root, Containers: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !entries[0].IsVirtual() {
		t.Fatalf("entries: %+v", entries)
	}
}
