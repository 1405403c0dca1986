package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVault_ScanFindsFontsRecursively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.flf"), []byte("a"))
	writeFile(t, filepath.Join(root, "sub", "b.tlf"), []byte("bb"))
	writeFile(t, filepath.Join(root, "import.log.jsonl"), []byte("{}"))
	writeFile(t, filepath.Join(root, ".figvault", "digests.db"), []byte("db"))

	v := NewVault(root)
	files, err := v.Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files: %+v", files)
	}
	for _, f := range files {
		if strings.Contains(f.RelPath, ".figvault") {
			t.Errorf("cache directory leaked into scan: %s", f.RelPath)
		}
		if f.Size == 0 {
			t.Errorf("missing size for %s", f.RelPath)
		}
	}
}

func TestVault_WriteFileAtomic(t *testing.T) {
	v := NewVault(t.TempDir())
	if err := v.EnsureRoot(); err != nil {
		t.Fatal(err)
	}

	if err := v.WriteFileAtomic("sub/a.flf", []byte("data")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := v.ReadFile("sub/a.flf")
	if err != nil || string(got) != "data" {
		t.Fatalf("read back %q, %v", got, err)
	}
	if !v.Exists("sub/a.flf") {
		t.Error("Exists is false after write")
	}

	// Never overwrite.
	if err := v.WriteFileAtomic("sub/a.flf", []byte("other")); err == nil {
		t.Fatal("expected overwrite to fail")
	}
	got, _ = v.ReadFile("sub/a.flf")
	if string(got) != "data" {
		t.Errorf("original clobbered: %q", got)
	}

	// No temp litter.
	entries, err := os.ReadDir(filepath.Join(v.Root(), "sub"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".figvault-tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestVault_EnsureRootCreates(t *testing.T) {
	root := filepath.Join(t.TempDir(), "new", "vault")
	v := NewVault(root)
	if err := v.EnsureRoot(); err != nil {
		t.Fatalf("EnsureRoot failed: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}
