package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"figvault/internal/domain"
	"figvault/internal/ports"
)

// Vault implements ports.Vault over a destination directory tree.
type Vault struct {
	root string
}

// Ensure Vault implements the port
var _ ports.Vault = (*Vault)(nil)

// NewVault creates a vault rooted at the given directory.
func NewVault(root string) *Vault {
	abs, err := filepath.Abs(ExpandHome(root))
	if err != nil {
		abs = filepath.Clean(ExpandHome(root))
	}
	return &Vault{root: abs}
}

// Root returns the absolute destination root.
func (v *Vault) Root() string {
	return v.root
}

// EnsureRoot creates the root if needed and proves it is writable by
// creating and removing a probe file.
func (v *Vault) EnsureRoot() error {
	if err := os.MkdirAll(v.root, 0755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(v.root, ".figvault-probe-*")
	if err != nil {
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}

// Scan walks the root recursively and returns every allow-listed font
// file. Hidden directories (including the digest-cache directory) are
// skipped; an unreadable root is fatal.
func (v *Vault) Scan() ([]domain.VaultFile, error) {
	var files []domain.VaultFile

	err := filepath.WalkDir(v.root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			if path == v.root {
				return err
			}
			return nil
		}
		if de.IsDir() {
			if path != v.root && strings.HasPrefix(de.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := domain.KindForExtension(filepath.Ext(path)); !ok {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return nil
		}
		files = append(files, domain.VaultFile{
			RelPath: filepath.ToSlash(rel),
			Size:    info.Size(),
			Mtime:   info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan destination: %w", err)
	}
	return files, nil
}

// ReadFile reads a file by root-relative path.
func (v *Vault) ReadFile(relPath string) ([]byte, error) {
	return os.ReadFile(v.abs(relPath))
}

// Exists reports whether a root-relative path already exists.
func (v *Vault) Exists(relPath string) bool {
	_, err := os.Lstat(v.abs(relPath))
	return err == nil
}

// WriteFileAtomic writes data via a temporary sibling and atomic
// rename, so a failed copy never leaves a partial file at the
// destination path. An existing target is an error: the vault never
// overwrites.
func (v *Vault) WriteFileAtomic(relPath string, data []byte) error {
	target := v.abs(relPath)
	if _, err := os.Lstat(target); err == nil {
		return fmt.Errorf("destination already exists: %s", relPath)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".figvault-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (v *Vault) abs(relPath string) string {
	return filepath.Join(v.root, filepath.FromSlash(relPath))
}
