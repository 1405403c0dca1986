package filesystem

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"figvault/internal/domain"
	"figvault/internal/ports"
)

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// Discovery implements ports.Discovery over the local filesystem,
// including zip containers whose inner entries become virtual fonts.
type Discovery struct {
	cacheDir string
}

// Ensure Discovery implements the port
var _ ports.Discovery = (*Discovery)(nil)

// NewDiscovery creates a filesystem discovery. Container extracts land
// under the user cache directory.
func NewDiscovery() *Discovery {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return &Discovery{cacheDir: filepath.Join(base, "figvault", "containers")}
}

// Scan returns the allow-listed font entries under the root, sorted by
// display path. Unreadable files and directories are skipped.
func (d *Discovery) Scan(opts ports.ScanOptions) ([]domain.FontEntry, error) {
	root, err := filepath.Abs(ExpandHome(opts.Root))
	if err != nil {
		return nil, err
	}

	excludes := make([]string, 0, len(opts.ExcludePrefixes))
	for _, p := range opts.ExcludePrefixes {
		if abs, err := filepath.Abs(ExpandHome(p)); err == nil {
			excludes = append(excludes, abs)
		}
	}

	var entries []domain.FontEntry

	if !opts.Recursive {
		dirEntries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		for _, de := range dirEntries {
			if de.IsDir() {
				continue
			}
			entries = append(entries, d.probe(filepath.Join(root, de.Name()), opts.Containers)...)
		}
	} else {
		walkErr := filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				return nil // unreadable subtree: skip, not fatal
			}
			if de.IsDir() {
				if path != root && (underAny(path, excludes) || strings.HasPrefix(de.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			entries = append(entries, d.probe(path, opts.Containers)...)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("scan source: %w", walkErr)
		}
	}

	domain.SortEntries(entries)
	return entries, nil
}

// probe classifies one file: a zip container yields its matching inner
// entries, an allow-listed extension yields the file itself, anything
// else yields nothing.
func (d *Discovery) probe(path string, containers bool) []domain.FontEntry {
	kind, allowed := domain.KindForExtension(filepath.Ext(path))
	isZipExt := strings.EqualFold(filepath.Ext(path), ".zip")
	if !allowed && !isZipExt {
		return nil
	}

	if containers && isZipLike(path) {
		if inner := listContainer(path); len(inner) > 0 {
			return inner
		}
	}
	if !allowed {
		return nil
	}
	return []domain.FontEntry{{Path: path, Kind: kind}}
}

// Read returns the raw bytes of an entry, reaching into the container
// for virtual entries.
func (d *Discovery) Read(entry domain.FontEntry) ([]byte, error) {
	if !entry.IsVirtual() {
		return os.ReadFile(entry.Path)
	}

	r, err := zip.OpenReader(entry.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w", entry.SourcePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entry.InnerName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", entry.DisplayPath(), err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("container entry not found: %s", entry.DisplayPath())
}

// Materialize guarantees an on-disk path an external renderer process
// can open. Container entries are extracted into a digest-keyed cache
// directory; reruns reuse the existing extract.
func (d *Discovery) Materialize(entry domain.FontEntry) (domain.FontEntry, error) {
	if !entry.IsVirtual() || entry.Path != "" {
		return entry, nil
	}

	data, err := d.Read(entry)
	if err != nil {
		return entry, err
	}

	key := domain.DigestOf(bytes.Join([][]byte{
		[]byte(entry.SourcePath), []byte(entry.InnerName), data,
	}, []byte{0}))

	dir := filepath.Join(d.cacheDir, key.Hex())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return entry, fmt.Errorf("container cache: %w", err)
	}

	target := filepath.Join(dir, filepath.Base(entry.InnerName))
	if _, err := os.Stat(target); os.IsNotExist(err) {
		if err := os.WriteFile(target, data, 0644); err != nil {
			return entry, fmt.Errorf("container cache: %w", err)
		}
	}

	entry.Path = target
	return entry, nil
}

// listContainer returns the allow-listed entries inside a zip, or nil
// when the file is not a readable zip.
func listContainer(path string) []domain.FontEntry {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil
	}
	defer r.Close()

	var entries []domain.FontEntry
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		kind, ok := domain.KindForExtension(filepath.Ext(f.Name))
		if !ok {
			continue
		}
		entries = append(entries, domain.FontEntry{
			Kind:       kind,
			SourcePath: path,
			InnerName:  f.Name,
		})
	}
	return entries
}

// isZipLike sniffs the zip magic so containers are recognized whatever
// their extension claims.
func isZipLike(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, 4)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return bytes.Equal(header, zipMagic)
}

// underAny reports whether path is one of the prefixes or below it.
func underAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ExpandHome resolves a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
