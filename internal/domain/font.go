package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// FontKind identifies the font format family of an entry.
type FontKind string

const (
	KindFIGlet FontKind = "flf"
	KindTOIlet FontKind = "tlf"
)

// AllowedExtensions maps the lowercase file extensions the vault accepts
// to their format family.
var AllowedExtensions = map[string]FontKind{
	".flf": KindFIGlet,
	".tlf": KindTOIlet,
}

// KindForExtension returns the format family for a file extension, or
// false if the extension is not allow-listed. Matching is case-insensitive.
func KindForExtension(ext string) (FontKind, bool) {
	kind, ok := AllowedExtensions[strings.ToLower(ext)]
	return kind, ok
}

// FontEntry represents a discovered font file, either directly on disk or
// inside a container archive.
type FontEntry struct {
	Path       string   // on-disk path to feed the renderer (may be a cache extract)
	Kind       FontKind // flf or tlf
	SourcePath string   // container archive location, empty for plain files
	InnerName  string   // path inside the container, empty for plain files
}

// IsVirtual reports whether the entry lives inside a container archive.
func (e FontEntry) IsVirtual() bool {
	return e.SourcePath != "" && e.InnerName != ""
}

// BaseName returns the font name without directory or extension; this is
// the name figlet expects with -f. Virtual entries that have not been
// materialized yet fall back to their inner name.
func (e FontEntry) BaseName() string {
	name := filepath.Base(e.Path)
	if e.Path == "" && e.InnerName != "" {
		name = filepath.Base(e.InnerName)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Dir returns the directory holding the on-disk font file.
func (e FontEntry) Dir() string {
	return filepath.Dir(e.Path)
}

// DisplayPath returns the path shown to users. Container entries render
// as "archive.zip::inner.flf".
func (e FontEntry) DisplayPath() string {
	if e.IsVirtual() {
		return e.SourcePath + "::" + filepath.Base(e.InnerName)
	}
	return e.Path
}

// SortEntries orders entries by display path, case-insensitive.
func SortEntries(entries []FontEntry) {
	slices.SortFunc(entries, func(a, b FontEntry) int {
		return strings.Compare(strings.ToLower(a.DisplayPath()), strings.ToLower(b.DisplayPath()))
	})
}
