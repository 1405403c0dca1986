package ports

import "figvault/internal/domain"

// ScanOptions controls a discovery pass over a font tree.
type ScanOptions struct {
	Root      string
	Recursive bool

	// ExcludePrefixes lists directory roots whose contents are never
	// yielded. The import pipeline adds the destination root here when
	// it sits under the source root, so a run's own prior output is not
	// re-ingested as input.
	ExcludePrefixes []string

	// Containers enables probing files for zip containers; matching
	// inner entries are yielded as virtual candidates.
	Containers bool
}

// Discovery finds font files under a root and gives access to their
// bytes, including entries inside container archives.
type Discovery interface {
	// Scan returns the allow-listed font entries under the root, sorted
	// by display path. Unreadable files are skipped, not fatal.
	Scan(opts ScanOptions) ([]domain.FontEntry, error)

	// Read returns the raw bytes of an entry, reaching into the
	// container for virtual entries.
	Read(entry domain.FontEntry) ([]byte, error)

	// Materialize guarantees an on-disk path for the entry that an
	// external renderer can open, extracting container entries into a
	// cache directory. Plain entries return their own path.
	Materialize(entry domain.FontEntry) (domain.FontEntry, error)
}
