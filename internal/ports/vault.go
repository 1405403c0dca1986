package ports

import "figvault/internal/domain"

// Vault is the destination tree the import pipeline copies into.
type Vault interface {
	// Root returns the absolute destination root.
	Root() string

	// EnsureRoot creates the root if needed and verifies it is writable.
	EnsureRoot() error

	// Scan walks the root recursively and returns every allow-listed
	// font file. Unreadable subtrees are an error: the index must be a
	// complete view or the run cannot guarantee its invariants.
	Scan() ([]domain.VaultFile, error)

	// ReadFile reads a file by root-relative path.
	ReadFile(relPath string) ([]byte, error)

	// WriteFileAtomic writes data to a root-relative path via a
	// temporary sibling and atomic rename. It never overwrites: an
	// existing file is an error.
	WriteFileAtomic(relPath string, data []byte) error

	// Exists reports whether a root-relative path already exists.
	Exists(relPath string) bool
}
