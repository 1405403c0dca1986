package ports

import "figvault/internal/domain"

// DigestCache persists content digests of destination files keyed by
// path, size and mtime, so repeated runs do not rehash unchanged files.
// It is purely an optimization: the index is always rebuildable by
// rescanning without it.
type DigestCache interface {
	Open(root string) error
	Close() error

	// Get returns the cached digest for a file if size and mtime still
	// match what was recorded.
	Get(relPath string, size, mtime int64) (domain.Digest, bool)
	Put(relPath string, size, mtime int64, digest domain.Digest) error
}
