package domain

import "strings"

// VaultFile is a raw destination-scan result, before fingerprinting.
type VaultFile struct {
	RelPath string
	Size    int64
	Mtime   int64 // unix seconds, for digest-cache validation
}

// DestinationEntry describes one file physically present under the
// destination root. Entries are immutable once recorded.
type DestinationEntry struct {
	RelPath string // path relative to the destination root
	Stem    string // file-name stem with any version suffix removed
	Ext     string // extension including the dot
	Version int    // 1 = unsuffixed

	// Fingerprint under the run's strategy. HasFingerprint is false for
	// entries whose fingerprint could not be computed during the initial
	// scan (for example an output-strategy run over a font the renderer
	// rejects); such entries still occupy their version slot but never
	// match digest lookups.
	Fingerprint    Fingerprint
	HasFingerprint bool
}

// DestinationIndex is the in-memory view of everything already present
// under the destination root. It is owned by a single import run: reads
// and writes are not synchronized here, callers serialize resolve+record.
type DestinationIndex struct {
	byDigest map[Strategy]map[Digest]*DestinationEntry
	versions map[string]int // stem+ext → highest assigned version
	entries  []*DestinationEntry
}

// NewDestinationIndex returns an empty index.
func NewDestinationIndex() *DestinationIndex {
	return &DestinationIndex{
		byDigest: make(map[Strategy]map[Digest]*DestinationEntry),
		versions: make(map[string]int),
	}
}

func versionKey(stem, ext string) string {
	return strings.ToLower(stem) + "\x00" + strings.ToLower(ext)
}

// LookupByDigest returns the first entry recorded with the given digest
// under the given strategy.
func (idx *DestinationIndex) LookupByDigest(strategy Strategy, digest Digest) (*DestinationEntry, bool) {
	e, ok := idx.byDigest[strategy][digest]
	return e, ok
}

// Seen reports whether any version of stem+ext has been recorded.
func (idx *DestinationIndex) Seen(stem, ext string) bool {
	return idx.versions[versionKey(stem, ext)] > 0
}

// NextVersion returns 1 for an unseen stem+ext, otherwise one more than
// the highest version recorded so far. Versions are never reused: the
// index does not support deletion.
func (idx *DestinationIndex) NextVersion(stem, ext string) int {
	return idx.versions[versionKey(stem, ext)] + 1
}

// Record inserts an entry, maintaining both derived views. The first
// entry recorded for a digest wins; later same-digest entries (possible
// when the destination already held duplicates) keep their version slot
// but do not replace the lookup target.
func (idx *DestinationIndex) Record(e *DestinationEntry) {
	idx.entries = append(idx.entries, e)

	if e.HasFingerprint {
		m := idx.byDigest[e.Fingerprint.Strategy]
		if m == nil {
			m = make(map[Digest]*DestinationEntry)
			idx.byDigest[e.Fingerprint.Strategy] = m
		}
		if _, taken := m[e.Fingerprint.Digest]; !taken {
			m[e.Fingerprint.Digest] = e
		}
	}

	key := versionKey(e.Stem, e.Ext)
	if e.Version > idx.versions[key] {
		idx.versions[key] = e.Version
	}
}

// Len returns the number of recorded entries.
func (idx *DestinationIndex) Len() int {
	return len(idx.entries)
}

// Resolution is the outcome of resolving a candidate name against the
// index: either skip as a duplicate of an existing entry, or accept
// under a (possibly versioned) file name.
type Resolution struct {
	Skip        bool
	DuplicateOf *DestinationEntry // set when Skip

	Name    string // file name to create, e.g. "slant.flf" or "slant_v02.flf"
	Version int
}

// Renamed reports whether acceptance required a version suffix.
func (r Resolution) Renamed() bool {
	return !r.Skip && r.Version > 1
}

// Resolve decides a candidate's fate: a digest hit is a true duplicate
// regardless of the stored name; an unseen stem gets the plain name; a
// name collision with fresh content gets the next free version.
func (idx *DestinationIndex) Resolve(stem, ext string, fp Fingerprint) Resolution {
	if dup, ok := idx.LookupByDigest(fp.Strategy, fp.Digest); ok {
		return Resolution{Skip: true, DuplicateOf: dup}
	}
	version := idx.NextVersion(stem, ext)
	return Resolution{
		Name:    VersionedName(stem, ext, version),
		Version: version,
	}
}
