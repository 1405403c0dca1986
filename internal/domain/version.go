package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Versioned naming: the first file for a stem is unsuffixed (version 1);
// colliding files with different content get "_v02", "_v03", ... suffixes.
// The numeric part is zero-padded to two digits and widens on its own
// past 99.

var versionSuffixPattern = regexp.MustCompile(`^(.+)_v([0-9]{2,})$`)

// SplitVersion splits a file-name stem into its base stem and version
// number. A stem without a recognized suffix is version 1.
func SplitVersion(stem string) (string, int) {
	m := versionSuffixPattern.FindStringSubmatch(stem)
	if m == nil {
		return stem, 1
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 2 {
		return stem, 1
	}
	return m[1], n
}

// VersionedName builds the file name for a stem at a given version.
// Version 1 is the plain "stem.ext" form.
func VersionedName(stem, ext string, version int) string {
	if version <= 1 {
		return stem + ext
	}
	return fmt.Sprintf("%s_v%02d%s", stem, version, ext)
}

// SplitName splits a file name into stem and extension. The extension
// keeps its leading dot and original case.
func SplitName(name string) (stem, ext string) {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i], name[i:]
	}
	return name, ""
}
