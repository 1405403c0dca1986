package domain

import "testing"

func TestSplitVersion(t *testing.T) {
	tests := []struct {
		stem        string
		wantStem    string
		wantVersion int
	}{
		{"slant", "slant", 1},
		{"slant_v02", "slant", 2},
		{"slant_v99", "slant", 99},
		{"slant_v100", "slant", 100},
		{"slant_v2", "slant_v2", 1},     // single digit is not a version suffix
		{"slant_v01", "slant_v01", 1},   // version 1 is never suffixed
		{"slant_vXX", "slant_vXX", 1},
		{"big_v02_v03", "big_v02", 3},   // only the trailing suffix counts
		{"_v02", "_v02", 1},             // empty base stem is not a version
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			stem, version := SplitVersion(tt.stem)
			if stem != tt.wantStem || version != tt.wantVersion {
				t.Errorf("SplitVersion(%q) = (%q, %d), want (%q, %d)",
					tt.stem, stem, version, tt.wantStem, tt.wantVersion)
			}
		})
	}
}

func TestVersionedName(t *testing.T) {
	tests := []struct {
		stem    string
		ext     string
		version int
		want    string
	}{
		{"slant", ".flf", 1, "slant.flf"},
		{"slant", ".flf", 2, "slant_v02.flf"},
		{"slant", ".flf", 99, "slant_v99.flf"},
		{"slant", ".flf", 100, "slant_v100.flf"}, // padding widens past two digits
		{"banner", ".tlf", 3, "banner_v03.tlf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := VersionedName(tt.stem, tt.ext, tt.version); got != tt.want {
				t.Errorf("VersionedName(%q, %q, %d) = %q, want %q",
					tt.stem, tt.ext, tt.version, got, tt.want)
			}
		})
	}
}

func TestVersionRoundTrip(t *testing.T) {
	for _, version := range []int{2, 9, 42, 99, 100, 1234} {
		name := VersionedName("ansi_shadow", "", version)
		stem, got := SplitVersion(name)
		if stem != "ansi_shadow" || got != version {
			t.Errorf("round trip of version %d via %q gave (%q, %d)", version, name, stem, got)
		}
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name     string
		wantStem string
		wantExt  string
	}{
		{"slant.flf", "slant", ".flf"},
		{"slant.v2.flf", "slant.v2", ".flf"},
		{"noext", "noext", ""},
		{".hidden", ".hidden", ""},
	}

	for _, tt := range tests {
		stem, ext := SplitName(tt.name)
		if stem != tt.wantStem || ext != tt.wantExt {
			t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)",
				tt.name, stem, ext, tt.wantStem, tt.wantExt)
		}
	}
}
