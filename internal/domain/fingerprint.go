package domain

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Strategy selects how candidate files are fingerprinted for duplicate
// detection. It is decided once per run, never per file.
type Strategy int

const (
	// StrategyContent fingerprints the raw file bytes.
	StrategyContent Strategy = iota
	// StrategyOutput fingerprints the normalized rendered output for a
	// fixed sample string. Only the FIGlet family has a deterministic
	// renderer, so it is the only family this strategy supports.
	StrategyOutput
)

func (s Strategy) String() string {
	switch s {
	case StrategyContent:
		return "content"
	case StrategyOutput:
		return "output"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a strategy name as given on the command line.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "content":
		return StrategyContent, nil
	case "output":
		return StrategyOutput, nil
	default:
		return 0, fmt.Errorf("unknown fingerprint strategy %q (want content or output)", name)
	}
}

// Digest is a 32-byte BLAKE3 hash of either raw content or normalized
// rendered output. Collisions between genuinely different inputs are
// treated as negligible, not impossible.
type Digest [32]byte

// DigestOf hashes raw bytes into a Digest.
func DigestOf(data []byte) Digest {
	return blake3.Sum256(data)
}

// Hex returns the lowercase hex form used in audit records.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Fingerprint is the equivalence key for duplicate detection. Two files
// with equal fingerprints under the same strategy are interchangeable;
// fingerprints from different strategies are never compared.
type Fingerprint struct {
	Strategy Strategy
	Digest   Digest

	// Output strategy only: the sample text that was rendered and the
	// format family it was rendered as.
	SampleText string
	Kind       FontKind
}

// ContentFingerprint builds a content-strategy fingerprint for raw bytes.
func ContentFingerprint(data []byte) Fingerprint {
	return Fingerprint{Strategy: StrategyContent, Digest: DigestOf(data)}
}

// OutputFingerprint builds an output-strategy fingerprint from normalized
// rendered text.
func OutputFingerprint(normalized string, sample string, kind FontKind) Fingerprint {
	return Fingerprint{
		Strategy:   StrategyOutput,
		Digest:     DigestOf([]byte(normalized)),
		SampleText: sample,
		Kind:       kind,
	}
}
