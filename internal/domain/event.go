package domain

import "time"

// Outcome is the terminal result of one candidate passing through the
// import pipeline.
type Outcome string

const (
	OutcomeCopied           Outcome = "COPY"
	OutcomeCopiedRenamed    Outcome = "COPY_RENAMED"
	OutcomeSkippedDuplicate Outcome = "SKIP_DUPLICATE"
	OutcomeErrorFingerprint Outcome = "ERROR_FINGERPRINT"
	OutcomeErrorIO          Outcome = "ERROR_IO"
)

// ImportEvent records the fate of one candidate file. Exactly one event
// is emitted per candidate, so the event count always equals the
// candidate count. Events are immutable once emitted.
type ImportEvent struct {
	Time    time.Time
	Source  string // candidate display path
	Dest    string // resolved destination path, empty unless copied
	Method  Strategy
	Digest  string // hex digest, empty when fingerprinting failed
	Outcome Outcome
	Reason  string // human-readable explanation

	NameConflict     bool // a same-named entry already existed
	ContentDuplicate bool // an equal-fingerprint entry already existed
}
