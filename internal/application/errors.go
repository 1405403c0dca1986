package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrUnsupportedFormat: the chosen fingerprint strategy cannot handle
	// this font's format family (only FIGlet fonts render deterministically).
	ErrUnsupportedFormat = errors.New("unsupported format for strategy")

	// ErrRenderFailed: the external renderer failed or timed out.
	ErrRenderFailed = errors.New("render failed")

	// ErrRendererNotFound: no renderer binary is available.
	ErrRendererNotFound = errors.New("renderer not found")

	// ErrIndexScan: the destination tree could not be scanned at startup.
	// Fatal — the run aborts before any copy.
	ErrIndexScan = errors.New("destination index scan failed")
)

// ValidationError represents an invalid run configuration
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FingerprintError wraps a per-file fingerprinting failure. Non-fatal to
// the run: the file gets an error event and the import continues.
type FingerprintError struct {
	Source string
	Err    error
}

func (e *FingerprintError) Error() string {
	return fmt.Sprintf("fingerprint %s: %v", e.Source, e.Err)
}

func (e *FingerprintError) Unwrap() error {
	return e.Err
}

// RenderError carries the renderer's diagnostics for a failed render.
type RenderError struct {
	Font   string
	Stderr string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("render %s: %v: %s", e.Font, e.Err, e.Stderr)
	}
	return fmt.Sprintf("render %s: %v", e.Font, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRenderFailed
}
