package application

import (
	"context"
	"time"

	"figvault/internal/domain"
	"figvault/internal/ports"
)

// FingerprintEngine computes equivalence keys for candidate files under
// the run's strategy. Fingerprinting is pure per file and safe to fan
// out; the engine holds no mutable state.
type FingerprintEngine struct {
	Renderer ports.Renderer
	Source   ports.Discovery

	// Output strategy parameters. SampleText is fixed for the whole run
	// so equal fonts produce equal renderings.
	SampleText string
	Width      int
	Charmap    string
	Timeout    time.Duration
}

// Fingerprint computes the fingerprint of a candidate under the given
// strategy. The content strategy hashes the raw bytes and always
// succeeds. The output strategy renders the fixed sample text with the
// candidate font, normalizes the result and hashes the normalized text;
// it fails with ErrUnsupportedFormat for non-FIGlet fonts and
// ErrRenderFailed when the renderer errors or times out.
func (e *FingerprintEngine) Fingerprint(ctx context.Context, entry domain.FontEntry, raw []byte, strategy domain.Strategy) (domain.Fingerprint, error) {
	switch strategy {
	case domain.StrategyOutput:
		return e.outputFingerprint(ctx, entry)
	default:
		return domain.ContentFingerprint(raw), nil
	}
}

func (e *FingerprintEngine) outputFingerprint(ctx context.Context, entry domain.FontEntry) (domain.Fingerprint, error) {
	if entry.Kind != domain.KindFIGlet {
		return domain.Fingerprint{}, &FingerprintError{
			Source: entry.DisplayPath(),
			Err:    ErrUnsupportedFormat,
		}
	}

	// Container entries need a real path the renderer process can open.
	onDisk, err := e.Source.Materialize(entry)
	if err != nil {
		return domain.Fingerprint{}, &FingerprintError{Source: entry.DisplayPath(), Err: err}
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	out, err := e.Renderer.Render(ctx, ports.RenderRequest{
		Font:    onDisk,
		Text:    e.SampleText,
		Width:   e.Width,
		Charmap: e.Charmap,
	})
	if err != nil {
		return domain.Fingerprint{}, &FingerprintError{Source: entry.DisplayPath(), Err: err}
	}

	normalized := domain.Normalize(out)
	return domain.OutputFingerprint(normalized, e.SampleText, entry.Kind), nil
}
