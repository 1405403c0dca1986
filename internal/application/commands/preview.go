package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"figvault/internal/application"
	"figvault/internal/domain"
	"figvault/internal/ports"
)

const frameWidth = 78

// PreviewCommand renders a font with the configured sample text and
// repairs the output into displayable text. This is the preview path:
// no index involvement, the normalizer runs directly on renderer bytes.
type PreviewCommand struct {
	renderer ports.Renderer
	source   ports.Discovery

	Text    string
	Width   int
	Charmap string
	Timeout time.Duration
}

// NewPreviewCommand creates a new PreviewCommand
func NewPreviewCommand(renderer ports.Renderer, source ports.Discovery, text string, width int, charmap string, timeout time.Duration) *PreviewCommand {
	return &PreviewCommand{
		renderer: renderer,
		source:   source,
		Text:     text,
		Width:    width,
		Charmap:  charmap,
		Timeout:  timeout,
	}
}

// Execute renders one font and returns the normalized text. Renderer
// diagnostics come back as a RenderError so callers can show stderr.
func (c *PreviewCommand) Execute(ctx context.Context, entry domain.FontEntry) (string, error) {
	if c.Text == "" {
		return "", &application.ValidationError{Field: "text", Message: "preview text is required"}
	}

	onDisk, err := c.source.Materialize(entry)
	if err != nil {
		return "", fmt.Errorf("materialize %s: %w", entry.DisplayPath(), err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	out, err := c.renderer.Render(ctx, ports.RenderRequest{
		Font:    onDisk,
		Text:    c.Text,
		Width:   c.Width,
		Charmap: c.Charmap,
	})
	if err != nil {
		return "", err
	}
	return domain.Normalize(out), nil
}

// Frame wraps a rendered body with the separator framing used in saved
// outputs and the preview pane.
func Frame(entry domain.FontEntry, body string) string {
	header := strings.Repeat("=", frameWidth) + "\n" + entry.DisplayPath() + "\n" + strings.Repeat("-", frameWidth) + "\n"
	footer := "\n" + strings.Repeat("-", frameWidth)
	return header + body + footer
}

// SanitizeName derives a filesystem-safe output stem from a font's
// location under root: subdirectories become "__", anything outside
// [alnum - _] becomes "_".
func SanitizeName(entry domain.FontEntry, root string) string {
	display := entry.DisplayPath()
	rel, err := filepath.Rel(root, display)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(display)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	safe := strings.ReplaceAll(filepath.ToSlash(rel), "/", "__")

	var b strings.Builder
	for _, r := range safe {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), "_")
	if cleaned == "" {
		return entry.BaseName()
	}
	return cleaned
}

// OutputPath picks the next free "<prefix><base>[_NN].asc" path in
// outDir, tracking per-base counters across one save-all pass.
func OutputPath(outDir, prefix, base string, counts map[string]int) string {
	used := counts[base]
	for {
		suffix := ""
		if used > 0 {
			suffix = fmt.Sprintf("_%02d", used+1)
		}
		candidate := filepath.Join(outDir, prefix+base+suffix+".asc")
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			counts[base] = used + 1
			return candidate
		}
		used++
	}
}

// SaveAllResult summarizes a save-all pass.
type SaveAllResult struct {
	Saved    int
	Paths    []string
	Failures []string // display paths of fonts whose render failed
}

// SaveAllCommand renders every given font and writes the framed output
// to files under OutDir. Render failures are recorded in the output
// file (so the run is fully accounted for) and listed as failures.
type SaveAllCommand struct {
	preview *PreviewCommand

	FontRoot string
	OutDir   string
	Prefix   string
}

// NewSaveAllCommand creates a new SaveAllCommand
func NewSaveAllCommand(preview *PreviewCommand, fontRoot, outDir, prefix string) *SaveAllCommand {
	return &SaveAllCommand{
		preview:  preview,
		FontRoot: fontRoot,
		OutDir:   outDir,
		Prefix:   prefix,
	}
}

// Execute runs the save-all pass.
func (c *SaveAllCommand) Execute(ctx context.Context, fonts []domain.FontEntry) (*SaveAllResult, error) {
	if c.OutDir == "" {
		return nil, &application.ValidationError{Field: "out-dir", Message: "output directory is required"}
	}
	if err := os.MkdirAll(c.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	result := &SaveAllResult{}
	counts := make(map[string]int)

	for _, entry := range fonts {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		body, err := c.preview.Execute(ctx, entry)
		if err != nil {
			body = "[ERROR]\n" + err.Error()
			result.Failures = append(result.Failures, entry.DisplayPath())
		}

		out := OutputPath(c.OutDir, c.Prefix, SanitizeName(entry, c.FontRoot), counts)
		if err := os.WriteFile(out, []byte(Frame(entry, body)), 0644); err != nil {
			return result, fmt.Errorf("write %s: %w", out, err)
		}
		result.Saved++
		result.Paths = append(result.Paths, out)
	}
	return result, nil
}
