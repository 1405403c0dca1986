package ports

import (
	"context"

	"figvault/internal/domain"
)

// RenderRequest describes one rendering of a sample text with a given
// font. Charmap optionally names a .flc translation file passed through
// to the renderer.
type RenderRequest struct {
	Font    domain.FontEntry
	Text    string
	Width   int
	Charmap string
}

// Renderer produces rendered bytes for a font. The output is an opaque
// byte stream: callers normalize it before display or hashing.
// Implementations must honor context cancellation; callers apply a
// timeout and treat an exceeded deadline as a render failure.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}
