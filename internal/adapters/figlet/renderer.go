// Package figlet shells out to the system figlet (and optionally
// toilet) binaries. Shelling out rather than reimplementing the format
// keeps -C charmap support and matches how the fonts were authored to
// be rendered.
package figlet

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"figvault/internal/application"
	"figvault/internal/domain"
	"figvault/internal/ports"
)

const defaultWidth = 80

// Renderer implements ports.Renderer via subprocess execution.
type Renderer struct {
	figletPath string
	toiletPath string
	useToilet  bool
}

// Ensure Renderer implements the port
var _ ports.Renderer = (*Renderer)(nil)

// NewRenderer locates the renderer binaries. figlet is required;
// toilet is optional and only used for TOIlet fonts when enabled.
func NewRenderer(useToilet bool) (*Renderer, error) {
	figletPath, err := exec.LookPath("figlet")
	if err != nil {
		return nil, application.ErrRendererNotFound
	}

	toiletPath := ""
	if useToilet {
		toiletPath, _ = exec.LookPath("toilet")
	}

	return &Renderer{
		figletPath: figletPath,
		toiletPath: toiletPath,
		useToilet:  useToilet,
	}, nil
}

// Render runs the renderer for one font and returns raw stdout bytes.
// Non-zero exits and exceeded deadlines surface as RenderError.
func (r *Renderer) Render(ctx context.Context, req ports.RenderRequest) ([]byte, error) {
	width := req.Width
	if width <= 0 {
		width = defaultWidth
	}

	var cmd *exec.Cmd
	if req.Font.Kind == domain.KindTOIlet && r.useToilet && r.toiletPath != "" {
		// toilet takes the font file directly; note it has no -C support.
		cmd = exec.CommandContext(ctx, r.toiletPath,
			"-f", req.Font.Path,
			"-w", strconv.Itoa(width),
			req.Text,
		)
	} else {
		args := []string{
			"-d", req.Font.Dir(),
			"-w", strconv.Itoa(width),
			"-f", req.Font.BaseName(),
		}
		if req.Charmap != "" {
			args = append(args, "-C", req.Charmap)
		}
		args = append(args, req.Text)
		cmd = exec.CommandContext(ctx, r.figletPath, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cause := err
		if ctxErr := ctx.Err(); ctxErr != nil {
			cause = ctxErr
		}
		return nil, &application.RenderError{
			Font:   req.Font.DisplayPath(),
			Stderr: strings.TrimSpace(domain.Normalize(stderr.Bytes())),
			Err:    cause,
		}
	}
	return stdout.Bytes(), nil
}
