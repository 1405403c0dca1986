package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"figvault/internal/adapters/filesystem"
	"figvault/internal/application/commands"
	"figvault/internal/config"
	"figvault/internal/domain"
	"figvault/internal/ports"
)

// RegisterReadTools adds all read-only font tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, source ports.Discovery, renderer ports.Renderer) {
	s.AddTool(listFontsTool(), listFontsHandler(source))
	s.AddTool(previewTool(), previewHandler(source, renderer))
	s.AddTool(vaultStatusTool(), vaultStatusHandler())
}

const renderTimeout = 10 * time.Second

// --- list_fonts ---

func listFontsTool() mcp.Tool {
	return mcp.NewTool("list_fonts",
		mcp.WithDescription("List figlet/toilet font files under a directory. Zip archives are probed for fonts, listed as archive.zip::font.flf."),
		mcp.WithString("root",
			mcp.Description("Directory to scan. Defaults to the configured font directory."),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Scan subdirectories too. Default false."),
		),
		mcp.WithString("filter",
			mcp.Description("Case-insensitive substring to match against font paths."),
		),
	)
}

func listFontsHandler(source ports.Discovery) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root := req.GetString("root", config.FontDir())
		recursive := req.GetBool("recursive", false)
		filter := strings.ToLower(req.GetString("filter", ""))

		entries, err := source.Scan(ports.ScanOptions{
			Root:       root,
			Recursive:  recursive,
			Containers: true,
		})
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		matched := 0
		for _, e := range entries {
			if filter != "" && !strings.Contains(strings.ToLower(e.DisplayPath()), filter) {
				continue
			}
			matched++
			fmt.Fprintf(&sb, "%s  %s\n", strings.ToUpper(string(e.Kind)), e.DisplayPath())
		}
		if matched == 0 {
			return mcp.NewToolResultText("No fonts found."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- preview ---

func previewTool() mcp.Tool {
	return mcp.NewTool("preview",
		mcp.WithDescription("Render sample text with a font and return the cleaned-up output."),
		mcp.WithString("font",
			mcp.Description("Font path, or a base name resolved against the configured font directory."),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Text to render. Defaults to the configured sample text."),
		),
		mcp.WithNumber("width",
			mcp.Description("Output width in columns. Default 80."),
		),
	)
}

func previewHandler(source ports.Discovery, renderer ports.Renderer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fontArg := req.GetString("font", "")
		if fontArg == "" {
			return toolError(fmt.Errorf("font is required"))
		}
		text := req.GetString("text", config.SampleText())
		width := req.GetInt("width", config.DefaultWidth)

		entry, err := resolveFont(source, fontArg)
		if err != nil {
			return toolError(err)
		}

		preview := commands.NewPreviewCommand(renderer, source, text, width, "", renderTimeout)
		body, err := preview.Execute(ctx, entry)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(commands.Frame(entry, body)), nil
	}
}

// resolveFont finds the entry matching a path or base name under the
// configured font directory.
func resolveFont(source ports.Discovery, fontArg string) (domain.FontEntry, error) {
	entries, err := source.Scan(ports.ScanOptions{
		Root:       config.FontDir(),
		Recursive:  true,
		Containers: true,
	})
	if err != nil {
		return domain.FontEntry{}, err
	}

	want := strings.ToLower(fontArg)
	for _, e := range entries {
		if strings.ToLower(e.DisplayPath()) == want || strings.ToLower(e.BaseName()) == want {
			return e, nil
		}
	}
	return domain.FontEntry{}, fmt.Errorf("font not found: %s", fontArg)
}

// --- vault_status ---

func vaultStatusTool() mcp.Tool {
	return mcp.NewTool("vault_status",
		mcp.WithDescription("Summarize the font vault: file count per format and the stored files."),
		mcp.WithString("dest",
			mcp.Description("Vault directory. Defaults to the configured vault path."),
		),
	)
}

func vaultStatusHandler() server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dest := req.GetString("dest", config.VaultPath())

		vault := filesystem.NewVault(filesystem.ExpandHome(dest))
		files, err := vault.Scan()
		if err != nil {
			return toolError(err)
		}
		if len(files) == 0 {
			return mcp.NewToolResultText("Vault is empty."), nil
		}

		perKind := make(map[domain.FontKind]int)
		var sb strings.Builder
		for _, f := range files {
			if kind, ok := domain.KindForExtension(extOf(f.RelPath)); ok {
				perKind[kind]++
			}
			fmt.Fprintf(&sb, "%s  %d bytes\n", f.RelPath, f.Size)
		}

		header := fmt.Sprintf("%d fonts (%d flf, %d tlf) in %s\n\n",
			len(files), perKind[domain.KindFIGlet], perKind[domain.KindTOIlet], vault.Root())
		return mcp.NewToolResultText(header + sb.String()), nil
	}
}

func extOf(relPath string) string {
	if i := strings.LastIndex(relPath, "."); i >= 0 {
		return relPath[i:]
	}
	return ""
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
