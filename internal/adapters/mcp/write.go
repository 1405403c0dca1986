package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"figvault/internal/adapters/audit"
	"figvault/internal/adapters/filesystem"
	"figvault/internal/adapters/sqlite"
	"figvault/internal/application"
	"figvault/internal/application/commands"
	"figvault/internal/config"
	"figvault/internal/ports"
)

// RegisterWriteTools adds the importing and saving tools to the MCP
// server. These tools write under the vault and output directories.
func RegisterWriteTools(s *server.MCPServer, source ports.Discovery, renderer ports.Renderer) {
	s.AddTool(importFontsTool(), importFontsHandler(source, renderer))
	s.AddTool(saveRendersTool(), saveRendersHandler(source, renderer))
}

// --- import_fonts ---

func importFontsTool() mcp.Tool {
	return mcp.NewTool("import_fonts",
		mcp.WithDescription("Import fonts from a directory into the vault, skipping duplicates and renaming name collisions with version suffixes. Every decision is appended to a JSONL audit log in the vault."),
		mcp.WithString("source",
			mcp.Description("Directory to import from. Defaults to the configured font directory."),
		),
		mcp.WithString("dest",
			mcp.Description("Vault directory. Defaults to the configured vault path."),
		),
		mcp.WithString("strategy",
			mcp.Description("Duplicate detection strategy: content (hash font bytes) or output (hash the rendered sample). Default content."),
		),
		mcp.WithString("text",
			mcp.Description("Sample text for the output strategy."),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Scan source subdirectories. Default false."),
		),
		mcp.WithBoolean("containers",
			mcp.Description("Look inside zip archives for fonts. Default true."),
		),
		mcp.WithString("subfolder",
			mcp.Description("Route imported fonts into this subdirectory of the vault."),
		),
	)
}

func importFontsHandler(source ports.Discovery, renderer ports.Renderer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		strategy, err := application.ParseStrategy(req.GetString("strategy", "content"))
		if err != nil {
			return toolError(err)
		}

		opts := commands.ImportOptions{
			SourceRoot: filesystem.ExpandHome(req.GetString("source", config.FontDir())),
			Strategy:   strategy,
			SampleText: req.GetString("text", config.SampleText()),
			Width:      config.DefaultWidth,
			Timeout:    renderTimeout,
			Recursive:  req.GetBool("recursive", false),
			Containers: req.GetBool("containers", true),
			Subfolder:  req.GetString("subfolder", ""),
		}
		dest := filesystem.ExpandHome(req.GetString("dest", config.VaultPath()))

		vault := filesystem.NewVault(dest)
		if err := vault.EnsureRoot(); err != nil {
			return toolError(err)
		}

		sink, err := audit.NewJSONLSink(dest)
		if err != nil {
			return toolError(err)
		}
		defer sink.Close()

		cache := sqlite.NewCache()
		var digests ports.DigestCache
		if err := cache.Open(dest); err == nil {
			digests = cache
			defer cache.Close()
		}

		engine := &application.FingerprintEngine{
			Renderer:   renderer,
			Source:     source,
			SampleText: opts.SampleText,
			Width:      opts.Width,
			Timeout:    opts.Timeout,
		}

		cmd := commands.NewImportCommand(source, vault, engine, sink, digests, nil, opts)
		if err := cmd.Validate(); err != nil {
			return toolError(err)
		}
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"Imported %d fonts into %s (%d renamed, %d duplicates skipped, %d errors out of %d candidates).\nAudit log: %s",
			result.Copied+result.Renamed, dest, result.Renamed, result.Skipped, result.Errors, result.Candidates, sink.Path(),
		)), nil
	}
}

// --- save_renders ---

func saveRendersTool() mcp.Tool {
	return mcp.NewTool("save_renders",
		mcp.WithDescription("Render every font under a directory with the sample text and save the framed outputs as .asc files."),
		mcp.WithString("out_dir",
			mcp.Description("Directory to write rendered outputs to."),
			mcp.Required(),
		),
		mcp.WithString("root",
			mcp.Description("Font directory to render. Defaults to the configured font directory."),
		),
		mcp.WithString("text",
			mcp.Description("Text to render. Defaults to the configured sample text."),
		),
		mcp.WithNumber("width",
			mcp.Description("Output width in columns. Default 80."),
		),
	)
}

func saveRendersHandler(source ports.Discovery, renderer ports.Renderer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		outDir := req.GetString("out_dir", "")
		if outDir == "" {
			return toolError(fmt.Errorf("out_dir is required"))
		}
		root := filesystem.ExpandHome(req.GetString("root", config.FontDir()))
		text := req.GetString("text", config.SampleText())
		width := req.GetInt("width", config.DefaultWidth)

		entries, err := source.Scan(ports.ScanOptions{
			Root:       root,
			Recursive:  true,
			Containers: true,
		})
		if err != nil {
			return toolError(err)
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("No fonts found."), nil
		}

		preview := commands.NewPreviewCommand(renderer, source, text, width, "", renderTimeout)
		saver := commands.NewSaveAllCommand(preview, root, filesystem.ExpandHome(outDir), "")

		result, err := saver.Execute(ctx, entries)
		if err != nil {
			return toolError(err)
		}

		msg := fmt.Sprintf("Saved %d outputs to %s.", result.Saved, saver.OutDir)
		if len(result.Failures) > 0 {
			msg += fmt.Sprintf(" %d renders failed:\n", len(result.Failures))
			for _, f := range result.Failures {
				msg += "  " + f + "\n"
			}
		}
		return mcp.NewToolResultText(msg), nil
	}
}
