package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"figvault/internal/adapters/figlet"
	"figvault/internal/adapters/filesystem"
	mcpadapter "figvault/internal/adapters/mcp"
)

func main() {
	toiletFlag := flag.Bool("toilet", false, "render tlf fonts with toilet when available")
	flag.Parse()

	renderer, err := figlet.NewRenderer(*toiletFlag)
	if err != nil {
		log.Fatalf("figvault-mcp: %v", err)
	}
	source := filesystem.NewDiscovery()

	mcpServer := server.NewMCPServer(
		"figvault-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, source, renderer)
	mcpadapter.RegisterWriteTools(mcpServer, source, renderer)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("figvault-mcp: %v", err)
	}
}
