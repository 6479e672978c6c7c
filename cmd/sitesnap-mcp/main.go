package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/startech-innovation/sitekit/config"
	"github.com/startech-innovation/sitekit/snapshot"
)

func main() {
	cfg := config.Load()

	// stdout carries the MCP protocol; logs go to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	reader := snapshot.NewReader(cfg.Snapshot.CaptureDir)

	s := server.NewMCPServer(
		"sitesnap",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	listPagesTool := mcp.NewTool("list_pages",
		mcp.WithDescription("List the names of the pages captured by the last successful site snapshot."),
	)
	s.AddTool(listPagesTool, handleListPages(reader))

	getPageTool := mcp.NewTool("get_page",
		mcp.WithDescription("Return the captured content of one page: structured JSON (headings, navigation, paragraphs, lists, buttons, sections), its visible text, or its Markdown export."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Page name as returned by list_pages, e.g. 'home' or 'solutions'"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'json' (default), 'text' (visible body text) or 'markdown' (requires a run with SITESNAP_MARKDOWN=true)"),
			mcp.Enum("json", "text", "markdown"),
		),
	)
	s.AddTool(getPageTool, handleGetPage(reader))

	slog.Info("sitesnap-mcp serving", "captured", cfg.Snapshot.CaptureDir)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
