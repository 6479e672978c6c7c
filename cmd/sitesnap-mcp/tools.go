package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/startech-innovation/sitekit/extract"
	"github.com/startech-innovation/sitekit/snapshot"
)

// Handlers go through a snapshot.Reader so a new snapshot run is visible
// without restarting the server.

func handleListPages(reader *snapshot.Reader) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agg, err := reader.Aggregate()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("no snapshot available: %v", err)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%d pages captured:\n", len(agg))
		for _, name := range agg.Names() {
			page := agg[name]
			fmt.Fprintf(&b, "- %s: %s (~%d tokens of text)\n", name, page.Title, extract.EstimateTokens(page.AllText))
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func handleGetPage(reader *snapshot.Reader) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name is required"), nil
		}
		format := request.GetString("format", "json")

		agg, err := reader.Aggregate()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("no snapshot available: %v", err)), nil
		}
		page, ok := agg[name]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown page %q; available: %s",
				name, strings.Join(agg.Names(), ", "))), nil
		}

		switch format {
		case "json":
			out, err := json.MarshalIndent(page, "", "  ")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to encode page: %v", err)), nil
			}
			return mcp.NewToolResultText(string(out)), nil

		case "text":
			return mcp.NewToolResultText(fmt.Sprintf("Title: %s\n\n%s", page.Title, page.AllText)), nil

		case "markdown":
			// name is a key of the aggregate, so it is already a safe file name.
			md, err := os.ReadFile(filepath.Join(reader.CaptureDir(), name+".md"))
			if errors.Is(err, fs.ErrNotExist) {
				return mcp.NewToolResultError("no markdown export for this page; run sitesnap with SITESNAP_MARKDOWN=true"), nil
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to read markdown: %v", err)), nil
			}
			return mcp.NewToolResultText(string(md)), nil

		default:
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", format)), nil
		}
	}
}
