// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/spf13/afero"
)

// NewMCPServer initializes and configures the RuSalad MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, fs afero.Fs, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"RuSalad Test History Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		fs:      fs,
		mgr:     mgr,
	}

	// --- 1. Tool: get_test_history ---
	s.AddTool(mcp.NewTool("get_test_history",
		mcp.WithDescription("Build the feature and scenario pass/fail history across recent test runs, newest run first."),
		mcp.WithString("run_id", mcp.Description("Newest run to include, or 'latest' (default).")),
		mcp.WithNumber("depth", mcp.Description("Maximum number of runs to include.")),
		mcp.WithString("source", mcp.Description("Where runs are read from. Defaults to the configured source."), mcp.Enum("dir", "store")),
	), h.handleGetTestHistory)

	// --- 2. Tool: convert_srt ---
	s.AddTool(mcp.NewTool("convert_srt",
		mcp.WithDescription("Convert SubRip (SRT) subtitles into W3C timed-text markup."),
		mcp.WithString("srt_text", mcp.Description("The SRT document to convert."), mcp.Required()),
		mcp.WithString("lang", mcp.Description("Language tag for the timed-text document. Defaults to 'en'.")),
	), h.handleConvertSRT)

	return s
}

// StartMCPServer starts the RuSalad MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, afero.NewOsFs(), mgr)
	return server.ServeStdio(s)
}
