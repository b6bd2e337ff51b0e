package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rusalad/rusalad/core"
	"github.com/rusalad/rusalad/core/subtitle"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/internal/outwriter"
	"github.com/rusalad/rusalad/schema"
	"github.com/spf13/afero"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	fs      afero.Fs
	mgr     contract.StoreManager
}

func (h *toolHandler) handleGetTestHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if r := request.GetString("run_id", ""); r != "" {
		runID, err := contract.ParseRunID(r)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cfg.RunID = runID
	}
	if d := request.GetInt("depth", 0); d != 0 {
		if d < 0 || d > contract.MaxHistoryDepth {
			return mcp.NewToolResultError(fmt.Sprintf("depth must be greater than 0 and cannot exceed %d", contract.MaxHistoryDepth)), nil
		}
		cfg.HistoryDepth = d
	}
	if s := request.GetString("source", ""); s != "" {
		cfg.Source = schema.SourceKind(strings.ToLower(s))
		if _, ok := schema.ValidSourceKinds[cfg.Source]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid source '%s'. must be dir or store", s)), nil
		}
	}

	src, err := core.NewRunSource(cfg, h.fs, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	// Skipped runs are not logged since stdio carries the protocol.
	history, err := core.GetHistory(ctx, cfg, src, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}

	var sb strings.Builder
	if err := outwriter.WriteHistoryJSON(&sb, history); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (h *toolHandler) handleConvertSRT(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("srt_text", "")
	if text == "" {
		return mcp.NewToolResultError("srt_text is required"), nil
	}
	lang := request.GetString("lang", h.baseCfg.Lang)
	if strings.ContainsAny(lang, "\"<>&' ") {
		return mcp.NewToolResultError(fmt.Sprintf("invalid language tag '%s'", lang)), nil
	}

	var sb strings.Builder
	if err := subtitle.ConvertTo(&sb, strings.NewReader(text), subtitle.Options{Lang: lang}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversion failed: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}
