package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/sitescout/internal/errors"
	"github.com/hpungsan/sitescout/internal/ops"
	"github.com/hpungsan/sitescout/internal/prompt"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	orch *ops.Orchestrator
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(orch *ops.Orchestrator) *Handlers {
	return &Handlers{orch: orch}
}

// Request types for each tool

// AnalyzeRequest represents the arguments for site_analyze.
type AnalyzeRequest struct {
	URL  string `json:"url"`
	Role string `json:"role,omitempty"`
}

// URLRequest represents the arguments for the single-URL tools.
type URLRequest struct {
	URL string `json:"url"`
}

// AskRequest represents the arguments for site_ask.
type AskRequest struct {
	URL      string `json:"url"`
	Question string `json:"question"`
}

// HandleAnalyze handles the site_analyze tool call.
func (h *Handlers) HandleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AnalyzeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.orch.StartAnalysis(ops.StartAnalysisInput{URL: input.URL, Role: input.Role})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStatus handles the site_status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[URLRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.orch.AnalysisStatus(ops.StatusInput{URL: input.URL})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCancel handles the site_cancel tool call.
func (h *Handlers) HandleCancel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[URLRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.orch.CancelAnalysis(ops.CancelInput{URL: input.URL})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAsk handles the site_ask tool call. An exhausted fallback chain
// is reported as a degraded answer rather than a raw error, so MCP
// clients always have something to show the user.
func (h *Handlers) HandleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AskRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.orch.AnswerQuestion(ctx, ops.AnswerInput{URL: input.URL, Question: input.Question})
	if err != nil {
		if errors.Is(err, errors.ErrAnswerExhausted) {
			return successResult(map[string]any{
				"answer":   prompt.HelpfulFallback(input.Question),
				"degraded": true,
			})
		}
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRefresh handles the site_refresh tool call.
func (h *Handlers) HandleRefresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AnalyzeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.orch.RefreshAnalysis(ctx, ops.RefreshAnalysisInput{URL: input.URL, Role: input.Role})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the site_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.orch.ListSites()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"sites": result, "count": len(result)})
}

// HandleShow handles the site_show tool call.
func (h *Handlers) HandleShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[URLRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.orch.GetRecord(input.URL)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDelete handles the site_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[URLRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := h.orch.DeleteSite(input.URL); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"deleted": true})
}

// HandlePing handles the ping tool call.
func (h *Handlers) HandlePing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string]any{"pong": true})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if scoutErr, ok := err.(*errors.ScoutError); ok {
		errorObj := map[string]any{
			"code":    scoutErr.Code,
			"message": scoutErr.Message,
			"status":  scoutErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if scoutErr.Code != errors.ErrInternal && scoutErr.Details != nil {
			errorObj["details"] = scoutErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
