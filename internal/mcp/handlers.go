// ABOUTME: MCP tool handler implementations for the document retrieval server
// ABOUTME: Translates tool arguments into core requests and core errors into tool results
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/embedops/embedops/internal/core"
	"github.com/embedops/embedops/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	resources *core.Resources
	chat      core.ChatModel
}

// QueryDocuments handles the query_documents tool
func (h *Handlers) QueryDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	req := retrieveRequestFromArgs(request, query)

	hits, err := core.Retrieve(ctx, h.resources, req)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"hits":  hits,
		"count": len(hits),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// AnswerQuestion handles the answer_question tool
func (h *Handlers) AnswerQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	if h.chat == nil {
		return mcp.NewToolResultError("answer generation unavailable: no chat model configured"), nil
	}

	answerReq := core.AnswerRequest{
		RetrieveRequest: retrieveRequestFromArgs(request, question),
	}

	answer, err := core.AnswerQuestion(ctx, h.resources, h.chat, answerReq)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("answer generation failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"answer":             answer.Answer,
		"model":              answer.Model,
		"used_context_chars": answer.UsedContextChars,
		"hits":               answer.Hits,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ServiceStatus handles the service_status tool
func (h *Handlers) ServiceStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"namespace":           h.resources.Namespace,
		"embedding_dimension": h.resources.Embedder.Dimension(),
		"answer_enabled":      h.chat != nil,
	}
	if h.chat != nil {
		response["chat_model"] = h.chat.ModelName()
	}

	if count, err := h.resources.Chunks.Len(); err != nil {
		response["chunks_indexed"] = 0
		response["chunk_store_error"] = err.Error()
	} else {
		response["chunks_indexed"] = count
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// retrieveRequestFromArgs maps shared tool arguments onto a retrieval
// request. Absent optional numerics stay nil so no filter is applied.
func retrieveRequestFromArgs(request mcp.CallToolRequest, query string) core.RetrieveRequest {
	req := core.RetrieveRequest{
		Query:  query,
		TopK:   request.GetInt("top_k", 5),
		DocID:  request.GetString("doc_id", ""),
		Source: request.GetString("source", ""),
	}

	if threshold, ok := floatArg(request, "score_threshold"); ok {
		req.ScoreThreshold = &threshold
	}
	if version, ok := floatArg(request, "version"); ok {
		v := int(version)
		req.Version = &v
	}

	return req
}

// floatArg reads a numeric argument directly from the raw arguments map
// so presence can be distinguished from zero.
func floatArg(request mcp.CallToolRequest, key string) (float64, bool) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return 0, false
	}
	raw, ok := args[key]
	if !ok {
		return 0, false
	}
	f, ok := raw.(float64)
	return f, ok
}
