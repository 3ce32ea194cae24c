// ABOUTME: MCP tool definitions and registration for the document retrieval server
// ABOUTME: Defines JSON schemas for the query, answer, and status tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/embedops/embedops/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, resources *core.Resources, chat core.ChatModel) *Handlers {
	handlers := &Handlers{
		resources: resources,
		chat:      chat,
	}

	// 1. query_documents - semantic search over the ingested corpus
	server.AddTool(mcp.Tool{
		Name:        "query_documents",
		Description: "Search the ingested document corpus by semantic similarity. Returns scored chunks with source citations and text previews.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query text",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return, 1-20 (default: 5)",
					"default":     5,
				},
				"score_threshold": map[string]interface{}{
					"type":        "number",
					"description": "Drop matches with similarity score strictly below this value",
				},
				"doc_id": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to a single document ID",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to a single source filename",
				},
				"version": map[string]interface{}{
					"type":        "number",
					"description": "Restrict results to a document version",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.QueryDocuments)

	// 2. answer_question - retrieval-augmented answer generation
	server.AddTool(mcp.Tool{
		Name:        "answer_question",
		Description: "Answer a question using only retrieved document context. Returns the generated answer plus the hits that grounded it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the corpus",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to retrieve, 1-20 (default: 5)",
					"default":     5,
				},
				"score_threshold": map[string]interface{}{
					"type":        "number",
					"description": "Drop matches with similarity score strictly below this value",
				},
				"doc_id": map[string]interface{}{
					"type":        "string",
					"description": "Restrict retrieval to a single document ID",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Restrict retrieval to a single source filename",
				},
				"version": map[string]interface{}{
					"type":        "number",
					"description": "Restrict retrieval to a document version",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AnswerQuestion)

	// 3. service_status - index and model readiness
	server.AddTool(mcp.Tool{
		Name:        "service_status",
		Description: "Report the service configuration: namespace, indexed chunk count, embedding dimension, and whether answer generation is available.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ServiceStatus)

	return handlers
}
