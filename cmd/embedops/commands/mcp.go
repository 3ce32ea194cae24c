// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to query the corpus via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/embedops/embedops/internal/config"
	"github.com/embedops/embedops/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the retrieval service as an MCP (Model Context Protocol) server,
enabling LLM agents like Claude to search the ingested corpus and ask
grounded questions via stdio.

Configure in Claude Desktop's config file to enable the tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  embedops mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "embedops": {
  #       "command": "embedops",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	resources, client, err := newRetrievalStack(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("initializing retrieval service: %w", err)
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"embedops document retrieval",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, resources, client)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("embedops MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down")
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
