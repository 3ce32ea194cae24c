// ABOUTME: Root CLI command with global flags shared by all subcommands
// ABOUTME: Wires subcommands and handles verbose/quiet/format settings
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embedops",
		Short: "Document retrieval and question answering over a PDF corpus",
		Long: `
███████╗███╗   ███╗██████╗ ███████╗██████╗  ██████╗ ██████╗ ███████╗
██╔════╝████╗ ████║██╔══██╗██╔════╝██╔══██╗██╔═══██╗██╔══██╗██╔════╝
█████╗  ██╔████╔██║██████╔╝█████╗  ██║  ██║██║   ██║██████╔╝███████╗
██╔══╝  ██║╚██╔╝██║██╔══██╗██╔══╝  ██║  ██║██║   ██║██╔═══╝ ╚════██║
███████╗██║ ╚═╝ ██║██████╔╝███████╗██████╔╝╚██████╔╝██║     ███████║
╚══════╝╚═╝     ╚═╝╚═════╝ ╚══════╝╚═════╝  ╚═════╝ ╚═╝     ╚══════╝

Ingest PDF documents, search them by semantic similarity, and answer
questions grounded in retrieved context.

Configure via environment variables or a .env file:
  OPENAI_API_KEY       required for embeddings and answers
  PINECONE_API_KEY     required for the vector index
  PINECONE_INDEX_NAME  index name (default: embedops-rag-docs)
  EMBEDDING_NAMESPACE  embedding namespace (default: emb_v1)`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewAnswerCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
