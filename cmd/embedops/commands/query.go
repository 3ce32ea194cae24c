// ABOUTME: CLI command to search the ingested corpus
// ABOUTME: Embeds the query, searches Pinecone, and prints scored hits
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/embedops/embedops/internal/config"
	"github.com/embedops/embedops/internal/core"
	"github.com/joho/godotenv"
)

var queryFlags retrievalFlags

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Search ingested documents",
		Long: `Search ingested documents by semantic similarity.

Embeds the query, searches the vector index, and prints scored hits
with source citations and text previews.

Examples:
  embedops query "transformer attention"
  embedops query --top-k 10 "evaluation metrics"
  embedops query --source paper.pdf --threshold 0.3 "ablation"
  embedops query --format json "training data"`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	queryFlags.register(cmd)

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(queryFlags.topK, "top-k"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	resources, _, err := newRetrievalStack(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	hits, err := core.Retrieve(cmd.Context(), resources, queryFlags.request(cmd, args[0]))
	if err != nil {
		return fmt.Errorf("searching documents: %w", err)
	}

	if len(hits) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No matches found for query: %s\n", args[0])
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	// Table format
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tSOURCE\tCHUNK\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t------\t-----\t-------\n")

	for _, hit := range hits {
		preview := hit.TextPreview
		if preview == "" {
			preview = "(text unavailable)"
		}
		fmt.Fprintf(w, "%.3f\t%s\t%d\t%s\n",
			hit.Score,
			truncate(hit.Source, 30),
			hit.ChunkID,
			truncate(preview, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(hits))
	}

	return nil
}
