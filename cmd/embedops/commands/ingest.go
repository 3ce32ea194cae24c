// ABOUTME: CLI command to ingest PDF documents into the vector index
// ABOUTME: Runs the chunk, embed, persist, upsert pipeline over a directory
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embedops/embedops/internal/config"
	"github.com/embedops/embedops/internal/core"
	"github.com/embedops/embedops/internal/ingestion"
	"github.com/embedops/embedops/internal/storage"
	"github.com/joho/godotenv"
)

var (
	ingestDir       string
	ingestNamespace string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest PDFs into the vector index",
		Long: `Ingest PDF documents into the vector index.

Reads every PDF under the raw directory, splits the text into
overlapping word windows, embeds each chunk, records chunk text
locally, and upserts vectors to Pinecone in batches.

Examples:
  embedops ingest
  embedops ingest --dir ./papers
  embedops ingest --namespace emb_v2`,
		Args: cobra.NoArgs,
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestDir, "dir", "", "Directory of PDFs to ingest (default: data/raw)")
	cmd.Flags().StringVar(&ingestNamespace, "namespace", "", "Override the embedding namespace")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if ingestDir != "" {
		cfg.RawPDFDir = ingestDir
	}
	if ingestNamespace != "" {
		cfg.Namespace = ingestNamespace
	}

	docs, err := ingestion.IngestPDFs(cfg.RawPDFDir)
	if err != nil {
		return fmt.Errorf("ingesting PDFs: %w", err)
	}
	if verbose {
		for _, doc := range docs {
			fmt.Fprintf(cmd.ErrOrStderr(), "read %s (%d chars, doc_id %s)\n",
				doc.Source, len(doc.Text), doc.DocID)
		}
	}

	client, err := newOpenAIClient(cfg)
	if err != nil {
		return err
	}
	index, err := newVectorIndex(cmd.Context(), cfg, client.Dimension())
	if err != nil {
		return fmt.Errorf("preparing vector index: %w", err)
	}

	writer, err := storage.NewChunkWriter(cfg.ChunkStorePath)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	defer func() { _ = writer.Close() }()

	pipeline, err := core.NewPipeline(client, index, writer, core.PipelineConfig{
		ChunkConfig:     cfg.ChunkConfig(),
		Namespace:       cfg.Namespace,
		UpsertBatchSize: cfg.UpsertBatchSize,
	})
	if err != nil {
		return err
	}

	result, err := pipeline.Ingest(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("ingesting documents: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Ingested %d document(s): %d vectors upserted, %d chunks skipped (namespace %s)\n",
			result.Documents, result.VectorsUpserted, result.ChunksSkipped, result.Namespace)
	}
	return nil
}
