// ABOUTME: CLI command to answer a question from retrieved context
// ABOUTME: Retrieves chunks, packs them into a context block, and asks the chat model
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embedops/embedops/internal/config"
	"github.com/embedops/embedops/internal/core"
	"github.com/joho/godotenv"
)

var (
	answerFlags      retrievalFlags
	answerMaxContext int
	answerTemp       float32
	answerMaxTokens  int
)

// NewAnswerCmd creates the answer command
func NewAnswerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answer <question>",
		Short: "Answer a question from the corpus",
		Long: `Answer a question using only retrieved document context.

Retrieves the most relevant chunks, packs them into a bounded context
block with citations, and asks the chat model to answer from that
context alone.

Examples:
  embedops answer "What dataset was used for evaluation?"
  embedops answer --top-k 8 "How is the model trained?"
  embedops answer --source paper.pdf "What are the limitations?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAnswer,
	}

	answerFlags.register(cmd)
	cmd.Flags().IntVar(&answerMaxContext, "max-context", core.DefaultMaxContextChars, "Context budget in characters")
	cmd.Flags().Float32Var(&answerTemp, "temperature", core.DefaultTemperature, "Sampling temperature")
	cmd.Flags().IntVar(&answerMaxTokens, "max-tokens", core.DefaultMaxTokens, "Maximum answer tokens")

	return cmd
}

func runAnswer(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(answerFlags.topK, "top-k"); err != nil {
		return err
	}
	if err := validatePositiveInt(answerMaxContext, "max-context"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	resources, client, err := newRetrievalStack(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	req := core.AnswerRequest{
		RetrieveRequest: answerFlags.request(cmd, args[0]),
		MaxContextChars: answerMaxContext,
		Temperature:     answerTemp,
		MaxTokens:       answerMaxTokens,
	}

	answer, err := core.AnswerQuestion(cmd.Context(), resources, client, req)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", answer.Answer)

	if !quiet && len(answer.Hits) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSources:\n")
		for _, hit := range answer.Hits {
			fmt.Fprintf(cmd.OutOrStdout(), "  [%.3f] %s chunk %d\n", hit.Score, hit.Source, hit.ChunkID)
		}
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "model %s, context %d chars\n", answer.Model, answer.UsedContextChars)
	}

	return nil
}
