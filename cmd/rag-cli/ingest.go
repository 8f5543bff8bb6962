package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bull/rag-assistant/internal/app"
)

var (
	ingestStrategy string
	ingestReset    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Index .pdf or .txt files into the knowledge base",
	Long: `Loads each file, splits it into chunks, embeds them and stores them in the
vector collection. Ingesting the same file twice stores its chunks twice;
use --reset to clear the collection first.

Strategies: recursive (default), fixed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestStrategy, "strategy", "s", "recursive", "chunking strategy")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "clear the collection before indexing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	start := time.Now()

	a, err := openApp(ctx, app.WithoutChat())
	if err != nil {
		return err
	}
	defer a.Close()

	if ingestReset {
		fmt.Fprintln(out, "Clearing existing collection...")
		if err := a.VectorStore.ClearCollection(ctx); err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
		if err := a.VectorStore.EnsureCollection(ctx); err != nil {
			return fmt.Errorf("failed to recreate collection: %w", err)
		}
	}

	total := 0
	for _, path := range args {
		source := filepath.Base(path)
		result, err := a.Pipeline.Ingest(ctx, path, source, ingestStrategy)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		total += result.Chunks
		fmt.Fprintf(out, "  %s: %d chunks from %d pages (%s, %s)\n",
			source, result.Chunks, result.Pages, result.Strategy, result.Duration.Round(time.Millisecond))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Indexed %d chunks from %d files in %s\n", total, len(args), time.Since(start).Round(time.Millisecond))
	return nil
}
