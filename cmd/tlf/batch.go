package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/tlf/internal/rendering"
	"github.com/jonathan/tlf/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Look up many queries read from a file",
	Long: `Look up one query per line. Blank lines and lines starting with # are skipped.
Use --file - to read from stdin. The endpoint is resolved once for the whole batch.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

var (
	batchFile   string
	concurrency int
)

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "File with one query per line, or - for stdin (required)")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of queries looked up at once (1-16); needs --rate, otherwise queries run one at a time")
	_ = batchCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(batchCmd)
}

// batchRule separates query blocks in plain and table output.
var batchRule = strings.Repeat("─", 40)

type batchRecord struct {
	Query   string               `json:"query"`
	Kind    types.Kind           `json:"kind"`
	Results []types.SearchResult `json:"results"`
	Error   string               `json:"error,omitempty"`
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runBatch(cmd *cobra.Command, _ []string) error {
	queries, err := readQueries(cmd.InOrStdin(), batchFile)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries in %s", batchFile)
	}

	items, err := newClient(cmd).LookupBatch(cmd.Context(), queries, settings.Concurrency)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0

	if rendering.Format(settings.Output) == rendering.FormatJSON {
		records := make([]batchRecord, 0, len(items))
		for _, item := range items {
			rec := batchRecord{Query: item.Query, Results: []types.SearchResult{}}
			if item.Err != nil {
				failed++
				rec.Error = item.Err.Error()
			} else {
				rec.Kind = item.Outcome.Kind
				rec.Results = item.Outcome.Results
			}
			records = append(records, rec)
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode batch results: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		for i, item := range items {
			if i > 0 {
				fmt.Fprintln(out, batchRule)
			}
			if item.Err != nil {
				failed++
				fmt.Fprintf(out, "Error for '%s': %s\n", item.Query, describeError(item.Err))
				continue
			}
			if err := writeOutcome(out, item.Outcome); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed", failed, len(items))
	}
	return nil
}

// readQueries reads one query per line from path, or from stdin when path is "-".
func readQueries(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open query file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}
	return queries, nil
}
