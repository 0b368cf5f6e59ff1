package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/phpreflect/internal/indexer"
)

func newIndexCmd() *cobra.Command {
	var storeTokens bool
	var includeVendor bool

	cmd := &cobra.Command{
		Use:   "index <path>",
		Short: "Analyze a PHP project and store its symbols",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("store-tokens") {
				cfg.StoreTokenStreams = storeTokens
			}
			if cmd.Flags().Changed("include-vendor") {
				cfg.IncludeVendor = includeVendor
			}

			reg, stats, err := analyze(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("index %s: %w", args[0], err)
			}

			return output(stats, func(w io.Writer) {
				writeStats(w, stats)
				fmt.Fprintf(w, "  namespaces: %d\n", len(reg.Namespaces()))
			})
		},
	}

	cmd.Flags().BoolVar(&storeTokens, "store-tokens", false, "keep token streams for incremental runs")
	cmd.Flags().BoolVar(&includeVendor, "include-vendor", false, "index the vendor directory")

	return cmd
}

func writeStats(w io.Writer, stats *indexer.Statistics) {
	fmt.Fprintf(w, "run %s finished in %s\n", stats.RunID, stats.Duration)
	fmt.Fprintf(w, "  discovered: %d\n", stats.FilesDiscovered)
	fmt.Fprintf(w, "  indexed:    %d (%d from stored token streams)\n", stats.FilesIndexed, stats.FilesCached)
	fmt.Fprintf(w, "  failed:     %d\n", stats.FilesFailed)
	fmt.Fprintf(w, "  removed:    %d\n", stats.FilesRemoved)
	fmt.Fprintf(w, "  symbols:    %d\n", stats.SymbolsExtracted)
	fmt.Fprintf(w, "  parse errs: %d\n", stats.ParseErrors)

	paths := make([]string, 0, len(stats.ProcessingErrors))
	for path := range stats.ProcessingErrors {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(w, "%s:\n", path)
		for _, reason := range stats.ProcessingErrors[path] {
			fmt.Fprintf(w, "  %s\n", reason)
		}
	}
}
