package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/phpreflect/internal/searcher"
	"github.com/dshills/phpreflect/internal/storage"
	"github.com/dshills/phpreflect/internal/stream"
)

type searchHit struct {
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
	Kind      string  `json:"kind"`
	Name      string  `json:"name"`
	File      string  `json:"file"`
	StartLine int     `json:"start_line"`
}

func newSearchCmd() *cobra.Command {
	var mode string
	var limit int
	var kinds []string

	cmd := &cobra.Command{
		Use:   "search <path> <query>",
		Short: "Search the stored symbols of an indexed project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.noDB {
				return errors.New("search reads the database and cannot run with --no-db")
			}
			ctx := cmd.Context()

			root, err := stream.CanonicalPath(args[0])
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			project, err := store.GetProject(ctx, root)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%s is not indexed, run phpreflect index first", root)
			}
			if err != nil {
				return err
			}

			resp, err := searcher.NewSearcher(store).Search(ctx, searcher.SearchRequest{
				Query:     args[1],
				Limit:     limit,
				Mode:      searcher.SearchMode(mode),
				Kinds:     kinds,
				ProjectID: project.ID,
			})
			if err != nil {
				return err
			}

			hits := make([]searchHit, 0, len(resp.Results))
			for _, r := range resp.Results {
				hits = append(hits, searchHit{
					Rank:      r.Rank,
					Score:     r.RelevanceScore,
					Kind:      r.Symbol.Kind,
					Name:      r.Symbol.FQN,
					File:      r.FilePath,
					StartLine: r.Symbol.StartLine,
				})
			}

			return output(hits, func(w io.Writer) {
				for _, h := range hits {
					fmt.Fprintf(w, "%3d. %-9s %s  %s:%d\n", h.Rank, h.Kind, h.Name, h.File, h.StartLine)
				}
				fmt.Fprintf(w, "%d result(s) in %s (%s)\n", resp.TotalResults, resp.Duration, resp.SearchMode)
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(searcher.SearchModeHybrid), "search mode: hybrid, name or keyword")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results (1-100)")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "restrict to symbol kinds (class, interface, trait, function, method, constant)")

	return cmd
}
