package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GTDGit/catalog_api/internal/service"
)

const skipReindexFlag = "skip-reindex"

func newSearchCommand() *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search [reindex]",
		Short: "Maintain the search index",
	}

	searchCmd.AddCommand(&cobra.Command{
		Use:   "reindex",
		Short: "Create the index if needed and index every inventory row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(a *app) error {
				indexSync, err := a.indexSync()
				if err != nil {
					return err
				}
				stats, err := indexSync.Reindex(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "indexed %d, failed %d, removed %d into %s in %s\n",
					stats.Indexed, stats.Failed, stats.Removed, a.cfg.Search.Index, stats.Took)
				if stats.Failed > 0 {
					return fmt.Errorf("%d documents failed to index", stats.Failed)
				}
				return nil
			})
		},
	})
	return searchCmd
}

// reindexer rebuilds the search index from the database.
type reindexer interface {
	Reindex(ctx context.Context) (*service.ReindexStats, error)
}

// syncIndex brings the search index in line with a catalog change that was
// already committed. A failure is reported but does not fail the command.
func syncIndex(ctx context.Context, w io.Writer, r reindexer) {
	stats, err := r.Reindex(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("search index not updated, run `catalogctl search reindex` once search is reachable")
		fmt.Fprintln(w, "search index not updated")
		return
	}
	fmt.Fprintf(w, "search index synced: indexed %d, failed %d, removed %d\n", stats.Indexed, stats.Failed, stats.Removed)
}

// addSkipReindexFlag registers the flag that turns off the index sync run
// after a catalog change.
func addSkipReindexFlag(cmd *cobra.Command) {
	cmd.Flags().Bool(skipReindexFlag, false, "Do not sync the search index afterwards; run `catalogctl search reindex` later")
}

// syncIndexAfter runs syncIndex unless the command was given --skip-reindex.
func syncIndexAfter(cmd *cobra.Command, a *app) {
	if skip, _ := cmd.Flags().GetBool(skipReindexFlag); skip {
		fmt.Fprintln(cmd.OutOrStdout(), "search index not synced (--skip-reindex)")
		return
	}
	indexSync, err := a.indexSync()
	if err != nil {
		log.Warn().Err(err).Msg("search not configured, index not updated")
		return
	}
	syncIndex(cmd.Context(), cmd.OutOrStdout(), indexSync)
}
