package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/repository"
)

func newDeleteCommand() *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Delete a catalog record",
		Long: fmt.Sprintf(`Delete a catalog record. References to it are handled per relation:
dependents that protect it abort the delete, nullable references are cleared
and owned rows are removed with it. The search index is synced afterwards so
deleted or changed variants stop appearing in search results; pass
--skip-reindex to leave that to a later "catalogctl search reindex".

Entities: %s`, entityNames()),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}
			return withApp(func(a *app) error {
				res, err := a.management.Delete(cmd.Context(), args[0], id)
				if err != nil {
					return err
				}
				printDeleteResult(cmd.OutOrStdout(), res)
				syncIndexAfter(cmd, a)
				return nil
			})
		},
	}
	addSkipReindexFlag(deleteCmd)
	return deleteCmd
}

func entityNames() string {
	names := make([]string, 0, len(models.Entities()))
	for _, e := range models.Entities() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}

func printDeleteResult(w io.Writer, res *repository.DeleteResult) {
	fmt.Fprintf(w, "deleted %s %d\n", res.Entity, res.ID)
	for _, key := range sortedKeys(res.Nulled) {
		fmt.Fprintf(w, "  set null %s: %d\n", key, res.Nulled[key])
	}
	for _, key := range sortedKeys(res.Cascaded) {
		fmt.Fprintf(w, "  cascaded %s: %d\n", key, res.Cascaded[key])
	}
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
