package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/GTDGit/catalog_api/internal/models"
)

const parentFlag = "parent"

var moveFlags = map[string]cobraflags.Flag{
	parentFlag: &cobraflags.StringFlag{
		Name:  parentFlag,
		Value: "",
		Usage: "Slug of the new parent; empty makes the category a root",
	},
}

func newCategoryCommand() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category [move|tree|rebuild]",
		Short: "Inspect and rearrange the category tree",
	}

	moveCmd := &cobra.Command{
		Use:   "move <slug>",
		Short: "Reparent a category together with its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := moveFlags[parentFlag].GetString()
			return withApp(func(a *app) error {
				c, err := a.management.MoveCategory(cmd.Context(), args[0], parent)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "moved %s to depth %d of tree %d\n", c.Slug, c.Depth, c.TreeID)
				return nil
			})
		},
	}
	cobraflags.RegisterMap(moveCmd, moveFlags)

	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(a *app) error {
				categories, err := a.catalog.CategoryTree(cmd.Context())
				if err != nil {
					return err
				}
				printTree(cmd.OutOrStdout(), categories)
				return nil
			})
		},
	}

	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute every nested-set position from the parent links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(a *app) error {
				if err := a.categories.Rebuild(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "category tree rebuilt")
				return nil
			})
		},
	}

	categoryCmd.AddCommand(moveCmd, treeCmd, rebuildCmd)
	return categoryCmd
}

// printTree writes one line per category, indented by depth. categories must
// be in tree order.
func printTree(w io.Writer, categories []models.Category) {
	for _, c := range categories {
		marker := ""
		if !c.IsActive {
			marker = " (inactive)"
		}
		fmt.Fprintf(w, "%s%s [%s]%s\n", strings.Repeat("  ", c.Depth), c.Name, c.Slug, marker)
	}
}
