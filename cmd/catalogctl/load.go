package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GTDGit/catalog_api/internal/service"
)

func newLoadCommand() *cobra.Command {
	loadCmd := &cobra.Command{
		Use:   "load <fixture.json>",
		Short: "Load a catalog fixture",
		Long: `Load categories, brands, attributes, product types, products, inventory,
media, stock and promotions from a JSON fixture. Records are created in
dependency order and reference each other by slug, name or sku. The search
index is synced afterwards unless --skip-reindex is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			fixture, err := service.DecodeFixture(f)
			if err != nil {
				return err
			}

			return withApp(func(a *app) error {
				stats, err := a.management.Load(cmd.Context(), fixture)
				if err != nil {
					return err
				}
				printLoadStats(cmd.OutOrStdout(), stats)
				syncIndexAfter(cmd, a)
				return nil
			})
		},
	}
	addSkipReindexFlag(loadCmd)
	return loadCmd
}

func printLoadStats(w io.Writer, s *service.LoadStats) {
	fmt.Fprintf(w, "categories:      %d\n", s.Categories)
	fmt.Fprintf(w, "brands:          %d\n", s.Brands)
	fmt.Fprintf(w, "attributes:      %d (%d values)\n", s.Attributes, s.Values)
	fmt.Fprintf(w, "product types:   %d\n", s.ProductTypes)
	fmt.Fprintf(w, "products:        %d\n", s.Products)
	fmt.Fprintf(w, "inventory:       %d (%d media, %d stock)\n", s.Inventory, s.Media, s.Stock)
	fmt.Fprintf(w, "promotions:      %d (%d items)\n", s.Promotions, s.PromotionItems)
}
