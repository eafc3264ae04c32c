package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// main is the entrypoint of catalogctl, the tool that performs every catalog
// mutation.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Manage the product catalog",
		Long: `catalogctl manages the product catalog stored in PostgreSQL.

Configuration is read from the environment (and a .env file when present),
the same way the API server reads it.

Examples:
  catalogctl migrate up
  catalogctl load fixtures/catalog.json
  catalogctl delete brand 3
  catalogctl category move trainers --parent shoes
  catalogctl search reindex`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		},
	}

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newLoadCommand())
	root.AddCommand(newDeleteCommand())
	root.AddCommand(newCategoryCommand())
	root.AddCommand(newSearchCommand())
	root.AddCommand(newAdminCommand())
	return root
}
