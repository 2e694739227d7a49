package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/kiln/internal/cli"
	"github.com/example/kiln/internal/version"
	"github.com/example/kiln/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "kiln",
		Short:   "kiln - CRUD scaffolding for Laravel API projects",
		Version: version.String(),
		Long: `kiln generates the model, migration, controller, repository layer,
routes, form requests, factory, seeder and tests for one entity of a
Laravel project, and records every run in a local ledger.`,
		PersistentPreRunE: cli.Bootstrap,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	cli.BindGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.MakeCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.TemplatesCmd())

	err := rootCmd.Execute()
	wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
