package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/kiln/internal/config"
	"github.com/example/kiln/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize kiln in a Laravel project",
		Long: `Write a default kiln.yaml to the project root and create the
generation ledger at .kiln/kiln.db.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			dir, err := resolveProjectDir()
			if err != nil {
				return err
			}

			cfg := config.Default()
			path, err := config.SaveConfig(dir, cfg, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Config written to %s\n", path)

			if cfg.Ledger.Enabled {
				ledgerPath := cfg.LedgerPath(dir)
				database, err := db.Open(ledgerPath)
				if err != nil {
					return fmt.Errorf("failed to initialize ledger: %w", err)
				}
				database.Close()
				fmt.Fprintf(out, "✓ Ledger initialized at %s\n", ledgerPath)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  kiln make Invoice --fields=\"number:string,total:decimal\" --dry-run")
			fmt.Fprintln(out, "  kiln history")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing kiln.yaml")

	return cmd
}
