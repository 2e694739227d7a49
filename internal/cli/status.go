package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/kiln/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [entity]",
		Short: "Show generated files edited or deleted since generation",
		Long: `Compare the files kiln created for an entity with the checksums recorded
in the ledger. Shared files that kiln only patched are not tracked.

Example:
  kiln status Invoice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.HistoryAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.Status(NewContext(), args[0])
			return err
		},
	}
}
