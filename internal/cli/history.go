package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/kiln/internal/ports/primary"
	"github.com/example/kiln/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "history [entity]",
		Short: "List recorded scaffold runs",
		Long: `List the runs recorded in the generation ledger, newest first.

Examples:
  kiln history
  kiln history Invoice --status failed
  kiln history show RUN-003`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.HistoryAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			filters := primary.RunFilters{Status: status, Limit: limit}
			if len(args) == 1 {
				filters.Entity = args[0]
			}
			_, err = adapter.List(NewContext(), filters)
			return err
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (succeeded, failed, aborted)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")

	cmd.AddCommand(historyShowCmd())

	return cmd
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show a run and the files it wrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.HistoryAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.Show(NewContext(), args[0])
			return err
		},
	}
}
