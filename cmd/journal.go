package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/relcut/relcut/internal/domain"
	"github.com/spf13/cobra"
)

func newJournalCmd(c *container) *cobra.Command {
	return &cobra.Command{
		Use:   "journal [session-id]",
		Short: "Show a journaled pipeline run",
		Long: `Journal prints the run record for the given session, or the most recent
run when no session is given. Records are observational only; they never feed
back into pipeline construction.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var record *domain.RunRecord
			var err error
			if len(args) == 1 {
				record, err = c.journal.Load(cmd.Context(), args[0])
			} else {
				record, err = c.journal.LoadLatest(cmd.Context())
			}
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render run record: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
