package cmd

import (
	"github.com/relcut/relcut/internal/domain"
	"github.com/spf13/cobra"
)

func newMergeBackCmd(c *container) *cobra.Command {
	var params domain.ReleaseParams
	cmd := &cobra.Command{
		Use:   "merge-back",
		Short: "Merge a cut release into the long-lived target branches",
		Long: `Merge-back integrates a cut release into each configured target branch in
order: checkout, pull, no-ff merge of the release branch, tag, release branch
deletion, and a push to origin. The pipeline is printed in full and runs only
after confirmation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := c.releaseOrchestrator()
			if err != nil {
				return err
			}
			return orch.MergeBack(cmd.Context(), params)
		},
	}
	addReleaseFlags(cmd, &params)
	return cmd
}
