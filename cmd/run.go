package cmd

import (
	"github.com/relcut/relcut/internal/domain"
	"github.com/spf13/cobra"
)

func newRunCmd(c *container) *cobra.Command {
	var params domain.ReleaseParams
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Cut a release and merge it back, with one confirmation per phase",
		Long: `Run chains the cut and merge-back pipelines. Each phase is confirmed
separately, and the merge-back phase is only offered after the cut phase was
approved and completed without a failed step.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := c.releaseOrchestrator()
			if err != nil {
				return err
			}
			return orch.Run(cmd.Context(), params)
		},
	}
	addReleaseFlags(cmd, &params)
	return cmd
}
