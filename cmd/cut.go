package cmd

import (
	"github.com/relcut/relcut/internal/domain"
	"github.com/spf13/cobra"
)

// addReleaseFlags registers the three release parameters shared by the
// release commands. All three are required; validation reports the first
// missing one by flag name.
func addReleaseFlags(cmd *cobra.Command, params *domain.ReleaseParams) {
	cmd.Flags().StringVarP(&params.Tag, "tag", "t", "", "Release tag, e.g. 1.2.0")
	cmd.Flags().StringVarP(&params.Branch, "branch", "b", "", "Umbrella branch to cut the release from")
	cmd.Flags().StringVarP(&params.Remote, "remote", "r", "", "Remote the release branches are pushed to")
}

func newCutCmd(c *container) *cobra.Command {
	var params domain.ReleaseParams
	cmd := &cobra.Command{
		Use:   "cut",
		Short: "Cut a release branch in every managed repository",
		Long: `Cut builds the release-cut pipeline: a new umbrella branch, a release
branch in every managed repository, and a push of that release branch with
upstream tracking. The pipeline is printed in full and runs only after
confirmation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := c.releaseOrchestrator()
			if err != nil {
				return err
			}
			return orch.Cut(cmd.Context(), params)
		},
	}
	addReleaseFlags(cmd, &params)
	return cmd
}
