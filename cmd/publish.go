package cmd

import (
	"github.com/spf13/cobra"
)

func newPublishCmd(c *container) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a GitHub release for an already-applied tag",
		Long: `Publish creates a GitHub release on the umbrella repository for a tag the
merge-back pipeline has already applied. Publishing is idempotent; an existing
release for the tag is left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := c.publishOrchestrator()
			if err != nil {
				return err
			}
			return orch.Execute(cmd.Context(), tag)
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Release tag, e.g. 1.2.0")
	return cmd
}
