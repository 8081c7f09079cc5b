package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relcut",
	Short: "A CLI tool for cutting releases across a multi-repository workspace",
	Long: `relcut sequences the git operations of a release across every managed
sub-repository, delegating the per-repository fan-out to a runner such as
git-do. Every pipeline is shown in full and only executed after explicit
confirmation.`,
}

func Execute() error {
	return rootCmd.Execute()
}
