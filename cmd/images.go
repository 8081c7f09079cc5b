package cmd

import (
	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newImagesCmd(c *container) *cobra.Command {
	var (
		buildBase   bool
		buildFinal  bool
		showTargets bool
		configFile  string
	)
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Generate Docker recipes for the image matrix and optionally build them",
		Long: `Images expands the configured machine and MPI matrix into build targets and
writes a base recipe, a final recipe and a sample batch file for each. Without
build flags it only prints the docker commands it would run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configFile
			if path == "" {
				path = c.cfg.ImagesFile
			}
			imagesCfg, err := config.LoadImagesConfig(c.fsRepo, path)
			if err != nil {
				return err
			}
			return c.imagesOrchestrator().Execute(cmd.Context(), imagesCfg,
				orchestrator.ImageBuildOptions{
					BuildBase:   buildBase,
					BuildFinal:  buildFinal,
					ShowTargets: showTargets,
				})
		},
	}
	cmd.Flags().BoolVarP(&buildBase, "base", "b", false, "Build the base images")
	cmd.Flags().BoolVarP(&buildFinal, "final", "f", false, "Build the final images")
	cmd.Flags().BoolVarP(&showTargets, "show-targets", "s", false, "List the matrix targets and exit")
	cmd.Flags().StringVar(&configFile, "config", "", "Image matrix configuration file")
	return cmd
}
