package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	buildForceRm bool
	buildCache   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the development container images",
	RunE: func(cmd *cobra.Command, args []string) error {
		composeArgs := []string{"build", "--build-arg", "GO_VER=" + settings.GoVer}
		if !buildCache {
			composeArgs = append(composeArgs, "--no-cache")
		}
		if buildForceRm {
			composeArgs = append(composeArgs, "--force-rm")
		}
		fmt.Printf("Building images for Go %s...\n", settings.GoVer)
		return compose.Run(cmd.Context(), composeArgs...)
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildForceRm, "force-rm", false, "always remove intermediate containers")
	buildCmd.Flags().BoolVar(&buildCache, "cache", true, "use the build cache")
	rootCmd.AddCommand(buildCmd)
}
