package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "govulncheck-action [OPTIONS]",
		Short: "Run govulncheck and report the results on GitHub",
		Long: `govulncheck-action runs govulncheck over one or more Go modules, annotates
               vulnerable modules and call sites and writes a job summary`,
		SilenceErrors: true,
	}

	// versions is overridden at build time with -ldflags "-X".
	versions = "dev"
)

func Execute() error {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and quit",
		Args:  NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(versions)
		},
	}

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(versionCmd)
	return rootCmd.Execute()
}
