package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vpnforge/vpnforge/internal/client/output"
	"github.com/vpnforge/vpnforge/internal/constants"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of the CLI",
	Run: func(_ *cobra.Command, _ []string) {
		output.KeyValue("CLI version", *constants.GetVersion())
		output.KeyValue("Go version", runtime.Version())
		output.KeyValue("Platform", runtime.GOOS+"/"+runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
