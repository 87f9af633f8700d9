package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("tempura {{.Version}}\n")
}

// SetVersion records build information.
func SetVersion(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{
				"version": Version,
				"commit":  Commit,
				"date":    Date,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tempura %s\n", versionString())
		return nil
	},
}
