package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/xwb/internal/core/domain"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the xwb version and the XWS format version that imports are normalised to.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("xwb version %s\n", version)
		cmd.Printf("XWS format %s\n", domain.XWSVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
