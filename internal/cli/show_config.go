// internal/cli/show_config.go
package scamlens

import (
	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/console"
	"github.com/spf13/cobra"
)

// showConfigCmd implements 'show config', which prints the merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		out := cmd.OutOrStdout()
		appconfig.ShowConfig(out, cfg.ConfigPath, cfg)
		if cfg.Debug {
			console.Dump(out, cfg)
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
