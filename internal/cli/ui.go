// internal/cli/ui.go
package scamlens

import (
	"github.com/mwiater/scamlens/internal/tui"
	"github.com/spf13/cobra"
)

var startUI = tui.Start

// uiCmd opens the interactive analysis page.
var uiCmd = &cobra.Command{
	Use:         "ui",
	Short:       "Open the interactive screenshot analysis page",
	Long:        `Open the full-screen analysis page: pick a screenshot, tune the model weights, analyze it, then give feedback or report the scam.`,
	Annotations: map[string]string{annotationFullscreen: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		svc := newService(cfg)
		defer svc.Close()
		return startUI(cmd.Context(), cfg, svc)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
