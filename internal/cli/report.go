// internal/cli/report.go
package scamlens

import (
	"fmt"
	"strings"

	"github.com/mwiater/scamlens/internal/console"
	"github.com/mwiater/scamlens/internal/controller"
	"github.com/spf13/cobra"
)

var (
	reportType        string
	reportDescription string
)

// reportCmd sends a scam report without analyzing anything first.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report a scam to the detection service",
	Long: fmt.Sprintf(`Send a scam report with a type and a description.

Scam types: %s`, strings.Join(controller.ScamTypes, ", ")),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		svc := newService(cfg)
		defer svc.Close()

		ctrl := controller.New(svc, console.NewView(cmd.ErrOrStderr(), cfg.Debug), cfg)
		if err := ctrl.SubmitReport(cmd.Context(), reportType, reportDescription); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), controller.ReportThanks)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportType, "type", "t", "", "scam type")
	reportCmd.Flags().StringVarP(&reportDescription, "description", "d", "", "what happened")
	rootCmd.AddCommand(reportCmd)
}
