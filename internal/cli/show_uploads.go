// internal/cli/show_uploads.go
package scamlens

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mwiater/scamlens/internal/console"
	"github.com/mwiater/scamlens/internal/store"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var uploadsLimit int

// showUploadsCmd implements 'show uploads', which lists the newest screenshots
// received by the local stub server.
var showUploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Show screenshots received by the stub server",
	Long:  `Show the newest screenshots recorded by 'scamlens serve' in its sqlite database, with the models, weights and canned verdict of each.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		return runShowUploads(cmd.OutOrStdout(), console.FormatFor(cfg), cfg.Server.DatabasePath(), uploadsLimit)
	},
}

func init() {
	showUploadsCmd.Flags().IntVarP(&uploadsLimit, "limit", "n", 20, "number of uploads to show")
	showCmd.AddCommand(showUploadsCmd)
}

func runShowUploads(out io.Writer, format console.Format, dbPath string, limit int) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(out, "No uploads recorded yet (%s). Start 'scamlens serve' and analyze a screenshot.\n", dbPath)
		return nil
	}
	db, err := store.Open(dbPath, true)
	if err != nil {
		return err
	}
	defer db.Close()

	uploads, err := db.RecentUploads(limit)
	if err != nil {
		return fmt.Errorf("list uploads: %w", err)
	}

	switch format {
	case console.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(uploads)
	case console.FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(uploads); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(uploads) == 0 {
		fmt.Fprintln(out, "No uploads recorded yet.")
		return nil
	}
	for _, u := range uploads {
		verdict := "legitimate"
		if u.IsScam {
			verdict = "scam"
		}
		fmt.Fprintf(out, "%s  %-32s %8d B  %s+%s %.1f/%.1f  %s %.1f%%\n",
			u.CreatedAt.Format("2006-01-02 15:04:05"), u.Filename, u.SizeBytes,
			u.TextModel, u.CNNModel, u.TextWeight, u.CNNWeight, verdict, u.Confidence)
	}
	return nil
}
