// internal/cli/serve.go
package scamlens

import (
	"github.com/mwiater/scamlens/internal/server"
	"github.com/spf13/cobra"
)

var runServer = server.Run

var (
	serveAddr      string
	serveUploadDir string
	serveDBPath    string
)

// serveCmd starts the local stub of the detection service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stub of the detection service",
	Long: `Run a local stub of the detection endpoints (/analyze, /feedback, /report).
Uploads are saved to disk, feedback and reports to a sqlite database, and every
screenshot gets the canned verdict from the config. Point serverURL at it to
try the client without the real classifiers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig().Server
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("upload-dir") {
			cfg.UploadDir = serveUploadDir
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = serveDBPath
		}
		return runServer(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :5000)")
	serveCmd.Flags().StringVar(&serveUploadDir, "upload-dir", "", "folder uploads are saved into (default uploads)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "sqlite database path (default data/scamlens.db)")
	rootCmd.AddCommand(serveCmd)
}
