// internal/cli/root.go
package scamlens

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	configUsed    string
	currentConfig *appconfig.Config
)

// boolFlags are persistent flags whose config value is copied back into the
// flag when the user did not set it.
var boolFlags = []string{"debug", "jsonMode", "yamlMode", "metrics"}

var rootCmd = &cobra.Command{
	Use:           "scamlens",
	Short:         "scamlens: terminal client for screenshot scam detection",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) Keep pflags and viper reporting the same final value.
		for _, name := range boolFlags {
			if f := cmd.Flags().Lookup(name); f != nil && !f.Changed {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}

		// 3) Materialize the merged configuration (flags > config > defaults).
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		cfg.ConfigPath = configUsed
		currentConfig = &cfg

		// The log is mirrored to stdout only in debug mode, and never when
		// stdout carries the terminal UI or JSON/YAML output.
		fullscreen := cmd.Annotations[annotationFullscreen] == "true"
		if cfg.Debug && !fullscreen && !cfg.JSONMode && !cfg.YAMLMode {
			return initLogging(cfg.LogFilePath())
		}
		return initLoggingFileOnly(cfg.LogFilePath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = closeLogging()
	},
}

const annotationFullscreen = "fullscreen"

var (
	initLogging         = logging.Init
	initLoggingFileOnly = logging.InitFileOnly
	closeLogging        = logging.Close
)

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("jsonMode", false, "print results as JSON")
	rootCmd.PersistentFlags().Bool("yamlMode", false, "print results as YAML")
	rootCmd.PersistentFlags().Bool("metrics", false, "record per-model-pair analysis metrics")
	rootCmd.PersistentFlags().String("serverURL", appconfig.DefaultServerURL, "detection service base URL")
	rootCmd.PersistentFlags().Int("timeout", 60, "request timeout in seconds")
	rootCmd.PersistentFlags().String("logFile", "scamlens.log", "log file path")

	for _, name := range []string{"debug", "jsonMode", "yamlMode", "metrics", "serverURL", "timeout", "logFile"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// ensureConfigLoaded reads the config and sets safe defaults.
func ensureConfigLoaded() error {
	viper.SetDefault("debug", false)
	viper.SetDefault("jsonMode", false)
	viper.SetDefault("yamlMode", false)
	viper.SetDefault("metrics", false)
	viper.SetDefault("serverURL", appconfig.DefaultServerURL)

	configUsed = ""
	path, found := appconfig.ResolvePath(cfgFile)
	if !found {
		// A missing config file is not an error: flags and defaults apply.
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	configUsed = viper.ConfigFileUsed()
	return nil
}

// getConfig returns the loaded application configuration for other commands.
func getConfig() *appconfig.Config {
	if currentConfig == nil {
		return &appconfig.Config{}
	}
	return currentConfig
}

// SetVersionInfo records the build version shown by --version.
func SetVersionInfo(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
}
