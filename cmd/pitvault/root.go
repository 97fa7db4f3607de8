// Root command for the pitvault CLI.
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minetrics/pitvault/internal/paths"
	"github.com/minetrics/pitvault/pkg/pitvault"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// Values loaded from config.yaml by PersistentPreRunE, visible to all
// subcommands.
var (
	configDataDir   string
	configQuota     int64
	configSoftLimit int64
)

var rootCmd = &cobra.Command{
	Use:     "pitvault",
	Short:   "Pitvault stores mining productivity data on the local machine",
	Version: pitvault.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		installLogger()

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configQuota = cfg.GetInt64(cfgKeyQuotaBytes)
		configSoftLimit = cfg.GetInt64(cfgKeySoftLimitBytes)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.pitvault-data)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(clearCmd)
}

// installLogger replaces the zap global logger used throughout the
// storage packages. Warnings and errors always print; --verbose turns
// on debug output.
func installLogger() {
	level := zap.WarnLevel
	if flagVerbose {
		level = zap.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return
	}
	zap.ReplaceGlobals(logger)
}

// resolveConfigDir returns the configuration directory following the
// precedence --config-dir flag > PITVAULT_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir returns the data directory following the precedence
// --data-dir flag > config.yaml data_dir > PITVAULT_DATA_DIR env >
// default $(CWD)/.pitvault-data.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}
