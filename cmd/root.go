package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/hayer/internal/config"
	"github.com/abhisek/hayer/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "hayer",
	Short: "Armenian lessons in the terminal",
	Long: "Hayer plays Armenian alphabet and vocabulary lessons in the terminal " +
		"and grades exercises for the lesson editor.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HAYER_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/hayer/config.yaml)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the config file named by --config, or the default one.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db.path from config or HAYER_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}
