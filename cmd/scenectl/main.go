package main

import (
	"fmt"
	"os"

	"walk3d/internal/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	scenePath  string
)

var rootCmd = &cobra.Command{
	Use:   "scenectl",
	Short: "Headless tools for walk3d scenes",
	Long: `scenectl loads a walk3d scene without a window. It can replay scripted
input against the character controller, print the transform hierarchy and
collider boxes, and serve live frame snapshots over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults when empty)")
	rootCmd.PersistentFlags().StringVarP(&scenePath, "scene", "s", "", "scene file, overrides the config")
}

// loadConfig reads the config and applies the flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if scenePath != "" {
		cfg.Scene = scenePath
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
