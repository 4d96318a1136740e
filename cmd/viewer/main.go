package main

import (
	"os"
	"path/filepath"
	"strings"

	"walk3d/internal/config"
	"walk3d/internal/world"

	"github.com/spf13/cobra"
)

var (
	configPath string
	scenePath  string
	noWatch    bool
)

var rootCmd = &cobra.Command{
	Use:   "viewer",
	Short: "Walk through a scene and see its collision boxes",
	Long: `Open a window on the scene and drive its character with WASD, Space and the
mouse. Collider boxes, lights and the character box are drawn as debug geometry.
The scene reloads when its file changes.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringVarP(&scenePath, "scene", "s", "", "scene file (overrides the config)")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the scene when it changes")
}

func run(cmd *cobra.Command, args []string) error {
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if configPath == "" && scenePath == "" {
		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			if !strings.Contains(execDir, "go-build") {
				os.Chdir(execDir)
			}
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if scenePath != "" {
		cfg.Scene = scenePath
	}
	if noWatch {
		cfg.Viewer.Watch = false
	}

	w, err := world.Load(cfg)
	if err != nil {
		return err
	}
	return New(cfg, w).Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
