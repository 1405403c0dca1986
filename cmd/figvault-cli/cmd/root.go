package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"figvault/internal/adapters/figlet"
	"figvault/internal/adapters/filesystem"
	"figvault/internal/config"
	"figvault/internal/logging"
	"figvault/internal/ports"
)

var (
	fontDir  string
	logLevel string
	source   ports.Discovery
)

var rootCmd = &cobra.Command{
	Use:   "figvault-cli",
	Short: "CLI for curating figlet font collections",
	Long: `figvault-cli scans directories and zip archives for figlet (.flf) and
toilet (.tlf) fonts, previews them, and imports them into a vault with
duplicate detection and collision-safe renaming.

Duplicates are detected either by font file content or by the text the
font actually renders; skipped and renamed files are recorded in a
JSONL audit log inside the vault.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := logging.Init(logging.Config{Level: logLevel}); err != nil {
			return err
		}
		fontDir = filesystem.ExpandHome(fontDir)
		source = filesystem.NewDiscovery()
		return nil
	},
}

// Execute runs the root command
func Execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&fontDir, "fonts", "f", config.FontDir(), "font directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// GetSource returns the initialized discovery adapter
func GetSource() ports.Discovery {
	return source
}

// newRenderer builds the external renderer; commands that never render
// skip this so listing works without figlet installed.
func newRenderer(useToilet bool) (ports.Renderer, error) {
	return figlet.NewRenderer(useToilet)
}
