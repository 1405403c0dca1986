package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"figvault/internal/adapters/audit"
	"figvault/internal/adapters/filesystem"
	"figvault/internal/adapters/sqlite"
	"figvault/internal/application"
	"figvault/internal/application/commands"
	"figvault/internal/config"
	"figvault/internal/logging"
	"figvault/internal/ports"
)

var (
	importDest       string
	importStrategy   string
	importText       string
	importWidth      int
	importCharmap    string
	importTimeout    time.Duration
	importRecursive  bool
	importContainers bool
	importPreserve   bool
	importSubfolder  string
	importToilet     bool
	importNoCache    bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import fonts into the vault",
	Long: `Import fonts from the font directory into the vault.

Duplicates are skipped and name collisions are renamed with _vNN
suffixes. With --strategy output, two fonts count as duplicates when
they render the sample text identically, which catches re-encoded
copies of the same font. Every decision is appended to a JSONL audit
log inside the vault.

Examples:
  figvault-cli import --dest ~/figvault
  figvault-cli import -r --strategy output --text "Hello World"
  figvault-cli import --subfolder incoming --preserve-structure`,
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := application.ParseStrategy(importStrategy)
		if err != nil {
			return err
		}

		dest := filesystem.ExpandHome(importDest)
		vault := filesystem.NewVault(dest)
		if err := vault.EnsureRoot(); err != nil {
			return err
		}

		sink, err := audit.NewJSONLSink(dest)
		if err != nil {
			return err
		}
		defer sink.Close()
		logging.S().Infof("audit log: %s", sink.Path())

		var digests ports.DigestCache
		if !importNoCache {
			cache := sqlite.NewCache()
			if err := cache.Open(dest); err != nil {
				logging.S().Warnf("digest cache unavailable: %v", err)
			} else {
				digests = cache
				defer cache.Close()
			}
		}

		renderer, err := newRenderer(importToilet)
		if err != nil {
			return err
		}

		engine := &application.FingerprintEngine{
			Renderer:   renderer,
			Source:     GetSource(),
			SampleText: importText,
			Width:      importWidth,
			Charmap:    importCharmap,
			Timeout:    importTimeout,
		}

		run := commands.NewImportCommand(GetSource(), vault, engine, sink, digests, logging.S(), commands.ImportOptions{
			SourceRoot:        fontDir,
			Strategy:          strategy,
			SampleText:        importText,
			Width:             importWidth,
			Charmap:           importCharmap,
			Timeout:           importTimeout,
			Recursive:         importRecursive,
			Containers:        importContainers,
			PreserveStructure: importPreserve,
			Subfolder:         importSubfolder,
		})
		if err := run.Validate(); err != nil {
			return err
		}

		result, err := run.Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("\n%d imported (%d renamed), %d duplicates skipped, %d errors out of %d candidates\n",
			result.Copied+result.Renamed, result.Renamed, result.Skipped, result.Errors, result.Candidates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importDest, "dest", "d", config.VaultPath(), "vault directory")
	importCmd.Flags().StringVarP(&importStrategy, "strategy", "s", "content", "duplicate detection strategy (content, output)")
	importCmd.Flags().StringVarP(&importText, "text", "t", config.SampleText(), "sample text for the output strategy")
	importCmd.Flags().IntVarP(&importWidth, "width", "w", config.DefaultWidth, "render width for the output strategy")
	importCmd.Flags().StringVar(&importCharmap, "charmap", "", "figlet control file (-C) for the output strategy")
	importCmd.Flags().DurationVar(&importTimeout, "timeout", 10*time.Second, "per-font render timeout")
	importCmd.Flags().BoolVarP(&importRecursive, "recursive", "r", false, "scan source subdirectories")
	importCmd.Flags().BoolVar(&importContainers, "containers", true, "look inside zip archives")
	importCmd.Flags().BoolVar(&importPreserve, "preserve-structure", false, "keep source subdirectories under the vault")
	importCmd.Flags().StringVar(&importSubfolder, "subfolder", "", "route imported fonts into this vault subdirectory")
	importCmd.Flags().BoolVar(&importToilet, "toilet", false, "render tlf fonts with toilet when available")
	importCmd.Flags().BoolVar(&importNoCache, "no-cache", false, "skip the sqlite digest cache")
}
