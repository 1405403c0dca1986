package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"figvault/internal/application/commands"
	"figvault/internal/config"
	"figvault/internal/domain"
	"figvault/internal/ports"
)

var (
	previewText    string
	previewWidth   int
	previewCharmap string
	previewToilet  bool
	previewFramed  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <font>",
	Short: "Render sample text with one font",
	Long: `Render sample text with a font and print the cleaned-up output.

The font may be a path, a zip entry (archive.zip::font.flf), or a base
name resolved against the font directory.

Examples:
  figvault-cli preview slant
  figvault-cli preview fonts.zip::big.flf --text "figvault"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := resolveFont(args[0])
		if err != nil {
			return err
		}

		renderer, err := newRenderer(previewToilet)
		if err != nil {
			return err
		}

		preview := commands.NewPreviewCommand(renderer, GetSource(), previewText, previewWidth, previewCharmap, 10*time.Second)
		body, err := preview.Execute(context.Background(), entry)
		if err != nil {
			return err
		}

		if previewFramed {
			fmt.Println(commands.Frame(entry, body))
		} else {
			fmt.Println(body)
		}
		return nil
	},
}

// resolveFont maps a path or base name to a discovered entry. Paths
// that exist on disk short-circuit the scan.
func resolveFont(arg string) (domain.FontEntry, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		if kind, ok := domain.KindForExtension(filepath.Ext(arg)); ok {
			return domain.FontEntry{Path: arg, Kind: kind}, nil
		}
	}

	entries, err := GetSource().Scan(ports.ScanOptions{
		Root:       fontDir,
		Recursive:  true,
		Containers: true,
	})
	if err != nil {
		return domain.FontEntry{}, err
	}

	want := strings.ToLower(arg)
	for _, e := range entries {
		if strings.ToLower(e.DisplayPath()) == want || strings.ToLower(e.BaseName()) == want {
			return e, nil
		}
	}
	return domain.FontEntry{}, fmt.Errorf("font not found under %s: %s", fontDir, arg)
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewText, "text", "t", config.SampleText(), "text to render")
	previewCmd.Flags().IntVarP(&previewWidth, "width", "w", config.DefaultWidth, "render width in columns")
	previewCmd.Flags().StringVar(&previewCharmap, "charmap", "", "figlet control file (-C)")
	previewCmd.Flags().BoolVar(&previewToilet, "toilet", false, "render tlf fonts with toilet when available")
	previewCmd.Flags().BoolVar(&previewFramed, "framed", false, "wrap the output in the save-file framing")
}
