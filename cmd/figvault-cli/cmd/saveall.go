package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"figvault/internal/adapters/filesystem"
	"figvault/internal/application/commands"
	"figvault/internal/config"
	"figvault/internal/domain"
	"figvault/internal/ports"
)

var (
	saveAllOut     string
	saveAllPrefix  string
	saveAllText    string
	saveAllWidth   int
	saveAllCharmap string
	saveAllFilter  string
	saveAllToilet  bool
)

var saveAllCmd = &cobra.Command{
	Use:   "save-all",
	Short: "Render every font and save the outputs",
	Long: `Render every font under the font directory with the sample text and
write each framed output to an .asc file. Fonts whose render fails get
an output file carrying the error, so the run is fully accounted for.

Examples:
  figvault-cli save-all --out rendered
  figvault-cli save-all --out rendered --filter slant --text "figvault"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := GetSource().Scan(ports.ScanOptions{
			Root:       fontDir,
			Recursive:  true,
			Containers: true,
		})
		if err != nil {
			return err
		}
		if saveAllFilter != "" {
			filter := strings.ToLower(saveAllFilter)
			var kept []domain.FontEntry
			for _, e := range entries {
				if strings.Contains(strings.ToLower(e.DisplayPath()), filter) {
					kept = append(kept, e)
				}
			}
			entries = kept
		}
		if len(entries) == 0 {
			fmt.Println("No fonts found.")
			return nil
		}

		renderer, err := newRenderer(saveAllToilet)
		if err != nil {
			return err
		}

		preview := commands.NewPreviewCommand(renderer, GetSource(), saveAllText, saveAllWidth, saveAllCharmap, 10*time.Second)
		saver := commands.NewSaveAllCommand(preview, fontDir, filesystem.ExpandHome(saveAllOut), saveAllPrefix)

		result, err := saver.Execute(context.Background(), entries)
		if err != nil {
			return err
		}

		fmt.Printf("Saved %d outputs to %s\n", result.Saved, saver.OutDir)
		for _, f := range result.Failures {
			fmt.Printf("render failed: %s\n", f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveAllCmd)
	saveAllCmd.Flags().StringVarP(&saveAllOut, "out", "o", "rendered", "output directory")
	saveAllCmd.Flags().StringVar(&saveAllPrefix, "prefix", "", "filename prefix for saved outputs")
	saveAllCmd.Flags().StringVarP(&saveAllText, "text", "t", config.SampleText(), "text to render")
	saveAllCmd.Flags().IntVarP(&saveAllWidth, "width", "w", config.DefaultWidth, "render width in columns")
	saveAllCmd.Flags().StringVar(&saveAllCharmap, "charmap", "", "figlet control file (-C)")
	saveAllCmd.Flags().StringVar(&saveAllFilter, "filter", "", "substring filter on font paths")
	saveAllCmd.Flags().BoolVar(&saveAllToilet, "toilet", false, "render tlf fonts with toilet when available")
}
