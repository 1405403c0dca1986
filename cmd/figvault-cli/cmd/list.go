package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"figvault/internal/ports"
)

var (
	listRecursive  bool
	listContainers bool
	listFilter     string
	listLong       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List fonts under the font directory",
	Long: `List figlet and toilet fonts under the font directory.

Examples:
  figvault-cli list
  figvault-cli list --recursive --filter slant
  figvault-cli list --containers=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := GetSource().Scan(ports.ScanOptions{
			Root:       fontDir,
			Recursive:  listRecursive,
			Containers: listContainers,
		})
		if err != nil {
			return err
		}

		filter := strings.ToLower(listFilter)
		matched := 0
		for _, e := range entries {
			if filter != "" && !strings.Contains(strings.ToLower(e.DisplayPath()), filter) {
				continue
			}
			matched++
			if listLong {
				fmt.Printf("%s  %s\n", strings.ToUpper(string(e.Kind)), e.DisplayPath())
			} else {
				fmt.Println(e.DisplayPath())
			}
		}
		if matched == 0 {
			fmt.Println("No fonts found.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "scan subdirectories")
	listCmd.Flags().BoolVar(&listContainers, "containers", true, "look inside zip archives")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "substring filter on font paths")
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "show font format next to each path")
}
