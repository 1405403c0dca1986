package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"figvault/internal/adapters/figlet"
	"figvault/internal/adapters/filesystem"
	"figvault/internal/adapters/tui"
	"figvault/internal/adapters/tui/views"
	"figvault/internal/application/commands"
	"figvault/internal/config"
)

func main() {
	fontsFlag := flag.String("fonts", config.FontDir(), "font directory to browse")
	outFlag := flag.String("out", "rendered", "directory for saved renders")
	textFlag := flag.String("text", config.SampleText(), "sample text to render")
	widthFlag := flag.Int("width", config.DefaultWidth, "render width in columns")
	charmapFlag := flag.String("charmap", "", "figlet control file (-C)")
	recursiveFlag := flag.Bool("recursive", true, "scan subdirectories")
	containersFlag := flag.Bool("containers", true, "look inside zip archives")
	toiletFlag := flag.Bool("toilet", false, "render tlf fonts with toilet when available")
	flag.Parse()

	renderer, err := figlet.NewRenderer(*toiletFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	source := filesystem.NewDiscovery()
	preview := commands.NewPreviewCommand(renderer, source, *textFlag, *widthFlag, *charmapFlag, 10*time.Second)

	app := tui.NewApp(source, preview, views.BrowserOptions{
		FontRoot:   filesystem.ExpandHome(*fontsFlag),
		OutDir:     filesystem.ExpandHome(*outFlag),
		Recursive:  *recursiveFlag,
		Containers: *containersFlag,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
