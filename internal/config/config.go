package config

import "os"

const (
	DefaultFontDir    = "~/figlet-fonts"
	DefaultVaultPath  = "~/figvault"
	DefaultSampleText = "Hello World"
	DefaultWidth      = 80
)

// FontDir returns the font scan root from FIGVAULT_FONTS, falling back
// to DefaultFontDir.
func FontDir() string {
	if env := os.Getenv("FIGVAULT_FONTS"); env != "" {
		return env
	}
	return DefaultFontDir
}

// VaultPath returns the destination root from FIGVAULT_VAULT, falling
// back to DefaultVaultPath.
func VaultPath() string {
	if env := os.Getenv("FIGVAULT_VAULT"); env != "" {
		return env
	}
	return DefaultVaultPath
}

// SampleText returns the render sample from FIGVAULT_TEXT, falling back
// to DefaultSampleText.
func SampleText() string {
	if env := os.Getenv("FIGVAULT_TEXT"); env != "" {
		return env
	}
	return DefaultSampleText
}
