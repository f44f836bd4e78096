// Package cli implements the librarybot command line.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	envConfigPath     = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

var (
	flagConfig  string
	flagNoColor bool
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "librarybot",
		Short: "Telegram bot for browsing and distributing a book catalog",
		Long: `librarybot serves a categorised book catalog over Telegram.

Users browse categories, search by title or author and download files.
Administrators add categories and books through a guided dialogue.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flagNoColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: $"+envConfigPath+" or "+defaultConfigPath+")")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newRunCmd(),
		newCatalogCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// configPath resolves the flag, then the environment, then the default.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return defaultConfigPath
}

// ok prints a green success line.
func ok(format string, a ...any) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...any) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a bold section title.
func header(format string, a ...any) {
	fmt.Println(color.New(color.Bold).Sprintf(format, a...))
}
