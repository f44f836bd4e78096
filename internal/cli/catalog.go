package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	coreconfig "github.com/m3rciful/librarybot/core/config"
	"github.com/m3rciful/librarybot/core/logger"
	"github.com/m3rciful/librarybot/internal/app"
	"github.com/m3rciful/librarybot/internal/catalog"
	"github.com/m3rciful/librarybot/internal/config"
)

var flagVerbose bool

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and maintain the catalog store",
		Long: `Offline tools for the catalog configured under the catalog: section.
They work with both the file and the postgres drivers.`,
	}
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable structured logging of store activity")

	cmd.AddCommand(
		newCatalogShowCmd(),
		newCatalogSearchCmd(),
		newCatalogValidateCmd(),
		newCatalogImportCmd(),
	)
	return cmd
}

// withLibrary opens the configured store for the duration of fn.
func withLibrary(ctx context.Context, fn func(*catalog.Library) error) error {
	cfg, err := config.LoadCatalog(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	opts := app.Options{LoggerInit: quietLogger}
	if flagVerbose {
		opts.LoggerInit = nil
	}
	lib, closer, err := app.OpenLibrary(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = closer()
		_ = logger.Shutdown()
	}()
	return fn(lib)
}

// quietLogger keeps slog's default handler and only lets warnings through.
func quietLogger(*coreconfig.Config) error {
	slog.SetLogLoggerLevel(slog.LevelWarn)
	return nil
}

func newCatalogShowCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List categories and books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd.Context(), func(lib *catalog.Library) error {
				c, err := lib.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					data, err := catalog.Encode(c)
					if err != nil {
						return err
					}
					_, err = os.Stdout.Write(append(data, '\n'))
					return err
				}
				printCatalog(c)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the raw catalog document")
	return cmd
}

func printCatalog(c *catalog.Catalog) {
	if len(c.Categories) == 0 {
		warn("Catalog is empty")
		return
	}
	for _, cat := range c.Categories {
		header("── %s  %s  (%d books)", cat.Title, color.CyanString("["+cat.ID+"]"), len(cat.Books))
		for _, b := range cat.Books {
			line := fmt.Sprintf("  %-24s %s", color.WhiteString(b.ID), b.Title)
			if b.Author != "" {
				line += color.HiBlackString(" — " + b.Author)
			}
			if b.Format != "" {
				line += " " + color.CyanString(b.Format)
			}
			if b.FileReference == "" {
				line += " " + color.RedString("(no file)")
			}
			fmt.Println(line)
		}
	}
	fmt.Printf("\n%d categories, %d books\n", len(c.Categories), c.BookCount())
}

func newCatalogSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search books by title or author",
		Long: `Runs the same case-insensitive substring search the bot uses.

Examples:
  librarybot catalog search tawhid
  librarybot catalog search "ибн касир"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withLibrary(cmd.Context(), func(lib *catalog.Library) error {
				c, err := lib.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				results := c.SearchBooks(query)
				if len(results) == 0 {
					warn("No books match %q", query)
					return nil
				}
				for _, r := range results {
					fmt.Printf("%-24s %s%s  %s\n",
						color.WhiteString(r.Book.ID),
						r.Book.Title,
						authorSuffix(r.Book.Author),
						color.CyanString("["+r.CategoryTitle+"]"),
					)
				}
				fmt.Printf("\n%d matches\n", len(results))
				return nil
			})
		},
	}
}

func authorSuffix(author string) string {
	if author == "" {
		return ""
	}
	return " — " + author
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog document against the schema",
		Long: `Without arguments the configured store is loaded and checked.
With a file argument that JSON file is checked instead and nothing is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				c, err := catalog.ReadFile(args[0])
				if err != nil {
					return err
				}
				ok("%s: %d categories, %d books", args[0], len(c.Categories), c.BookCount())
				return nil
			}
			return withLibrary(cmd.Context(), func(lib *catalog.Library) error {
				c, err := lib.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				ok("store: %d categories, %d books", len(c.Categories), c.BookCount())
				return nil
			})
		},
	}
}

func newCatalogImportCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored catalog with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return withLibrary(cmd.Context(), func(lib *catalog.Library) error {
				if !yes {
					current, err := lib.Snapshot(cmd.Context())
					if err != nil {
						return err
					}
					if len(current.Categories) > 0 {
						return fmt.Errorf("store already holds %d categories; pass --yes to overwrite", len(current.Categories))
					}
				}
				c, err := catalog.Import(cmd.Context(), lib, path)
				if err != nil {
					return err
				}
				ok("Imported %s: %d categories, %d books", path, len(c.Categories), c.BookCount())
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Overwrite a non-empty catalog")
	return cmd
}
