// Package cmd defines the CLI commands for the bookscrape executable.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd creates the root command with its persistent flags and attaches
// the subcommands. Each invocation gets its own Viper instance so tests can
// run commands in isolation.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "bookscrape",
		Short: "Scrapes the books.toscrape.com practice catalogue.",
		Long: `bookscrape walks the paginated catalogue of the books.toscrape.com
practice site, extracts the listed products (title, price, availability,
star rating, detail page link), and writes the aggregated records to a
CSV file with a short console preview.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, optional)")
	cmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	mustBind(v, "logging.development", cmd.PersistentFlags().Lookup("verbose"))

	cmd.AddCommand(newScrapeCmd(v, &cfgFile))

	return cmd
}

// Execute runs the CLI, wiring OS signals into the command context. The
// process exits non-zero on any configuration, scrape, or write failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
