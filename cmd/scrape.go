package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bookscrape/bookscrape/internal/app"
	"github.com/bookscrape/bookscrape/internal/config"
	"github.com/bookscrape/bookscrape/internal/preview"
)

// newScrapeCmd creates the 'scrape' subcommand, which runs the full fetch,
// parse, aggregate, write pipeline once.
func newScrapeCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	var noPreview bool

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetches the catalogue pages and writes the product CSV",
		Long: `Fetches the configured number of listing pages in order, extracts the
product records from each, writes them all to the CSV output file, and
prints a preview of the first few records.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !noPreview {
				preview.RenderTable(out, report.Records, cfg.Output.PreviewRows)
				preview.RenderStats(out, preview.Summarize(report.Records))
			}
			fmt.Fprintf(out, "Wrote %d records to %s\n", len(report.Records), a.CSVPath())
			return nil
		},
	}

	cmd.Flags().Int("pages", 2, "number of listing pages to fetch")
	cmd.Flags().String("out", "data/products.csv", "CSV output path")
	cmd.Flags().Int("delay", 1, "seconds to wait between page requests")
	cmd.Flags().String("archive-dir", "", "directory for raw page archives (disabled when empty)")
	cmd.Flags().String("db-dsn", "", "Postgres DSN to mirror results into (disabled when empty)")
	cmd.Flags().String("metrics-addr", "", "listen address for /metrics during the run (disabled when empty)")
	cmd.Flags().BoolVar(&noPreview, "no-preview", false, "suppress the console preview table")

	mustBind(v, "scrape.pages", cmd.Flags().Lookup("pages"))
	mustBind(v, "output.path", cmd.Flags().Lookup("out"))
	mustBind(v, "scrape.delay_seconds", cmd.Flags().Lookup("delay"))
	mustBind(v, "archive.dir", cmd.Flags().Lookup("archive-dir"))
	mustBind(v, "database.dsn", cmd.Flags().Lookup("db-dsn"))
	mustBind(v, "metrics.addr", cmd.Flags().Lookup("metrics-addr"))

	return cmd
}

// mustBind panics when a flag binding fails, which only happens on a
// programming error such as a typoed flag name.
func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}
