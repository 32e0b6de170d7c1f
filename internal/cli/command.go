package cli

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/diranalyzer/internal/aggregate"
	"github.com/idelchi/diranalyzer/internal/config"
	"github.com/idelchi/diranalyzer/internal/dirstat"
	"github.com/idelchi/diranalyzer/internal/duplicates"
	"github.com/idelchi/diranalyzer/internal/integration"
	"github.com/idelchi/diranalyzer/internal/logging"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Command builds the root command.
//
//nolint:funlen // Flag definitions.
func (c CLI) Command() *cobra.Command {
	var (
		configPath  string
		showVersion bool
		showInit    bool
	)

	cmd := &cobra.Command{
		Use:   "diranalyzer [flags] [path]",
		Short: "Analyze disk usage and find duplicate files",
		Long: heredoc.Doc(`
			diranalyzer walks a directory tree and reports where the space goes.

			It sums file sizes into every ancestor directory, lists the largest
			files and directories, breaks files down by type and size, and can
			find byte-identical duplicates.

			Settings are read from flags, then DIRANALYZER_* environment variables,
			then a diranalyzer.yaml config file, then the built-in defaults.

			The '-I' flag is available if using the integration script for shell usage.
			It will then run an interactive mode where duplicate removal candidates
			are piped to 'fzf'.
		`),
		Example: heredoc.Doc(`
			# Largest entries in the current directory
			diranalyzer

			# Two levels deep, as JSON
			diranalyzer -d 2 -f json ~/projects

			# Duplicates of at least 1MiB, exported to a spreadsheet
			diranalyzer --duplicates --min-size 1MiB -e xlsx ~/Downloads

			# Shell integration
			eval "$(diranalyzer --init)"
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			if showInit {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			cfg, err := config.Load(cmd.Flags(), configPath)
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			log := logging.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.Quiet)
			if cfg.File != "" {
				log.Debug().Str("file", cfg.File).Msg("using config file")
			}

			return logic(cmd.Context(), cfg, path, log, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.IntP("depth", "d", 0, "Maximum traversal depth (0=unlimited)")
	flags.Bool("duplicates", false, "Find files with identical content")
	flags.String("min-size", "1KiB", "Minimum file size for duplicate detection (e.g., 1KiB)")
	flags.BoolP("all", "a", false, "Include hidden files and directories")
	flags.StringP("export", "e", "", "Export report: json, csv or xlsx")
	flags.StringP("output", "o", "", "Export file path (default diranalyzer_report_<timestamp>.<ext>)")
	flags.StringP("format", "f", "table", "Output format: table, json or paths")
	flags.IntP("top", "n", dirstat.DefaultTopN, "Number of largest files and directories to display")
	flags.StringSlice("exclude", nil, "Regex patterns to exclude, matched against paths relative to the scanned directory (repeatable)")
	flags.String("ignore-file", "", "Gitignore-style file with paths to skip")
	flags.Bool("follow-links", false, "Follow symbolic links")
	flags.BoolP("verbose", "v", false, "Enable debug output")
	flags.BoolP("quiet", "q", false, "Only print the summary")
	flags.IntP("threads", "t", 0, "Hashing threads (0=number of CPUs)")
	flags.String("hash", string(duplicates.DefaultAlgorithm), fmt.Sprintf("Hash algorithm: %v", duplicates.Algorithms()))
	flags.String("aggregation", string(aggregate.Chain), fmt.Sprintf("Aggregation strategy: %v", aggregate.Strategies()))
	flags.StringVar(&configPath, "config", "", "Config file (default ./diranalyzer.yaml)")
	flags.BoolVar(&showVersion, "version", false, "Show version and exit")
	flags.BoolVarP(&showInit, "init", "i", false, "Output init script for shell usage")

	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute(ctx context.Context) error {
	return c.Command().ExecuteContext(ctx)
}
