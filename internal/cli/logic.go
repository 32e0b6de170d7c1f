package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/idelchi/diranalyzer/internal/aggregate"
	"github.com/idelchi/diranalyzer/internal/config"
	"github.com/idelchi/diranalyzer/internal/dirstat"
	"github.com/idelchi/diranalyzer/internal/duplicates"
	"github.com/idelchi/diranalyzer/internal/export"
)

// options maps a validated config onto analysis options.
func options(cfg *config.Config, path string, log zerolog.Logger) dirstat.Options {
	return dirstat.Options{
		Path:        path,
		Depth:       cfg.Depth,
		FollowLinks: cfg.FollowLinks,
		ShowHidden:  cfg.All,
		Excludes:    cfg.Exclude,
		IgnoreFile:  cfg.IgnoreFile,
		TopN:        cfg.Top,
		Duplicates:  cfg.Duplicates,
		MinSize:     cfg.MinSizeBytes,
		Threads:     cfg.Threads,
		Hash:        duplicates.Algorithm(cfg.Hash),
		Aggregation: aggregate.Strategy(cfg.Aggregation),
		Logger:      log,
	}
}

// progressHooks prints in-place status lines to stderr.
func progressHooks(stderr io.Writer) dirstat.Hooks {
	return dirstat.Hooks{
		Phase: func(phase dirstat.Phase) {
			fmt.Fprintf(stderr, "\r\033[2K%s…\r", phase)
		},
		Scan: func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s", files, ibytes(bytes))
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		},
		Hash: func(done, total int64) {
			msg := fmt.Sprintf("Hashing… %d/%d files", done, total)
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		},
	}
}

func logic(ctx context.Context, cfg *config.Config, path string, log zerolog.Logger, stdout io.Writer) error {
	enableProgress := cfg.Format != "json" &&
		!cfg.Quiet &&
		!cfg.Verbose &&
		isatty.IsTerminal(os.Stderr.Fd())

	var hooks dirstat.Hooks

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")

		hooks = progressHooks(os.Stderr)
	}

	results, err := dirstat.Run(ctx, options(cfg, path, log), hooks)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	for _, scanErr := range results.Errors {
		log.Debug().Str("path", scanErr.Path).Str("kind", string(scanErr.Kind)).Msg(scanErr.Message)
	}

	if n := len(results.Errors); n > 0 {
		log.Warn().Int("entries", n).Msg("some entries could not be read")
	}

	if failed := results.Statistics.HashFailures; failed > 0 {
		log.Warn().Int64("files", failed).Msg("some files could not be hashed")
	}

	if cfg.Export != "" {
		written, err := export.Export(results, export.Format(cfg.Export), cfg.Output)
		if err != nil {
			return err
		}

		log.Info().Str("path", written).Msg("report exported")
	}

	switch cfg.Format {
	case "json":
		return PrintJSON(results, stdout)
	case "paths":
		return PrintPaths(results, stdout)
	case "table":
		if cfg.Quiet {
			return PrintSummary(results, stdout)
		}

		return PrintTable(results, stdout)
	default:
		return fmt.Errorf("unknown output format: %s", cfg.Format)
	}
}

// ibytes formats a non-negative byte count.
func ibytes(n int64) string {
	return humanize.IBytes(uint64(max(n, 0)))
}
