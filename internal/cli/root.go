// Package cli implements the frontier console commands.
package cli

import (
	"time"

	"github.com/aristath/frontier/internal/clients/yahoo"
	"github.com/aristath/frontier/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
	BaseURL  string
	Timeout  time.Duration
}

// NewRootCommand creates the root command for the frontier CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "frontier",
		Short: "Minimum-variance portfolio optimizer",
		Long: `Compute minimum-variance efficient frontiers from Yahoo Finance price history.

Each target return is solved independently and concurrently; a target that
cannot be solved is reported without affecting the others.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", yahoo.DefaultBaseURL, "price history download endpoint")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "HTTP timeout per download")

	cmd.AddCommand(NewOptimizeCommand(opts))
	cmd.AddCommand(NewDownloadCommand(opts))
	cmd.AddCommand(NewMatrixCommand())

	return cmd
}

// newLogger writes to the command's stderr so stdout only carries results.
func newLogger(opts *RootOptions, cmd *cobra.Command) zerolog.Logger {
	return logger.New(logger.Config{
		Level:  opts.LogLevel,
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	})
}
