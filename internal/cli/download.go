package cli

import (
	"fmt"
	"strings"

	"github.com/aristath/frontier/internal/clients/yahoo"
	"github.com/aristath/frontier/internal/dateutil"
	"github.com/spf13/cobra"
)

// NewDownloadCommand creates the download command.
func NewDownloadCommand(rootOpts *RootOptions) *cobra.Command {
	var years int

	cmd := &cobra.Command{
		Use:   "download <symbol>",
		Short: "Download and print daily price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if years < 1 {
				return fmt.Errorf("--years must be at least 1, got %d", years)
			}
			log := newLogger(rootOpts, cmd)
			client := yahoo.NewClient(rootOpts.BaseURL, rootOpts.Timeout, log)

			end := dateutil.Now()
			data, err := client.GetHistory(cmd.Context(), strings.ToUpper(args[0]), dateutil.YearsBack(end, years), end)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), data.String())
			return nil
		},
	}

	cmd.Flags().IntVar(&years, "years", 1, "years of history to download")
	return cmd
}
