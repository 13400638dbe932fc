package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aristath/frontier/internal/clients/yahoo"
	"github.com/aristath/frontier/internal/modules/optimization"
	"github.com/spf13/cobra"
)

// OptimizeOptions holds the optimize command flags.
type OptimizeOptions struct {
	Tickers         []string
	Min             float64
	Max             float64
	Steps           int
	RiskFreeRate    float64
	IncludeRiskFree bool
	Years           int
	Workers         int
	PeriodsPerYear  int
	JSON            bool
}

// NewOptimizeCommand creates the optimize command.
func NewOptimizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OptimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Compute a minimum-variance frontier for a set of tickers",
		Long: `Download adjusted-close history for every ticker, annualize mean returns
and covariance, and solve the minimum-variance portfolio for each target
return on an evenly spaced grid from --min to --max.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Tickers, "tickers", "t", nil, "comma-separated ticker symbols")
	cmd.Flags().Float64Var(&opts.Min, "min", 0.05, "lowest target return")
	cmd.Flags().Float64Var(&opts.Max, "max", 0.25, "highest target return")
	cmd.Flags().IntVar(&opts.Steps, "steps", 10, "number of target returns")
	cmd.Flags().Float64Var(&opts.RiskFreeRate, "rf", 0, "risk-free rate")
	cmd.Flags().BoolVar(&opts.IncludeRiskFree, "include-rf", false, "add a synthetic risk-free asset")
	cmd.Flags().IntVar(&opts.Years, "years", 5, "years of history")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "max concurrent solves (0 = one per target)")
	cmd.Flags().IntVar(&opts.PeriodsPerYear, "periods-per-year", 252, "return periods per year")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the frontier as JSON")
	_ = cmd.MarkFlagRequired("tickers")

	return cmd
}

func runOptimize(rootOpts *RootOptions, opts *OptimizeOptions, cmd *cobra.Command) error {
	targets, err := optimization.TargetGrid(opts.Min, opts.Max, opts.Steps)
	if err != nil {
		return err
	}
	tickers := make([]string, 0, len(opts.Tickers))
	for _, t := range opts.Tickers {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			tickers = append(tickers, t)
		}
	}

	log := newLogger(rootOpts, cmd)
	client := yahoo.NewClient(rootOpts.BaseURL, rootOpts.Timeout, log)
	service := optimization.NewService(client, opts.PeriodsPerYear, opts.Workers, log)

	f, err := service.Run(cmd.Context(), optimization.RunRequest{
		Tickers:         tickers,
		LookbackYears:   opts.Years,
		Targets:         targets,
		RiskFreeRate:    opts.RiskFreeRate,
		IncludeRiskFree: opts.IncludeRiskFree,
	})
	var fe *optimization.FrontierError
	if err != nil && !errors.As(err, &fe) {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return err
		}
	} else if err := printFrontier(out, f); err != nil {
		return err
	}

	if fe != nil && fe.AllFailed() {
		return fe
	}
	return nil
}

func printFrontier(w io.Writer, f *optimization.Frontier) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"target", "volatility", "sharpe", "leverage"}
	header = append(header, f.Tickers...)
	if f.IncludeRiskFree {
		header = append(header, optimization.RiskFreeTicker)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, p := range f.Points {
		if p.Result == nil {
			fmt.Fprintf(tw, "%.4f\tfailed: %s\t\n", p.TargetReturn, p.Error)
			continue
		}
		r := p.Result
		row := []string{
			fmt.Sprintf("%.4f", r.ExpectedReturn),
			fmt.Sprintf("%.4f", r.Volatility),
			fmt.Sprintf("%.4f", r.SharpeRatio),
			fmt.Sprintf("%.4f", r.Leverage),
		}
		for _, t := range f.Tickers {
			row = append(row, fmt.Sprintf("%.4f", r.Weights[t]))
		}
		if f.IncludeRiskFree {
			row = append(row, fmt.Sprintf("%.4f", r.RiskFreeWeight))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}

	if f.Failed > 0 {
		fmt.Fprintf(tw, "\n%d of %d target returns failed\n", f.Failed, len(f.Points))
	}
	return tw.Flush()
}
