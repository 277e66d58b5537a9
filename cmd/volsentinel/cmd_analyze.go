package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"VolSentinel/internal/collector"
	"VolSentinel/internal/config"
	"VolSentinel/internal/model"
	"VolSentinel/internal/pipeline"
	"VolSentinel/internal/recorder"
	"VolSentinel/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one volatility analysis and print the report",
	Long: `Load daily prices, fit GARCH(1,1) on the most recent window of
log-returns and classify tomorrow's volatility forecast.

Examples:
  volsentinel analyze
  volsentinel analyze --file data/raw/MSFT.csv --window 250
  volsentinel analyze --source yahoo --symbol AAPL --json`,
	RunE: runAnalyze,
}

var (
	analyzeFile          string
	analyzeSymbol        string
	analyzeSource        string
	analyzeWindow        int
	analyzeHorizon       int
	analyzeRollingWindow int
	analyzePercentile    float64
	analyzeJSON          bool
	analyzePreview       bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	bindAnalyzeFlags(analyzeCmd.Flags())
}

func bindAnalyzeFlags(f *pflag.FlagSet) {
	f.StringVar(&analyzeFile, "file", "", "CSV file with a Date and Close column (implies --source csv)")
	f.StringVar(&analyzeSymbol, "symbol", "", "Ticker symbol")
	f.StringVar(&analyzeSource, "source", "", "Price source (csv|yahoo)")
	f.IntVar(&analyzeWindow, "window", config.DefaultWindowDays, "Number of most recent returns to analyse (0-2000)")
	f.IntVar(&analyzeHorizon, "horizon", config.DefaultHorizon, "Forecast horizon in days")
	f.IntVar(&analyzeRollingWindow, "rolling-window", config.DefaultRollingWindow, "Rolling window for historical volatility")
	f.Float64Var(&analyzePercentile, "percentile", config.DefaultPercentile, "Percentile of historical volatility used as threshold")
	f.BoolVar(&analyzeJSON, "json", false, "Write the result as JSON")
	f.BoolVar(&analyzePreview, "preview", true, "Include the last rows of raw data in the text report")
}

// applyAnalyzeFlags copies explicitly set flags over the loaded config and
// validates the result.
func applyAnalyzeFlags(flags *pflag.FlagSet, c *config.Config) error {
	if flags.Changed("file") {
		c.DataSource.Type = "csv"
		c.DataSource.Path = analyzeFile
	}
	if flags.Changed("source") {
		c.DataSource.Type = analyzeSource
	}
	if flags.Changed("symbol") {
		c.DataSource.Symbol = analyzeSymbol
	}
	if flags.Changed("window") {
		c.Analysis.WindowDays = analyzeWindow
	}
	if flags.Changed("horizon") {
		c.Analysis.Horizon = analyzeHorizon
	}
	if flags.Changed("rolling-window") {
		c.Analysis.RollingWindow = analyzeRollingWindow
	}
	if flags.Changed("percentile") {
		c.Analysis.Percentile = analyzePercentile
	}
	return c.Validate()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := applyAnalyzeFlags(cmd.Flags(), cfg); err != nil {
		fmt.Fprintln(os.Stderr, report.FormatFailure(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	rec := openRecorder(cfg)
	defer rec.Close()

	res, err := analyzeOnce(ctx, fetcher, cfg, rec)
	if err != nil {
		fmt.Fprintln(os.Stderr, report.FormatFailure(err))
		return err
	}

	if analyzeJSON {
		return report.WriteJSON(cmd.OutOrStdout(), res)
	}
	if !analyzePreview {
		res.Preview = nil
	}
	fmt.Fprint(cmd.OutOrStdout(), report.FormatAnalysis(res))
	return nil
}

// analyzeOnce loads the full history, runs the pipeline and records the outcome.
func analyzeOnce(ctx context.Context, f collector.Fetcher, c *config.Config, rec recorder.Recorder) (*model.AnalysisResult, error) {
	col := collector.NewCollector(f, c.DataSource.Symbol, 0)
	prices, err := col.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	res, err := pipeline.New(c.Analysis).Run(ctx, prices, c.Analysis.WindowDays)
	if err != nil {
		if rerr := rec.RecordRun(recorder.FromFailure(prices.Symbol, prices.Source, c.Analysis.WindowDays, err)); rerr != nil {
			log.Error().Err(rerr).Msg("record failed run")
		}
		return nil, err
	}
	if err := rec.RecordRun(recorder.FromResult(res)); err != nil {
		log.Error().Err(err).Str("run_id", res.RunID).Msg("record run")
	}
	return res, nil
}
