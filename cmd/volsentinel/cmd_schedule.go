package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"VolSentinel/internal/collector"
	"VolSentinel/internal/notifier"
	"VolSentinel/internal/pipeline"
	"VolSentinel/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Re-run the analysis on the configured cron schedule",
	Long: `Start a long-running process that reloads the configured dataset on
schedule.cron (six fields, seconds first), records every run and sends a
Telegram alert when tomorrow's forecast is High Risk.`,
	RunE: runSchedule,
}

var scheduleRunNow bool

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", os.Getenv("RUN_ON_START") == "true", "Run once immediately after start")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	rec := openRecorder(cfg)
	defer rec.Close()

	var n notifier.Notifier
	if cfg.TelegramEnabled() {
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	} else {
		log.Info().Msg("telegram not configured, alerts disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, 0)
	sched := scheduler.NewScheduler(ctx, col, pipeline.New(cfg.Analysis), rec, n, cfg.Analysis.WindowDays)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if scheduleRunNow {
		go func() {
			_, _ = sched.RunNow(ctx)
		}()
	}

	log.Info().Str("symbol", cfg.DataSource.Symbol).Str("source", fetcher.Name()).Msg("VolSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	return nil
}
