package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"VolSentinel/internal/collector"
	"VolSentinel/internal/model"
	"VolSentinel/internal/notifier"
	"VolSentinel/internal/pipeline"
	"VolSentinel/internal/recorder"
	"VolSentinel/internal/report"
)

const sendRetries = 3

// Scheduler re-runs the analysis on a cron schedule.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Pipeline   *pipeline.Pipeline
	Recorder   recorder.Recorder
	Notifier   notifier.Notifier // nil disables alerts
	WindowDays int
	Ctx        context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler. Overlapping runs are skipped.
func NewScheduler(ctx context.Context, col *collector.Collector, p *pipeline.Pipeline, rec recorder.Recorder, n notifier.Notifier, windowDays int) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Collector:  col,
		Pipeline:   p,
		Recorder:   rec,
		Notifier:   n,
		WindowDays: windowDays,
		Ctx:        ctx,
	}
}

// Register adds the analysis job under the given six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	log.Info().Str("cron", spec).Msg("analysis task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the analysis job immediately and returns its result.
func (s *Scheduler) RunNow(ctx context.Context) (*model.AnalysisResult, error) {
	return s.runOnce(ctx)
}

func (s *Scheduler) analysisTask() {
	_, _ = s.runOnce(s.Ctx)
}

func (s *Scheduler) runOnce(ctx context.Context) (*model.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Info().Str("symbol", s.Collector.Symbol).Int("window_days", s.WindowDays).Msg("running scheduled analysis")

	prices, err := s.Collector.Load(ctx)
	if err != nil {
		err = fmt.Errorf("load prices: %w", err)
		s.fail(ctx, s.Collector.Fetcher.Name(), err)
		return nil, err
	}

	res, err := s.Pipeline.Run(ctx, prices, s.WindowDays)
	if err != nil {
		s.fail(ctx, prices.Source, err)
		return nil, err
	}

	log.Info().
		Str("run_id", res.RunID).
		Float64("forecast_vol", res.Verdict.ForecastedVolatility).
		Float64("threshold", res.Verdict.HistoricalThreshold).
		Str("label", string(res.Verdict.Label)).
		Msg("scheduled analysis done")
	log.Debug().Msg(report.FormatAnalysis(res))

	if err := s.Recorder.RecordRun(recorder.FromResult(res)); err != nil {
		log.Error().Err(err).Str("run_id", res.RunID).Msg("record run")
	}
	if res.Verdict.Label == model.HighRisk {
		s.trySend(ctx, report.FormatAlert(res))
	}
	return res, nil
}

func (s *Scheduler) fail(ctx context.Context, source string, err error) {
	log.Error().Err(err).Str("symbol", s.Collector.Symbol).Msg("scheduled analysis failed")
	if rerr := s.Recorder.RecordRun(recorder.FromFailure(s.Collector.Symbol, source, s.WindowDays, err)); rerr != nil {
		log.Error().Err(rerr).Msg("record failed run")
	}
	s.trySend(ctx, report.FormatFailure(err))
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, sendRetries); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

// cronLogger routes cron's internal logging through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
