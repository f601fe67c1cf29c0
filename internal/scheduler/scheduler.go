package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/volpulse/internal/birdeye"
	"github.com/guttosm/volpulse/internal/logger"
	"github.com/guttosm/volpulse/internal/metrics"
	"github.com/guttosm/volpulse/internal/storage"
	"github.com/guttosm/volpulse/internal/volatility"
)

// Options configures the refresh scheduler.
type Options struct {
	Interval     time.Duration // tick period (default 60s)
	WindowDays   int           // trailing window length (default 90)
	FetchTimeout time.Duration // per-asset fetch+compute bound (default 10s)
	MaxParallel  int           // concurrent asset refreshes per tick (default 8)
}

func (o *Options) defaults() {
	if o.Interval <= 0 {
		o.Interval = 60 * time.Second
	}
	if o.WindowDays <= 0 {
		o.WindowDays = 90
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 10 * time.Second
	}
	if o.MaxParallel <= 0 {
		o.MaxParallel = 8
	}
}

// Scheduler is the single background loop that keeps every tracked asset's
// volatility fresh. One instance runs per process.
//
// Behavior per tick:
//   - Snapshot the tracked set.
//   - Refresh each asset over the trailing window, concurrently, with
//     per-asset failure isolation: a failed fetch or computation records
//     the error and leaves the previous value intact.
//   - A tick whose predecessor is still running is skipped, never queued.
//
// The scheduler only ever writes records; it never adds or removes assets.
type Scheduler struct {
	registry storage.Registry
	client   birdeye.Client
	opts     Options

	cron     *cron.Cron
	inFlight atomic.Bool
	now      func() time.Time
	log      zerolog.Logger
}

// New constructs a Scheduler. Call Start to begin ticking.
func New(registry storage.Registry, client birdeye.Client, opts Options) *Scheduler {
	opts.defaults()
	return &Scheduler{
		registry: registry,
		client:   client,
		opts:     opts,
		now:      time.Now,
		log:      logger.With("scheduler"),
	}
}

// Start launches the background loop on the configured interval.
func (s *Scheduler) Start() error {
	cl := cronLogger{l: s.log}
	s.cron = cron.New(cron.WithChain(
		cron.Recover(cl),
		cron.SkipIfStillRunning(cl),
	))
	if _, err := s.cron.AddFunc("@every "+s.opts.Interval.String(), func() {
		s.RunTick(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Dur("interval", s.opts.Interval).Int("window_days", s.opts.WindowDays).Msg("scheduler started")
	return nil
}

// Stop halts the loop. The stop signal is observed between ticks; the
// returned context is done once any in-flight tick has finished.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	s.log.Info().Msg("scheduler stopping")
	return s.cron.Stop()
}

// RunTick executes one refresh pass, unless a previous pass is still in
// flight, in which case the tick is skipped. Reports whether the pass ran.
func (s *Scheduler) RunTick(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.TickTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		s.log.Warn().Msg("previous refresh pass still running, skipping tick")
		return false
	}
	defer s.inFlight.Store(false)

	start := s.now()
	s.refreshAll(ctx)
	metrics.TickTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	return true
}

// refreshAll fans out over the tracked set. Assets are refreshed
// concurrently up to MaxParallel; failures never abort the pass for the
// remaining assets.
func (s *Scheduler) refreshAll(ctx context.Context) {
	assets := s.registry.ListTrackedAssets()
	if len(assets) == 0 {
		return
	}
	s.log.Debug().Int("assets", len(assets)).Msg("refresh pass start")

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.opts.MaxParallel)

	for _, asset := range assets {
		a := asset
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			s.refreshAsset(gctx, a)
			// Failures are isolated per asset: never propagate, so siblings
			// are never canceled.
			return nil
		})
	}

	_ = g.Wait()
}

// refreshAsset recomputes one asset's volatility over the trailing window
// and writes the outcome. Bounded by the per-asset fetch timeout.
func (s *Scheduler) refreshAsset(ctx context.Context, asset string) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	to := s.now().UTC()
	from := to.AddDate(0, 0, -s.opts.WindowDays)

	series, err := s.client.HistoricalPrices(ctx, asset, from, to)
	if err != nil {
		s.registry.WriteError(asset, err)
		metrics.RefreshTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.log.Warn().Str("asset", asset).Err(err).Msg("refresh fetch failed")
		return
	}

	value, err := volatility.Compute(series)
	if err != nil {
		s.registry.WriteError(asset, err)
		metrics.RefreshTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.log.Warn().Str("asset", asset).Err(err).Msg("refresh computation failed")
		return
	}

	s.registry.Write(asset, value, to)
	metrics.RefreshTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.log.Debug().Str("asset", asset).Float64("volatility", value).Msg("asset refreshed")
}

// cronLogger adapts zerolog to cron's logging interface so skip and recover
// events land in the structured log.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
