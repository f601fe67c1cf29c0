package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/guttosm/volpulse/internal/birdeye"
	"github.com/guttosm/volpulse/internal/logger"
	"github.com/guttosm/volpulse/internal/metrics"
	"github.com/guttosm/volpulse/internal/storage"
	"github.com/guttosm/volpulse/internal/volatility"
)

// ErrNoValueYet is returned for an asset that is tracked but has never had a
// successful computation. The scheduler keeps retrying it in the background;
// no I/O is performed on the query path for this case.
var ErrNoValueYet = errors.New("no volatility value computed yet for this asset")

// VolatilityService is the query facade over the registry: cached reads are
// lock-only, and the first request for an unknown asset triggers exactly one
// synchronous fetch+compute regardless of how many callers race on it.
type VolatilityService interface {
	GetVolatility(ctx context.Context, asset string) (float64, error)
}

type volatilityService struct {
	registry     storage.Registry
	client       birdeye.Client
	windowDays   int
	fetchTimeout time.Duration
	group        singleflight.Group
	now          func() time.Time
	log          zerolog.Logger
}

// NewVolatilityService constructs the facade.
//
// Parameters:
//   - registry: the shared rolling cache store.
//   - client: price-history source used only for first-touch population.
//   - windowDays: trailing window length in days (matches the scheduler's).
//   - fetchTimeout: bound on the synchronous first-touch fetch.
func NewVolatilityService(registry storage.Registry, client birdeye.Client, windowDays int, fetchTimeout time.Duration) VolatilityService {
	return &volatilityService{
		registry:     registry,
		client:       client,
		windowDays:   windowDays,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
		log:          logger.With("facade"),
	}
}

// GetVolatility returns the current cached volatility for the asset.
//
// Paths:
//   - Tracked with a value: returned immediately, no I/O.
//   - Untracked: first-touch. The asset is registered and populated
//     synchronously; concurrent callers for the same asset share one flight
//     and one result.
//   - Tracked without a value and no flight running: ErrNoValueYet.
func (s *volatilityService) GetVolatility(ctx context.Context, asset string) (float64, error) {
	if rec, ok := s.registry.Read(asset); ok && rec.HasValue {
		metrics.CacheReads.WithLabelValues(metrics.ReadHit).Inc()
		return rec.Value, nil
	}

	v, err, shared := s.group.Do(asset, func() (interface{}, error) {
		_, isNew := s.registry.GetOrRegister(asset)
		if !isNew {
			// Another flight may have populated the record between our read
			// and this call.
			if fresh, ok := s.registry.Read(asset); ok && fresh.HasValue {
				return fresh.Value, nil
			}
			metrics.CacheReads.WithLabelValues(metrics.ReadNoValue).Inc()
			return 0.0, ErrNoValueYet
		}
		metrics.CacheReads.WithLabelValues(metrics.ReadMiss).Inc()
		return s.firstTouch(asset)
	})
	if err != nil {
		return 0, err
	}
	if shared {
		s.log.Debug().Str("asset", asset).Msg("first-touch result shared with concurrent caller")
	}
	return v.(float64), nil
}

// firstTouch performs the one synchronous fetch+compute for a newly
// registered asset. It runs detached from any single caller's context:
// every waiter in the flight shares the outcome, so one caller hanging up
// must not cancel the computation for the others.
func (s *volatilityService) firstTouch(asset string) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()

	to := s.now().UTC()
	from := to.AddDate(0, 0, -s.windowDays)

	series, err := s.client.HistoricalPrices(ctx, asset, from, to)
	if err != nil {
		s.registry.WriteError(asset, err)
		metrics.FirstTouchTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.log.Warn().Str("asset", asset).Err(err).Msg("first-touch fetch failed")
		return 0, err
	}

	value, err := volatility.Compute(series)
	if err != nil {
		s.registry.WriteError(asset, err)
		metrics.FirstTouchTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.log.Warn().Str("asset", asset).Err(err).Msg("first-touch computation failed")
		return 0, err
	}

	s.registry.Write(asset, value, to)
	metrics.FirstTouchTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.log.Info().Str("asset", asset).Float64("volatility", value).Msg("asset registered and populated")
	return value, nil
}
