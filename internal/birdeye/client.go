package birdeye

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/volpulse/internal/domain/models"
	"github.com/guttosm/volpulse/internal/logger"
)

// Client fetches an ordered daily price series for an asset over a date
// range. Implementations may fail with *FetchError; callers treat every
// fetch failure as non-fatal for the attempt that issued it.
type Client interface {
	HistoricalPrices(ctx context.Context, address string, from, to time.Time) (models.PriceSeries, error)
}

// FetchError subsumes every way a price fetch can fail: transport errors,
// non-2xx statuses, undecodable bodies, and empty result sets.
type FetchError struct {
	Stage string // request|status|decode|empty
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("birdeye fetch failed (%s): %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// historicalPriceResponse is the Birdeye API envelope.
type historicalPriceResponse struct {
	Data    historicalPriceData `json:"data"`
	Success bool                `json:"success"`
}

type historicalPriceData struct {
	Items []historicalPricePoint `json:"items"`
}

type historicalPricePoint struct {
	UnixTime int64   `json:"unixTime"`
	Value    float64 `json:"value"`
}

type client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	log     zerolog.Logger
}

// New creates a Birdeye-backed Client.
//
// Parameters:
//   - baseURL: full URL of the history_price endpoint.
//   - apiKey: Birdeye API key, sent as X-API-KEY.
//   - timeout: hard cap per request, on top of any context deadline.
func New(baseURL, apiKey string, timeout time.Duration) Client {
	return &client{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: timeout},
		log:     logger.With("birdeye"),
	}
}

// HistoricalPrices requests 1D candles for the given token address between
// from and to (both inclusive) and returns them as a date-ordered series.
func (c *client) HistoricalPrices(ctx context.Context, address string, from, to time.Time) (models.PriceSeries, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("address_type", "token")
	q.Set("type", "1D")
	q.Set("time_from", strconv.FormatInt(from.Unix(), 10))
	q.Set("time_to", strconv.FormatInt(to.Unix(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Stage: "request", Err: err}
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("x-chain", "solana")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &FetchError{Stage: "request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Stage: "status", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body historicalPriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &FetchError{Stage: "decode", Err: err}
	}
	if !body.Success {
		return nil, &FetchError{Stage: "status", Err: fmt.Errorf("api reported success=false")}
	}
	if len(body.Data.Items) == 0 {
		return nil, &FetchError{Stage: "empty", Err: fmt.Errorf("no price points for address %s", address)}
	}

	series := toSeries(body.Data.Items)
	c.log.Debug().Str("address", address).Int("points", len(series)).Msg("prices fetched")
	return series, nil
}

// toSeries converts API items to a PriceSeries, enforcing the series
// invariant: strictly increasing by date, no duplicate days.
func toSeries(items []historicalPricePoint) models.PriceSeries {
	sort.Slice(items, func(i, j int) bool { return items[i].UnixTime < items[j].UnixTime })

	series := make(models.PriceSeries, 0, len(items))
	for _, it := range items {
		ts := time.Unix(it.UnixTime, 0).UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		if n := len(series); n > 0 && !series[n-1].Date.Before(day) {
			// Duplicate candle for the same day: keep the first.
			continue
		}
		series = append(series, models.PricePoint{Date: day, Price: it.Value})
	}
	return series
}
