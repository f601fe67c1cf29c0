package volatility

import (
	"errors"
	"math"

	"github.com/guttosm/volpulse/internal/domain/models"
)

// Calculation failures. Both mean the supplied series cannot produce a
// volatility figure; callers decide whether to retry with fresh data.
var (
	ErrInsufficientData = errors.New("not enough price points to calculate volatility")
	ErrInvalidPrice     = errors.New("price series contains a non-positive price")
)

// Compute reduces an ordered daily price series to a single volatility
// figure: the sample standard deviation of day-over-day simple returns,
// expressed as a percentage.
//
// Requirements:
//   - len(series) >= 2, otherwise ErrInsufficientData.
//   - every price > 0, otherwise ErrInvalidPrice.
//
// No annualization is applied; the figure is the average daily volatility
// over exactly the supplied window, both endpoints inclusive. A series with
// a single return (two points) has no measurable dispersion and yields 0.
//
// Compute is pure: no I/O, no state, bit-identical results for identical
// inputs.
func Compute(series models.PriceSeries) (float64, error) {
	if len(series) < 2 {
		return 0, ErrInsufficientData
	}
	for _, p := range series {
		if p.Price <= 0 {
			return 0, ErrInvalidPrice
		}
	}

	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		returns = append(returns, (series[i].Price-series[i-1].Price)/series[i-1].Price)
	}
	if len(returns) < 2 {
		return 0, nil
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	variance := sq / float64(len(returns)-1)

	return math.Sqrt(variance) * 100, nil
}
