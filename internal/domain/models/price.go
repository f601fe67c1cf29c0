package models

import "time"

// PricePoint is a single daily closing price for an asset.
//
// Fields:
//   - Date: the calendar day (UTC, midnight) the price belongs to.
//   - Price: the closing price for that day. Must be positive for
//     volatility computation.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// PriceSeries is an ordered sequence of daily price points,
// strictly increasing by date with no duplicate days.
//
// The price source client is responsible for returning the series
// already ordered; the volatility calculator assumes this ordering.
type PriceSeries []PricePoint
