package dto

// VolatilityResponse represents the JSON structure returned by the
// GET /historicalVolatility endpoint.
//
// The figure is the average daily volatility (sample standard deviation of
// daily returns, in percent) over the service's rolling window.
type VolatilityResponse struct {
	HistoricalVolatility float64 `json:"historicalVolatility" example:"2.35"`
}

// HealthCheckResponse is the body of GET /healthCheck.
type HealthCheckResponse struct {
	Message string `json:"message" example:"Server is running."`
}
