package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/volpulse/internal/birdeye"
	"github.com/guttosm/volpulse/internal/domain/dto"
	"github.com/guttosm/volpulse/internal/service"
	"github.com/guttosm/volpulse/internal/volatility"
)

const dateLayout = "2006-01-02"

// Handler provides HTTP handlers for the volatility endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Call the volatility facade
//   - Translate facade results and failures into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc service.VolatilityService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.VolatilityService) *Handler {
	return &Handler{svc: svc}
}

// GetHistoricalVolatility handles GET /historicalVolatility requests.
//
// Query Parameters:
//   - token_address (string, required): Token address to compute volatility for.
//   - from_date (string, optional): Window start in YYYY-MM-DD format.
//   - to_date (string, optional): Window end in YYYY-MM-DD format.
//
// The date parameters are validated (both-or-neither, well-formed, ordered)
// but the returned figure is always the rolling-window cached value; they
// are kept as a compatibility surface from the pre-cache API.
//
// Responses:
//   - 200 OK: {"historicalVolatility": <number>}.
//   - 400 Bad Request: Missing or invalid query parameters.
//   - 502 Bad Gateway: Price source failed or returned an unusable series.
//   - 503 Service Unavailable: Asset tracked but no value computed yet.
//   - 500 Internal Server Error: Anything else.
//
// GetHistoricalVolatility godoc
// @Summary      Get historical volatility for a token
// @Description  Returns the cached rolling-window daily volatility (percent) for the given token address
// @Tags         volatility
// @Accept       json
// @Produce      json
// @Param        token_address  query     string  true   "Token address" example(So11111111111111111111111111111111111111112)
// @Param        from_date      query     string  false  "Window start in YYYY-MM-DD" example(2025-06-01)
// @Param        to_date        query     string  false  "Window end in YYYY-MM-DD" example(2025-08-30)
// @Success      200            {object}  dto.VolatilityResponse  "Success"
// @Failure      400            {object}  dto.ErrorResponse       "Bad Request"
// @Failure      502            {object}  dto.ErrorResponse       "Bad Gateway"
// @Failure      503            {object}  dto.ErrorResponse       "Service Unavailable"
// @Failure      500            {object}  dto.ErrorResponse       "Internal Error"
// @Router       /historicalVolatility [get]
func (h *Handler) GetHistoricalVolatility(c *gin.Context) {
	// ─── Validate "token_address" param ───────────────────────
	address := strings.TrimSpace(c.Query("token_address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.CategoryBadRequest, "token_address is required"))
		return
	}

	// ─── Validate optional date range ─────────────────────────
	fromStr, toStr := c.Query("from_date"), c.Query("to_date")
	if (fromStr == "") != (toStr == "") {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.CategoryBadRequest, "from_date and to_date must be provided together"))
		return
	}
	if fromStr != "" {
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.CategoryBadRequest, "invalid from_date format, expected YYYY-MM-DD"))
			return
		}
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.CategoryBadRequest, "invalid to_date format, expected YYYY-MM-DD"))
			return
		}
		if to.Before(from) {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.CategoryBadRequest, "to_date must not be before from_date"))
			return
		}
	}

	// ─── Query facade (cached or first-touch) ─────────────────
	value, err := h.svc.GetVolatility(c.Request.Context(), address)
	if err != nil {
		status, body := mapError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, dto.VolatilityResponse{HistoricalVolatility: value})
}

// mapError translates facade failures into status codes and bodies:
// client-input problems are 4xx, fetch/computation/internal problems 5xx.
func mapError(err error) (int, dto.ErrorResponse) {
	var fetchErr *birdeye.FetchError

	switch {
	case errors.Is(err, service.ErrNoValueYet):
		return http.StatusServiceUnavailable,
			dto.NewErrorResponse(dto.CategoryServiceUnavailable, "volatility not computed yet, retry shortly")
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway,
			dto.NewErrorResponse(dto.CategoryBadGateway, "failed to fetch price history")
	case errors.Is(err, volatility.ErrInsufficientData):
		return http.StatusBadGateway,
			dto.NewErrorResponse(dto.CategoryBadGateway, "not enough price points to calculate volatility")
	case errors.Is(err, volatility.ErrInvalidPrice):
		return http.StatusBadGateway,
			dto.NewErrorResponse(dto.CategoryBadGateway, "price source returned an invalid series")
	default:
		return http.StatusInternalServerError,
			dto.NewErrorResponse(dto.CategoryInternalError, "Something bad happened.")
	}
}
