package dto

// Error categories used in API error bodies. The category names the class
// of failure; Message carries the human-readable detail.
const (
	CategoryBadRequest         = "Bad Request"
	CategoryBadGateway         = "Bad Gateway"
	CategoryServiceUnavailable = "Service Unavailable"
	CategoryInternalError      = "Internal Server Error"
)

// ErrorResponse is the structured error body returned by every failing
// endpoint:
//
//	{ "error": "<category>", "message": "<detail>" }
//
// Client-input problems map to 4xx categories, fetch/computation/internal
// problems to 5xx categories.
type ErrorResponse struct {
	Error   string `json:"error" example:"Bad Request"`
	Message string `json:"message" example:"token_address is required"`
}

// NewErrorResponse constructs an ErrorResponse from a category and a detail
// message.
func NewErrorResponse(category, message string) ErrorResponse {
	return ErrorResponse{Error: category, Message: message}
}
