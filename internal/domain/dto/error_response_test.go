package dto

import (
	"encoding/json"
	"testing"
)

func TestNewErrorResponse_JSONShape(t *testing.T) {
	cases := []struct {
		name     string
		category string
		message  string
		wantJSON string
	}{
		{
			name:     "bad request",
			category: CategoryBadRequest,
			message:  "token_address is required",
			wantJSON: `{"error":"Bad Request","message":"token_address is required"}`,
		},
		{
			name:     "bad gateway",
			category: CategoryBadGateway,
			message:  "price source unavailable",
			wantJSON: `{"error":"Bad Gateway","message":"price source unavailable"}`,
		},
		{
			name:     "internal",
			category: CategoryInternalError,
			message:  "Something bad happened.",
			wantJSON: `{"error":"Internal Server Error","message":"Something bad happened."}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := NewErrorResponse(tc.category, tc.message)
			b, err := json.Marshal(resp)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tc.wantJSON {
				t.Fatalf("want %s got %s", tc.wantJSON, string(b))
			}
		})
	}
}
