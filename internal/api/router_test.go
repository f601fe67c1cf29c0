package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewRouter_RoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockVolService{value: 1.0}))

	cases := []struct {
		path string
		want int
	}{
		{path: "/historicalVolatility?token_address=SOL", want: http.StatusOK},
		{path: "/metrics", want: http.StatusOK},
		{path: "/nope", want: http.StatusNotFound},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s: want %d got %d", tc.path, tc.want, w.Code)
		}
	}
}

func TestNewRouter_MiddlewareApplied(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockVolService{value: 1.0}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/historicalVolatility?token_address=SOL", nil)
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id middleware not applied")
	}
}

func TestNewRouter_MetricsExposition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockVolService{value: 1.0}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("expected prometheus exposition format")
	}
}
