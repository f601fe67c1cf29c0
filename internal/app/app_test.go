package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/volpulse/config"
	"github.com/guttosm/volpulse/internal/birdeye"
	"github.com/guttosm/volpulse/internal/domain/models"
)

type stubClient struct{}

func (stubClient) HistoricalPrices(_ context.Context, _ string, _, _ time.Time) (models.PriceSeries, error) {
	day := time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)
	return models.PriceSeries{
		{Date: day, Price: 100},
		{Date: day.AddDate(0, 0, 1), Price: 102},
		{Date: day.AddDate(0, 0, 2), Price: 101},
	}, nil
}

func TestInitializeApp_HappyPath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{
		Server:  config.ServerConfig{Port: "8080"},
		Birdeye: config.BirdeyeConfig{BaseURL: "http://127.0.0.1:0", APIKey: "k"},
		Refresh: config.RefreshConfig{
			Interval:     time.Hour,
			WindowDays:   90,
			FetchTimeout: time.Second,
			MaxParallel:  2,
		},
	}

	oldCtor := clientCtor
	clientCtor = func(cfg config.Config) birdeye.Client { return stubClient{} }
	t.Cleanup(func() { clientCtor = oldCtor })

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	defer cleanup()

	// Health endpoints are registered
	for _, path := range []string{"/healthz", "/readyz", "/healthCheck"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: want 200 got %d", path, w.Code)
		}
	}

	// Full query path works against the stub client
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/historicalVolatility?token_address=SOL", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("query: want 200 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestInitializeApp_CleanupStopsScheduler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{
		Server:  config.ServerConfig{Port: "8080"},
		Birdeye: config.BirdeyeConfig{BaseURL: "http://127.0.0.1:0", APIKey: "k"},
		Refresh: config.RefreshConfig{Interval: time.Hour, WindowDays: 90, FetchTimeout: time.Second},
	}

	oldCtor := clientCtor
	clientCtor = func(cfg config.Config) birdeye.Client { return stubClient{} }
	t.Cleanup(func() { clientCtor = oldCtor })

	_, cleanup, err := InitializeApp()
	if err != nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		cleanup()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("cleanup did not finish")
	}
}
