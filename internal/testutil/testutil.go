package testutil

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/plantally/internal/api"
	"github.com/dom/plantally/internal/clock"
	"github.com/dom/plantally/internal/config"
	"github.com/dom/plantally/internal/repository"
	"github.com/dom/plantally/internal/repository/memory"
	"github.com/dom/plantally/internal/service"
	"github.com/dom/plantally/internal/websocket"
)

// TestEpoch is the instant every test server's clock starts at.
var TestEpoch = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		TrialDuration:      time.Minute,
		DemoPlantLimit:     2,
		ExpiryPollInterval: 10 * time.Millisecond,
		TimerTickInterval:  10 * time.Millisecond, // Fast feed for tests
		SessionIdleTTL:     time.Hour,
		TracingExporter:    "none",
		ServiceName:        "plantally-test",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Config   *config.Config
	Clock    *clock.MockClock
}

// NewTestServer creates a complete test server whose clock only moves when
// the test advances it.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := TestConfig()
	clk := clock.NewMockClock(TestEpoch)

	hub := websocket.NewHub()
	go hub.Run()

	repos := memory.NewRepositories(cfg.SessionIdleTTL)
	services := service.NewServices(repos, cfg, clk)
	router := api.NewRouter(services, hub, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Config:   cfg,
		Clock:    clk,
	}

	t.Cleanup(func() {
		hub.Stop()
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the WebSocket URL with token
func (ts *TestServer) WebSocketURL(token string) string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return fmt.Sprintf("%s/api/v1/ws?token=%s", wsURL, token)
}
