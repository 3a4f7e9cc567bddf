package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/plantally/internal/domain"
	"github.com/google/uuid"
)

// AuthResponse matches the API auth response
type AuthResponse struct {
	Token   string         `json:"token"`
	Session domain.Session `json:"session"`
}

// Login signs a fresh session in to email and returns its token.
func Login(t *testing.T, ts *TestServer, email string) string {
	t.Helper()
	return authenticate(t, ts, "/auth/login", map[string]string{"email": email}).Token
}

// LoginAsRandomUser signs in with a generated email.
func LoginAsRandomUser(t *testing.T, ts *TestServer) string {
	t.Helper()
	return Login(t, ts, fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]))
}

// StartDemo opens a demo session and returns its token.
func StartDemo(t *testing.T, ts *TestServer) string {
	t.Helper()
	return authenticate(t, ts, "/auth/demo", nil).Token
}

func authenticate(t *testing.T, ts *TestServer, path string, body interface{}) AuthResponse {
	t.Helper()

	req := CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL(path), body, "")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to call %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code from %s: %d", path, resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return authResp
}

// PlantBuilder creates test plants through the API with a builder pattern
type PlantBuilder struct {
	name       string
	location   string
	lightLevel string
	frequency  int
	humidity   *int
}

// NewPlantBuilder creates a new PlantBuilder with default values
func NewPlantBuilder() *PlantBuilder {
	return &PlantBuilder{
		name:      fmt.Sprintf("plant_%s", uuid.New().String()[:8]),
		frequency: 7,
	}
}

// WithName sets the plant name
func (b *PlantBuilder) WithName(name string) *PlantBuilder {
	b.name = name
	return b
}

// WithLocation sets where the plant lives
func (b *PlantBuilder) WithLocation(location string) *PlantBuilder {
	b.location = location
	return b
}

// WithLightLevel sets the light level
func (b *PlantBuilder) WithLightLevel(level string) *PlantBuilder {
	b.lightLevel = level
	return b
}

// Every sets the watering frequency in days
func (b *PlantBuilder) Every(days int) *PlantBuilder {
	b.frequency = days
	return b
}

// WithHumidity sets the humidity
func (b *PlantBuilder) WithHumidity(humidity int) *PlantBuilder {
	b.humidity = &humidity
	return b
}

// Request returns the JSON body for POST /plants.
func (b *PlantBuilder) Request() map[string]interface{} {
	body := map[string]interface{}{
		"name":               b.name,
		"waterFrequencyDays": b.frequency,
	}
	if b.location != "" {
		body["location"] = b.location
	}
	if b.lightLevel != "" {
		body["lightLevel"] = b.lightLevel
	}
	if b.humidity != nil {
		body["humidity"] = *b.humidity
	}
	return body
}

// Create adds the plant to the token's session and returns it
func (b *PlantBuilder) Create(t *testing.T, ts *TestServer, token string) *domain.PlantView {
	t.Helper()

	req := CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/plants"), b.Request(), token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to create plant: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var view domain.PlantView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return &view
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// Do sends an authenticated request and returns the response. The body is
// closed when the test ends.
func Do(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(CreateAuthenticatedRequest(t, method, url, body, token))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
