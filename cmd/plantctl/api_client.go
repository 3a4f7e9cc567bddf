package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dom/plantally/internal/domain"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type AuthResponse struct {
	Token   string         `json:"token"`
	Session domain.Session `json:"session"`
}

type TimerResponse struct {
	Active           bool `json:"active"`
	RemainingSeconds int  `json:"remainingSeconds"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
}

func (c *APIClient) Login(email string) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.do(http.MethodPost, "/auth/login", map[string]string{"email": email}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *APIClient) StartDemo() (*AuthResponse, error) {
	var result AuthResponse
	if err := c.do(http.MethodPost, "/auth/demo", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *APIClient) Logout() error {
	return c.do(http.MethodPost, "/auth/logout", nil, nil)
}

func (c *APIClient) Subscribe() (*domain.Session, error) {
	var sess domain.Session
	if err := c.do(http.MethodPost, "/session/subscribe", nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *APIClient) Timer() (*TimerResponse, error) {
	var timer TimerResponse
	if err := c.do(http.MethodGet, "/session/timer", nil, &timer); err != nil {
		return nil, err
	}
	return &timer, nil
}

func (c *APIClient) ListPlants() ([]domain.PlantView, error) {
	var views []domain.PlantView
	if err := c.do(http.MethodGet, "/plants", nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *APIClient) AddPlant(body map[string]interface{}) (*domain.PlantView, error) {
	var view domain.PlantView
	if err := c.do(http.MethodPost, "/plants", body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *APIClient) WaterPlant(id string) (*domain.PlantView, error) {
	var view domain.PlantView
	if err := c.do(http.MethodPost, "/plants/"+id+"/water", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *APIClient) MarkDead(id string) (*domain.PlantView, error) {
	var view domain.PlantView
	if err := c.do(http.MethodPost, "/plants/"+id+"/dead", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *APIClient) DeletePlant(id string) error {
	return c.do(http.MethodDelete, "/plants/"+id, nil, nil)
}

// HTTP helpers

func (c *APIClient) do(method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		bodyBytes, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(bodyBytes, apiErr) != nil {
			apiErr.Message = string(bodyBytes)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
