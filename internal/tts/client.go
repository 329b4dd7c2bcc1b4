// Package tts talks to the standalone narration service and prepares story
// text for synthesis.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	apiSynthesize = "/v1/synthesize"
	apiHealth     = "/health"
)

var (
	ErrEmptyText  = errors.New("text cannot be empty")
	ErrEmptyAudio = errors.New("received empty audio data")
)

// Synthesizer converts story text to narrated audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// Client is an HTTP client for the narration service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Request is the JSON payload for a synthesis call.
type Request struct {
	Text string `json:"text"`

	// Voice selects the TTS persona. The service falls back to its default
	// voice when empty.
	Voice string `json:"voice,omitempty"`

	// Speed is a playback-rate multiplier. Zero means 1.0.
	Speed float64 `json:"speed,omitempty"`
}

// errorResponse is the structured error body the service returns on failure.
type errorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize sends the cleaned story text and returns the audio bytes. The
// response format depends on the service configuration (WAV or MP3); callers
// persist the bytes as-is.
func (c *Client) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if req.Text == "" {
		return nil, ErrEmptyText
	}

	requestBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiSynthesize, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/*")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach TTS service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	return audio, nil
}

// HealthCheck fails fast when the narration service is down.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiHealth, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed for service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TTS service unhealthy: %s", resp.Status)
	}

	return nil
}

func (c *Client) parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("TTS service returned %s and unreadable body", resp.Status)
	}

	var svcErr errorResponse
	err = json.Unmarshal(body, &svcErr)
	if err != nil || svcErr.Detail == "" {
		return fmt.Errorf("TTS service returned %s: %s", resp.Status, string(body))
	}

	if svcErr.ErrorCode != "" {
		return fmt.Errorf("TTS service error (%s): %s (code: %s)", resp.Status, svcErr.Detail, svcErr.ErrorCode)
	}

	return fmt.Errorf("TTS service error (%s): %s", resp.Status, svcErr.Detail)
}
