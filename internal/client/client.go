// Package client is the Go API client used by the story creation and
// playback flows. Every call takes the bearer token explicitly; the client
// holds no ambient credential state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/lunanest/storytime/internal/model"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateStoryRequest is the payload for CreateStory.
type CreateStoryRequest struct {
	Title  string  `json:"title"`
	Story  string  `json:"story"`
	Age    *int    `json:"age,omitempty"`
	Length *string `json:"length,omitempty"`
}

func (c *Client) Stories(ctx context.Context, token string) ([]*model.StoryListItem, error) {
	var out struct {
		Stories []*model.StoryListItem `json:"stories"`
	}

	err := c.do(ctx, token, http.MethodGet, "/api/stories", nil, "", &out)
	if err != nil {
		return nil, err
	}

	return out.Stories, nil
}

// Story returns the story and its voice → audio URL map.
func (c *Client) Story(ctx context.Context, token, storyID string) (*model.Story, map[string]string, error) {
	var out struct {
		Story *model.Story      `json:"story"`
		Audio map[string]string `json:"audio"`
	}

	err := c.do(ctx, token, http.MethodGet, "/api/stories/"+storyID, nil, "", &out)
	if err != nil {
		return nil, nil, err
	}

	return out.Story, out.Audio, nil
}

func (c *Client) CreateStory(ctx context.Context, token string, req CreateStoryRequest) (*model.Story, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var out struct {
		Story *model.Story `json:"story"`
	}

	err = c.do(ctx, token, http.MethodPost, "/api/stories", bytes.NewReader(body), "application/json", &out)
	if err != nil {
		return nil, err
	}

	return out.Story, nil
}

// SavedAudioURL returns the persisted narration URL for the voice, or ""
// when none has been saved yet.
func (c *Client) SavedAudioURL(ctx context.Context, token, storyID, voice string) (string, error) {
	_, audio, err := c.Story(ctx, token, storyID)
	if err != nil {
		return "", err
	}

	return audio[voice], nil
}

// UploadAudio persists a narration for the story and voice. Uploading again
// for the same pair replaces the previous narration.
func (c *Client) UploadAudio(ctx context.Context, token, storyID, voice string, audio io.Reader, filename string) (*model.AudioFile, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("audio", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	_, err = io.Copy(part, audio)
	if err != nil {
		return nil, fmt.Errorf("failed to copy audio: %w", err)
	}

	err = form.WriteField("voice", voice)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	err = form.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	var out struct {
		Audio *model.AudioFile `json:"audio"`
	}

	err = c.do(ctx, token, http.MethodPost, "/api/stories/"+storyID+"/audio", &buf, form.FormDataContentType(), &out)
	if err != nil {
		return nil, err
	}

	return out.Audio, nil
}

func (c *Client) DeleteStory(ctx context.Context, token, storyID string) error {
	return c.do(ctx, token, http.MethodDelete, "/api/stories/"+storyID, nil, "", nil)
}

func (c *Client) do(ctx context.Context, token, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr struct {
			Error string `json:"error"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr)
		if decodeErr != nil || apiErr.Error == "" {
			return fmt.Errorf("%s %s returned %s", method, path, resp.Status)
		}
		return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
