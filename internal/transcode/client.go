package transcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ProviderError is a failed response from the transcoding provider. The
// ingestion pipeline classifies these into retryable and terminal outcomes.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Request describes one transcoding job
type Request struct {
	SourceURL string `json:"source_url"`
	Privacy   string `json:"privacy"`
}

// Result is a completed transcoding job
type Result struct {
	PlaybackURL     string  `json:"playback_url"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	DurationSeconds float64 `json:"duration_seconds"`
	AssetID         string  `json:"asset_id"`
}

// Client calls the external transcoding provider synchronously
type Client struct {
	baseURL  string
	apiKey   string
	provider string
	http     *http.Client
}

func NewClient(baseURL, apiKey, provider string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		provider: provider,
		// Transcoding is synchronous and can take minutes for long uploads
		http: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Transcode submits the source video and blocks until the provider finishes.
// Non-2xx responses come back as *ProviderError.
func (c *Client) Transcode(ctx context.Context, r Request) (*Result, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/assets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcode request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "context deadline exceeded") {
			return nil, &ProviderError{Provider: c.provider, Message: "request timeout: " + err.Error()}
		}
		return nil, &ProviderError{Provider: c.provider, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode transcode response: %w", err)
	}

	return &result, nil
}
