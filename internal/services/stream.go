package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/spin/internal/shared"
)

var _ Streamer = (*StreamClient)(nil)

// StreamClient downloads audio streams.
type StreamClient struct {
	httpClient *http.Client
}

// NewStreamClient creates a StreamClient. A nil client uses [http.DefaultClient].
func NewStreamClient(client *http.Client) *StreamClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &StreamClient{httpClient: client}
}

// Fetch reads the whole body behind url.
func (c *StreamClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty stream url", shared.ErrInvalidArgument)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: stream status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}
	return data, nil
}
