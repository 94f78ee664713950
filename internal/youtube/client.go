// Package youtube implements the video search gateway against the
// YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mpeyrovian/TubeLytics/internal/domain"
	"github.com/mpeyrovian/TubeLytics/internal/metrics"
)

const (
	baseVideoURL   = "https://www.youtube.com/watch?v="
	defaultTimeout = 10 * time.Second

	// Snippet fallbacks when the API omits a field.
	defaultTitle        = "No Title"
	defaultChannelTitle = "Unknown Channel"
	defaultChannelID    = "Unknown Channel ID"
)

// Config holds the gateway settings. The API key and URL are threaded in
// explicitly so the client never reads ambient process state.
type Config struct {
	APIKey  string
	BaseURL string

	// HTTPClient overrides the transport; nil selects a default client
	// with a bounded timeout.
	HTTPClient *http.Client
}

// Client calls the YouTube Data API v3. Safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

// Search returns up to maxResults videos matching the keyword, newest first.
// Items without a video id are dropped.
func (c *Client) Search(ctx context.Context, keyword string, maxResults int) ([]domain.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("q", keyword)
	params.Set("maxResults", strconv.Itoa(maxResults))

	var resp listResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	return parseVideos(resp.Items), nil
}

// ChannelVideos returns the latest videos published by a channel.
func (c *Client) ChannelVideos(ctx context.Context, channelID string, maxResults int) ([]domain.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("channelId", channelID)
	params.Set("maxResults", strconv.Itoa(maxResults))

	var resp listResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, fmt.Errorf("channel videos %q: %w", channelID, err)
	}
	return parseVideos(resp.Items), nil
}

// ChannelInfo returns a channel's profile metadata.
// Returns domain.ErrChannelNotFound for an unknown channel id.
func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*domain.ChannelProfile, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", channelID)

	var resp channelListResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return nil, fmt.Errorf("channel info %q: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return nil, domain.ErrChannelNotFound
	}

	item := resp.Items[0]
	return &domain.ChannelProfile{
		ID:              item.ID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		Country:         item.Snippet.Country,
		ThumbnailURL:    item.Snippet.Thumbnails.Default.URL,
		SubscriberCount: item.Statistics.SubscriberCount,
		VideoCount:      item.Statistics.VideoCount,
		ViewCount:       item.Statistics.ViewCount,
	}, nil
}

// VideoTags returns the tags of a video, or an empty slice when it has none.
// Returns domain.ErrVideoNotFound for an unknown video id.
func (c *Client) VideoTags(ctx context.Context, videoID string) ([]string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)

	var resp listResponse
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, fmt.Errorf("video tags %q: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, domain.ErrVideoNotFound
	}
	if resp.Items[0].Snippet.Tags == nil {
		return []string{}, nil
	}
	return resp.Items[0].Snippet.Tags, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.GatewayRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("failed to decode response: %w", err)
	}

	metrics.GatewayRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}
