package domain

import "context"

// Video is an immutable summary of a published video as returned by the
// search gateway. ID is the deduplication key; summaries with an empty ID
// are never delivered.
type Video struct {
	ID           string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	ThumbnailURL string
	URL          string
}

// ChannelProfile holds the metadata of a channel as returned by the
// channel lookup endpoint.
type ChannelProfile struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Country         string `json:"country,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
	ViewCount       string `json:"viewCount"`
}

// SearchGateway provides video search results for a keyword.
// Implementations must honor ctx cancellation; the poller bounds every call.
type SearchGateway interface {
	Search(ctx context.Context, keyword string, maxResults int) ([]Video, error)
}

// ChannelGateway provides channel metadata and per-channel video listings.
// Consumed by the one-shot REST handlers only, never by the core poller.
type ChannelGateway interface {
	ChannelInfo(ctx context.Context, channelID string) (*ChannelProfile, error)
	ChannelVideos(ctx context.Context, channelID string, maxResults int) ([]Video, error)
	VideoTags(ctx context.Context, videoID string) ([]string, error)
}
