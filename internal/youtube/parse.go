package youtube

import (
	"encoding/json"

	"github.com/mpeyrovian/TubeLytics/internal/domain"
)

// API response shapes. The id field of a list item is either an object
// holding videoId (search endpoint) or a plain string (videos endpoint),
// so it is decoded lazily.

type listResponse struct {
	Items []listItem `json:"items"`
}

type listItem struct {
	ID      json.RawMessage `json:"id"`
	Snippet snippet         `json:"snippet"`
}

type snippet struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelID    string     `json:"channelId"`
	ChannelTitle string     `json:"channelTitle"`
	Thumbnails   thumbnails `json:"thumbnails"`
	Tags         []string   `json:"tags"`
	Country      string     `json:"country"`
}

type thumbnails struct {
	Default thumbnail `json:"default"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type channelListResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	ID         string            `json:"id"`
	Snippet    snippet           `json:"snippet"`
	Statistics channelStatistics `json:"statistics"`
}

type channelStatistics struct {
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
	ViewCount       string `json:"viewCount"`
}

// videoID extracts the video id from either id shape.
func (it listItem) videoID() string {
	if len(it.ID) == 0 {
		return ""
	}

	var obj struct {
		VideoID string `json:"videoId"`
	}
	if err := json.Unmarshal(it.ID, &obj); err == nil && obj.VideoID != "" {
		return obj.VideoID
	}

	var plain string
	if err := json.Unmarshal(it.ID, &plain); err == nil {
		return plain
	}
	return ""
}

// parseVideos converts API items into domain videos, applying snippet
// fallbacks and dropping items without a video id.
func parseVideos(items []listItem) []domain.Video {
	videos := make([]domain.Video, 0, len(items))
	for _, item := range items {
		id := item.videoID()
		if id == "" {
			continue
		}

		title := item.Snippet.Title
		if title == "" {
			title = defaultTitle
		}
		channelTitle := item.Snippet.ChannelTitle
		if channelTitle == "" {
			channelTitle = defaultChannelTitle
		}
		channelID := item.Snippet.ChannelID
		if channelID == "" {
			channelID = defaultChannelID
		}

		videos = append(videos, domain.Video{
			ID:           id,
			Title:        title,
			Description:  item.Snippet.Description,
			ChannelID:    channelID,
			ChannelTitle: channelTitle,
			ThumbnailURL: item.Snippet.Thumbnails.Default.URL,
			URL:          baseVideoURL + id,
		})
	}
	return videos
}
