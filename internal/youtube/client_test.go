package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpeyrovian/TubeLytics/internal/domain"
)

const searchBody = `{
	"items": [
		{
			"id": {"kind": "youtube#video", "videoId": "v1"},
			"snippet": {
				"title": "First Video",
				"description": "desc one",
				"channelId": "c1",
				"channelTitle": "Channel One",
				"thumbnails": {"default": {"url": "http://thumb/v1.jpg"}}
			}
		},
		{
			"id": {"kind": "youtube#video", "videoId": "v2"},
			"snippet": {}
		},
		{
			"id": {"kind": "youtube#channel"},
			"snippet": {"title": "No Video ID"}
		}
	]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
}

func TestClient_Search(t *testing.T) {
	var gotPath, gotQuery string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})

	videos, err := client.Search(context.Background(), "jazz", 10)
	require.NoError(t, err)

	assert.Equal(t, "/search", gotPath)
	assert.Contains(t, gotQuery, "q=jazz")
	assert.Contains(t, gotQuery, "type=video")
	assert.Contains(t, gotQuery, "order=date")
	assert.Contains(t, gotQuery, "maxResults=10")
	assert.Contains(t, gotQuery, "key=test-key")

	// The channel-kind item has no video id and is dropped.
	require.Len(t, videos, 2)

	assert.Equal(t, domain.Video{
		ID:           "v1",
		Title:        "First Video",
		Description:  "desc one",
		ChannelID:    "c1",
		ChannelTitle: "Channel One",
		ThumbnailURL: "http://thumb/v1.jpg",
		URL:          "https://www.youtube.com/watch?v=v1",
	}, videos[0])

	// Missing snippet fields fall back to defaults.
	assert.Equal(t, "v2", videos[1].ID)
	assert.Equal(t, "No Title", videos[1].Title)
	assert.Equal(t, "Unknown Channel", videos[1].ChannelTitle)
	assert.Equal(t, "Unknown Channel ID", videos[1].ChannelID)
	assert.Empty(t, videos[1].Description)
}

func TestClient_Search_PlainStringID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":"v9","snippet":{"title":"Plain"}}]}`))
	})

	videos, err := client.Search(context.Background(), "jazz", 5)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "v9", videos[0].ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=v9", videos[0].URL)
}

func TestClient_Search_GatewayFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"quotaExceeded"}}`, http.StatusForbidden)
	})

	_, err := client.Search(context.Background(), "jazz", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_ChannelVideos(t *testing.T) {
	var gotQuery string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(searchBody))
	})

	videos, err := client.ChannelVideos(context.Background(), "c1", 10)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "channelId=c1")
	assert.NotContains(t, gotQuery, "q=")
	assert.Len(t, videos, 2)
}

func TestClient_ChannelInfo(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "c1",
				"snippet": {
					"title": "Channel One",
					"description": "about",
					"country": "CA",
					"thumbnails": {"default": {"url": "http://thumb/c1.jpg"}}
				},
				"statistics": {"subscriberCount": "1200", "videoCount": "42", "viewCount": "999999"}
			}]
		}`))
	})

	profile, err := client.ChannelInfo(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, &domain.ChannelProfile{
		ID:              "c1",
		Title:           "Channel One",
		Description:     "about",
		Country:         "CA",
		ThumbnailURL:    "http://thumb/c1.jpg",
		SubscriberCount: "1200",
		VideoCount:      "42",
		ViewCount:       "999999",
	}, profile)
}

func TestClient_ChannelInfo_NotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	_, err := client.ChannelInfo(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
}

func TestClient_VideoTags(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[{"id":"v1","snippet":{"tags":["go","music"]}}]}`))
	})

	tags, err := client.VideoTags(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "music"}, tags)
}

func TestClient_VideoTags_NoTags(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":"v1","snippet":{"title":"untagged"}}]}`))
	})

	tags, err := client.VideoTags(context.Background(), "v1")
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.NotNil(t, tags)
}

func TestClient_VideoTags_NotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	_, err := client.VideoTags(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
}

func TestClient_ContextCancellation(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "jazz", 5)
	assert.Error(t, err)
}
