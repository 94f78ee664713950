package domain

// Wire message types exchanged over a live connection.
const (
	MessageTypeInit      = "init"
	MessageTypeVideo     = "video"
	MessageTypeHeartbeat = "heartbeat"
)

// InitMessage is the first (and only expected) inbound message on a live
// connection, carrying the keywords the client wants to watch.
type InitMessage struct {
	Type     string   `json:"type"`
	Keywords []string `json:"keywords"`
}

// VideoMessage is the outbound notification for a newly discovered video.
type VideoMessage struct {
	Type         string `json:"type"`
	Keyword      string `json:"keyword"`
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// HeartbeatMessage is the periodic liveness signal sent to every open
// connection regardless of keyword activity.
type HeartbeatMessage struct {
	Type string `json:"type"`
}

// NewVideoMessage builds the outbound notification for one video under one
// keyword watch.
func NewVideoMessage(keyword string, v Video) VideoMessage {
	return VideoMessage{
		Type:         MessageTypeVideo,
		Keyword:      keyword,
		VideoID:      v.ID,
		Title:        v.Title,
		Description:  v.Description,
		ChannelID:    v.ChannelID,
		ChannelTitle: v.ChannelTitle,
		ThumbnailURL: v.ThumbnailURL,
	}
}
