package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mpeyrovian/TubeLytics/internal/domain"
	apperrors "github.com/mpeyrovian/TubeLytics/internal/errors"
)

type videoResponse struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	ThumbnailURL string `json:"thumbnailUrl"`
	URL          string `json:"url"`
}

type searchResponse struct {
	Keyword string          `json:"keyword"`
	Videos  []videoResponse `json:"videos"`
}

type channelProfileResponse struct {
	Channel *domain.ChannelProfile `json:"channel"`
	Videos  []videoResponse        `json:"videos"`
}

type videoTagsResponse struct {
	VideoID string   `json:"videoId"`
	Tags    []string `json:"tags"`
}

// handleSearch is the one-shot keyword search.
func (s *Server) handleSearch(c echo.Context) error {
	keyword := domain.NormalizeKeyword(c.QueryParam("q"))
	if keyword == "" {
		return apperrors.ValidationError("query parameter q is required")
	}

	videos, err := s.search.Search(c.Request().Context(), keyword, defaultSearchResults)
	if err != nil {
		return apperrors.ExternalError("video search failed", err).WithContext("keyword", keyword)
	}

	return c.JSON(http.StatusOK, searchResponse{Keyword: keyword, Videos: toVideoResponses(videos)})
}

// handleChannelProfile returns channel metadata plus its latest videos.
func (s *Server) handleChannelProfile(c echo.Context) error {
	channelID := c.Param("id")

	profile, err := s.channels.ChannelInfo(c.Request().Context(), channelID)
	if errors.Is(err, domain.ErrChannelNotFound) {
		return apperrors.NotFoundError("channel not found").WithContext("channel_id", channelID)
	}
	if err != nil {
		return apperrors.ExternalError("channel lookup failed", err).WithContext("channel_id", channelID)
	}

	videos, err := s.channels.ChannelVideos(c.Request().Context(), channelID, defaultSearchResults)
	if err != nil {
		return apperrors.ExternalError("channel video listing failed", err).WithContext("channel_id", channelID)
	}

	return c.JSON(http.StatusOK, channelProfileResponse{Channel: profile, Videos: toVideoResponses(videos)})
}

// handleVideoTags returns the tag list of one video.
func (s *Server) handleVideoTags(c echo.Context) error {
	videoID := c.Param("id")

	tags, err := s.channels.VideoTags(c.Request().Context(), videoID)
	if errors.Is(err, domain.ErrVideoNotFound) {
		return apperrors.NotFoundError("video not found").WithContext("video_id", videoID)
	}
	if err != nil {
		return apperrors.ExternalError("tag lookup failed", err).WithContext("video_id", videoID)
	}

	return c.JSON(http.StatusOK, videoTagsResponse{VideoID: videoID, Tags: tags})
}

func toVideoResponses(videos []domain.Video) []videoResponse {
	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoResponse{
			VideoID:      v.ID,
			Title:        v.Title,
			Description:  v.Description,
			ChannelID:    v.ChannelID,
			ChannelTitle: v.ChannelTitle,
			ThumbnailURL: v.ThumbnailURL,
			URL:          v.URL,
		})
	}
	return out
}
