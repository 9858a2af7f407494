package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/zap"
)

var (
	ErrVideoNotFound    = errors.New("video not found")
	ErrSearchNotEnabled = errors.New("video search requires a YouTube API key")
)

// Video is the metadata shape the frontend consumes. It is assembled from
// either the oEmbed endpoint (single lookup) or the Data API (search).
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

type Service struct {
	cfg        *config.YouTubeConfig
	logger     *logging.Service
	httpClient *http.Client
}

func NewService(cfg *config.YouTubeConfig, logger *logging.Service) *Service {
	return &Service{
		cfg:        cfg,
		logger:     logger,
		httpClient: http.DefaultClient,
	}
}

func (s *Service) doJSON(ctx context.Context, rawURL string, result any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("youtube API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// Lookup resolves a single video's metadata via oEmbed, which needs no API
// key. A 404 or 401 from oEmbed means the video does not exist or is not
// embeddable, which the platform treats the same way.
func (s *Service) Lookup(ctx context.Context, videoID string) (*Video, error) {
	watchURL := "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
	lookupURL := s.cfg.OEmbedURL + "?format=json&url=" + url.QueryEscape(watchURL)

	var payload struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
	}

	status, err := s.doJSON(ctx, lookupURL, &payload)
	if err != nil {
		if status == http.StatusNotFound || status == http.StatusUnauthorized || status == http.StatusBadRequest {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	return &Video{
		ID:           videoID,
		Title:        payload.Title,
		ChannelTitle: payload.AuthorName,
		ThumbnailURL: payload.ThumbnailURL,
	}, nil
}

// Search proxies the Data API search endpoint. Without a configured API key
// search is unavailable; lookup still works.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Video, error) {
	if s.cfg.APIKey == "" {
		return nil, ErrSearchNotEnabled
	}
	if limit <= 0 || limit > 50 {
		limit = 12
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("key", s.cfg.APIKey)

	searchURL := s.cfg.APIURL + "/search?" + params.Encode()

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Description  string `json:"description"`
				Thumbnails   struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}

	if _, err := s.doJSON(ctx, searchURL, &payload); err != nil {
		s.logger.Warn("youtube search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	videos := make([]Video, 0, len(payload.Items))
	for _, item := range payload.Items {
		videos = append(videos, Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			Description:  item.Snippet.Description,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
		})
	}
	return videos, nil
}
