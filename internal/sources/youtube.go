package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

const youtubeAPIBase = "https://www.googleapis.com/youtube/v3"

// YouTubeClient implements VideoPlatform against the Data API v3.
type YouTubeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewYouTubeClient builds the client. An empty key produces a client whose
// calls fail with ErrSourceUnavailable; stages degrade accordingly.
func NewYouTubeClient(apiKey string) *YouTubeClient {
	return &YouTubeClient{
		apiKey:  apiKey,
		baseURL: youtubeAPIBase,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     logging.Component("youtube"),
	}
}

// Search returns videos matching query in the requested order.
func (c *YouTubeClient) Search(ctx context.Context, query, order string, publishedAfter time.Time, maxResults int, region string) ([]VideoItem, error) {
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 50
	}
	if order == "" {
		order = "date"
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("q", query)
	q.Set("order", order)
	q.Set("maxResults", strconv.Itoa(maxResults))
	if !publishedAfter.IsZero() {
		q.Set("publishedAfter", publishedAfter.UTC().Format(time.RFC3339))
	}
	if region != "" {
		q.Set("regionCode", region)
	}

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string    `json:"title"`
				ChannelID    string    `json:"channelId"`
				ChannelTitle string    `json:"channelTitle"`
				PublishedAt  time.Time `json:"publishedAt"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/search", q, &payload); err != nil {
		return nil, err
	}

	items := make([]VideoItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		if it.ID.VideoID == "" {
			continue
		}
		items = append(items, VideoItem{
			ID:           it.ID.VideoID,
			Title:        it.Snippet.Title,
			ChannelID:    it.Snippet.ChannelID,
			ChannelTitle: it.Snippet.ChannelTitle,
			PublishedAt:  it.Snippet.PublishedAt,
		})
	}
	return items, nil
}

// VideoStats returns view/like/comment counters for up to 50 videos.
func (c *YouTubeClient) VideoStats(ctx context.Context, ids []string) (map[string]VideoStats, error) {
	if len(ids) == 0 {
		return map[string]VideoStats{}, nil
	}
	if len(ids) > 50 {
		ids = ids[:50]
	}

	q := url.Values{}
	q.Set("part", "statistics")
	q.Set("id", strings.Join(ids, ","))

	var payload struct {
		Items []struct {
			ID         string `json:"id"`
			Statistics struct {
				ViewCount    string `json:"viewCount"`
				LikeCount    string `json:"likeCount"`
				CommentCount string `json:"commentCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/videos", q, &payload); err != nil {
		return nil, err
	}

	out := make(map[string]VideoStats, len(payload.Items))
	for _, it := range payload.Items {
		out[it.ID] = VideoStats{
			Views:    parseCount(it.Statistics.ViewCount),
			Likes:    parseCount(it.Statistics.LikeCount),
			Comments: parseCount(it.Statistics.CommentCount),
		}
	}
	return out, nil
}

// ChannelStats returns subscriber and upload counters for up to 50 channels.
func (c *YouTubeClient) ChannelStats(ctx context.Context, ids []string) (map[string]ChannelStats, error) {
	if len(ids) == 0 {
		return map[string]ChannelStats{}, nil
	}
	if len(ids) > 50 {
		ids = ids[:50]
	}

	q := url.Values{}
	q.Set("part", "statistics,snippet")
	q.Set("id", strings.Join(ids, ","))

	var payload struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
				ViewCount       string `json:"viewCount"`
				VideoCount      string `json:"videoCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/channels", q, &payload); err != nil {
		return nil, err
	}

	out := make(map[string]ChannelStats, len(payload.Items))
	for _, it := range payload.Items {
		out[it.ID] = ChannelStats{
			Title:       it.Snippet.Title,
			Subscribers: parseCount(it.Statistics.SubscriberCount),
			TotalViews:  parseCount(it.Statistics.ViewCount),
			VideoCount:  parseCount(it.Statistics.VideoCount),
		}
	}
	return out, nil
}

func (c *YouTubeClient) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: youtube api key not configured", models.ErrSourceUnavailable)
	}
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		// 403 is almost always quotaExceeded on this API.
		return fmt.Errorf("%w: youtube returned %d", models.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: youtube returned %d", models.ErrSourceUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}
	return nil
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
