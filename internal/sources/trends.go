package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

// userAgents is the identity pool rotated between retry attempts. The trends
// endpoint throttles per identity, so a fresh UA plus a fresh cookie jar
// often unblocks a 429.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// TrendsClient talks to the unofficial interest-over-time endpoints. Every
// fetch is a two-step dance: an explore call that hands out a widget token,
// then a multiline call that returns the series.
type TrendsClient struct {
	baseURL string
	log     zerolog.Logger

	mu     sync.Mutex
	client *http.Client
	ua     string
}

// NewTrendsClient builds a client against baseURL.
func NewTrendsClient(baseURL string) *TrendsClient {
	c := &TrendsClient{
		baseURL: baseURL,
		log:     logging.Component("trends"),
	}
	c.RotateIdentity()
	return c
}

// RotateIdentity swaps the user agent and discards cookies.
func (c *TrendsClient) RotateIdentity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	jar, _ := cookiejar.New(nil)
	c.client = &http.Client{Timeout: 30 * time.Second, Jar: jar}
	c.ua = userAgents[rand.Intn(len(userAgents))]
}

// FetchInterest returns the interest series for up to five keywords.
func (c *TrendsClient) FetchInterest(ctx context.Context, keywords []string, geo, timeframe string) (map[string][]float64, error) {
	if len(keywords) == 0 {
		return map[string][]float64{}, nil
	}
	if len(keywords) > 5 {
		return nil, fmt.Errorf("%w: at most 5 keywords per interest request", models.ErrInvalidInput)
	}

	token, widgetReq, err := c.explore(ctx, keywords, geo, timeframe)
	if err != nil {
		return nil, err
	}
	return c.multiline(ctx, keywords, token, widgetReq)
}

type exploreWidget struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

func (c *TrendsClient) explore(ctx context.Context, keywords []string, geo, timeframe string) (string, json.RawMessage, error) {
	type comparisonItem struct {
		Keyword string `json:"keyword"`
		Geo     string `json:"geo"`
		Time    string `json:"time"`
	}
	items := make([]comparisonItem, len(keywords))
	for i, kw := range keywords {
		items[i] = comparisonItem{Keyword: kw, Geo: geo, Time: timeframe}
	}
	reqPayload, err := json.Marshal(map[string]any{
		"comparisonItem": items,
		"category":       0,
		"property":       "",
	})
	if err != nil {
		return "", nil, err
	}

	q := url.Values{}
	q.Set("hl", "ko")
	q.Set("tz", "-540")
	q.Set("req", string(reqPayload))

	body, err := c.get(ctx, "/trends/api/explore", q)
	if err != nil {
		return "", nil, err
	}

	var payload struct {
		Widgets []exploreWidget `json:"widgets"`
	}
	if err := json.Unmarshal(StripTrendsPrefix(body), &payload); err != nil {
		return "", nil, fmt.Errorf("%w: explore: %v", models.ErrMalformedResponse, err)
	}
	for _, w := range payload.Widgets {
		if w.ID == "TIMESERIES" {
			return w.Token, w.Request, nil
		}
	}
	return "", nil, fmt.Errorf("%w: no timeseries widget", models.ErrMalformedResponse)
}

func (c *TrendsClient) multiline(ctx context.Context, keywords []string, token string, widgetReq json.RawMessage) (map[string][]float64, error) {
	q := url.Values{}
	q.Set("hl", "ko")
	q.Set("tz", "-540")
	q.Set("req", string(widgetReq))
	q.Set("token", token)

	body, err := c.get(ctx, "/trends/api/widgetdata/multiline", q)
	if err != nil {
		return nil, err
	}
	return ParseMultiline(body, keywords)
}

// TrendingTopics returns today's trending searches for a geo.
func (c *TrendsClient) TrendingTopics(ctx context.Context, geo string) ([]string, error) {
	q := url.Values{}
	q.Set("hl", "ko")
	q.Set("tz", "-540")
	q.Set("geo", geo)

	body, err := c.get(ctx, "/trends/api/dailytrends", q)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Default struct {
			TrendingSearchesDays []struct {
				TrendingSearches []struct {
					Title struct {
						Query string `json:"query"`
					} `json:"title"`
				} `json:"trendingSearches"`
			} `json:"trendingSearchesDays"`
		} `json:"default"`
	}
	if err := json.Unmarshal(StripTrendsPrefix(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: dailytrends: %v", models.ErrMalformedResponse, err)
	}

	var topics []string
	for _, day := range payload.Default.TrendingSearchesDays {
		for _, s := range day.TrendingSearches {
			if s.Title.Query != "" {
				topics = append(topics, s.Title.Query)
			}
		}
	}
	return topics, nil
}

func (c *TrendsClient) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	c.mu.Lock()
	client, ua := c.client, c.ua
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: trends returned 429", models.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: trends returned %d", models.ErrSourceUnavailable, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}

// StripTrendsPrefix removes the anti-hijacking prefix ")]}'," the endpoints
// prepend to their JSON bodies.
func StripTrendsPrefix(body []byte) []byte {
	if idx := bytes.IndexAny(body, "{["); idx > 0 {
		return body[idx:]
	}
	return body
}

// ParseMultiline decodes a widgetdata/multiline body into one series per
// keyword, in keyword order.
func ParseMultiline(body []byte, keywords []string) (map[string][]float64, error) {
	var payload struct {
		Default struct {
			TimelineData []struct {
				Value []float64 `json:"value"`
			} `json:"timelineData"`
		} `json:"default"`
	}
	if err := json.Unmarshal(StripTrendsPrefix(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: multiline: %v", models.ErrMalformedResponse, err)
	}

	out := make(map[string][]float64, len(keywords))
	for i, kw := range keywords {
		series := make([]float64, 0, len(payload.Default.TimelineData))
		for _, point := range payload.Default.TimelineData {
			if i < len(point.Value) {
				series = append(series, point.Value[i])
			}
		}
		out[kw] = series
	}
	return out, nil
}
