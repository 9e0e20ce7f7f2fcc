package sources

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"
	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// TwitterSource measures keyword buzz from recent tweet volume and
// engagement. Without a bearer token every keyword gets the neutral signal.
type TwitterSource struct {
	client *twitter.Client
	log    zerolog.Logger
}

// NewTwitterSource builds the source. token may be empty.
func NewTwitterSource(token string) *TwitterSource {
	s := &TwitterSource{log: logging.Component("twitter")}
	if token == "" {
		s.log.Warn().Msg("no bearer token, social signal disabled")
		return s
	}
	s.client = &twitter.Client{
		Authorizer: bearerAuthorizer{token: token},
		Client:     &http.Client{Timeout: 15 * time.Second},
		Host:       "https://api.twitter.com",
	}
	return s
}

// AnalyzeBuzz searches recent tweets for the keyword and derives a 0-100
// buzz score from volume and engagement.
func (s *TwitterSource) AnalyzeBuzz(ctx context.Context, keyword string) (*models.SocialSignal, error) {
	if s.client == nil {
		return &models.SocialSignal{
			Keyword:    keyword,
			BuzzScore:  50,
			ViralScore: 50,
			Sources:    []string{"twitter:stub"},
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	opts := twitter.TweetRecentSearchOpts{
		MaxResults:  50,
		TweetFields: []twitter.TweetField{twitter.TweetFieldPublicMetrics, twitter.TweetFieldCreatedAt},
	}
	resp, err := s.client.TweetRecentSearch(ctx, keyword+" -is:retweet", opts)
	if err != nil {
		return nil, fmt.Errorf("%w: twitter search: %v", models.ErrSourceUnavailable, err)
	}

	var tweets, engagement, retweets int
	if resp.Raw != nil {
		for _, tw := range resp.Raw.Tweets {
			if tw == nil {
				continue
			}
			tweets++
			if m := tw.PublicMetrics; m != nil {
				engagement += m.Likes + m.Replies + m.Retweets + m.Quotes
				retweets += m.Retweets
			}
		}
	}

	buzz, viral := BuzzScores(tweets, engagement, retweets)
	return &models.SocialSignal{
		Keyword:    keyword,
		BuzzScore:  buzz,
		ViralScore: viral,
		Mentions:   tweets,
		Sources:    []string{"twitter"},
	}, nil
}

// BuzzScores maps raw tweet volume and engagement onto 0-100 scales. Volume
// and engagement are log-scaled so a handful of mega tweets does not pin the
// score; virality leans on the retweet share.
func BuzzScores(tweets, engagement, retweets int) (buzz, viral float64) {
	if tweets == 0 {
		return 0, 0
	}

	volume := math.Log10(float64(tweets)+1) / math.Log10(51) * 50
	traction := math.Log10(float64(engagement)+1) / math.Log10(10001) * 50
	buzz = models.Clamp(volume+traction, 0, 100)

	retweetShare := float64(retweets) / math.Max(float64(engagement), 1)
	viral = models.Clamp(buzz*0.6+retweetShare*100*0.4, 0, 100)
	return buzz, viral
}
