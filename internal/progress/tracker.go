// Package progress tracks analysis pipeline stages and publishes updates to
// subscribers: an in-process callback and, when configured, a NATS subject.
package progress

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
)

// Stage is one pipeline phase. Weight is the expected duration in seconds
// and drives the overall percentage.
type Stage struct {
	Key         string
	Emoji       string
	Description string
	Weight      int
}

// Stages is the canonical pipeline order.
var Stages = []Stage{
	{Key: "category_analysis", Emoji: "🔍", Description: "카테고리 분석", Weight: 2},
	{Key: "keyword_expansion", Emoji: "🤖", Description: "AI 키워드 확장", Weight: 5},
	{Key: "trends_analysis", Emoji: "📊", Description: "Google Trends 분석", Weight: 8},
	{Key: "youtube_collection", Emoji: "📺", Description: "YouTube 데이터 수집", Weight: 6},
	{Key: "competitor_analysis", Emoji: "🏆", Description: "경쟁자 분석", Weight: 4},
	{Key: "filtering", Emoji: "🔍", Description: "키워드 필터링", Weight: 3},
	{Key: "title_generation", Emoji: "💡", Description: "제목 생성", Weight: 3},
	{Key: "report_generation", Emoji: "📄", Description: "리포트 생성", Weight: 2},
}

// Update is one progress event.
type Update struct {
	RunID       string        `json:"run_id"`
	Stage       string        `json:"stage"`
	Emoji       string        `json:"emoji"`
	Description string        `json:"description"`
	StageIndex  int           `json:"stage_index"`
	StageCount  int           `json:"stage_count"`
	SubProgress float64       `json:"sub_progress"`
	Detail      string        `json:"detail,omitempty"`
	Overall     float64       `json:"overall"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	Done        bool          `json:"done"`
}

// Publisher receives progress updates.
type Publisher interface {
	Publish(u Update)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(u Update)

func (f PublisherFunc) Publish(u Update) { f(u) }

// Tracker tracks one analysis run. Safe for concurrent use; stages may
// report sub-progress from worker goroutines.
type Tracker struct {
	runID      string
	publishers []Publisher
	started    time.Time

	mu       sync.Mutex
	stageIdx int
	sub      float64
	done     bool
}

// NewTracker starts tracking a run.
func NewTracker(runID string, publishers ...Publisher) *Tracker {
	return &Tracker{
		runID:      runID,
		publishers: publishers,
		started:    time.Now(),
		stageIdx:   -1,
	}
}

// SetStage advances to the named stage and resets sub-progress.
func (t *Tracker) SetStage(key string) {
	t.mu.Lock()
	for i, s := range Stages {
		if s.Key == key {
			t.stageIdx = i
			break
		}
	}
	t.sub = 0
	u := t.snapshotLocked("")
	t.mu.Unlock()
	t.publish(u)
}

// SetSub reports fractional progress (0-1) inside the current stage.
func (t *Tracker) SetSub(frac float64, detail string) {
	t.mu.Lock()
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	t.sub = frac
	u := t.snapshotLocked(detail)
	t.mu.Unlock()
	t.publish(u)
}

// Complete marks the run finished.
func (t *Tracker) Complete() {
	t.mu.Lock()
	t.stageIdx = len(Stages) - 1
	t.sub = 1
	t.done = true
	u := t.snapshotLocked("")
	t.mu.Unlock()
	t.publish(u)
}

// Overall returns the weighted completion fraction (0-1).
func (t *Tracker) Overall() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overallLocked()
}

func (t *Tracker) overallLocked() float64 {
	if t.done {
		return 1
	}
	total := 0
	for _, s := range Stages {
		total += s.Weight
	}
	if total == 0 || t.stageIdx < 0 {
		return 0
	}
	completed := 0
	for i := 0; i < t.stageIdx; i++ {
		completed += Stages[i].Weight
	}
	current := float64(Stages[t.stageIdx].Weight) * t.sub
	return (float64(completed) + current) / float64(total)
}

func (t *Tracker) snapshotLocked(detail string) Update {
	u := Update{
		RunID:       t.runID,
		StageCount:  len(Stages),
		StageIndex:  t.stageIdx + 1,
		SubProgress: t.sub,
		Detail:      detail,
		Overall:     t.overallLocked(),
		Elapsed:     time.Since(t.started),
		Done:        t.done,
	}
	if t.stageIdx >= 0 && t.stageIdx < len(Stages) {
		s := Stages[t.stageIdx]
		u.Stage = s.Key
		u.Emoji = s.Emoji
		u.Description = s.Description
	}
	return u
}

func (t *Tracker) publish(u Update) {
	for _, p := range t.publishers {
		p.Publish(u)
	}
}

// NATSPublisher publishes updates as JSON on a subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	log     zerolog.Logger
}

// NewNATSPublisher connects to url. Returns an error when the server is
// unreachable; callers treat the publisher as optional.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		log:     logging.Component("progress-nats"),
	}, nil
}

// Publish sends the update; failures are logged, never fatal.
func (p *NATSPublisher) Publish(u Update) {
	payload, err := json.Marshal(u)
	if err != nil {
		p.log.Warn().Err(err).Msg("marshal progress update")
		return
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.log.Warn().Err(err).Msg("publish progress update")
	}
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}
