package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/config"
	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
	"github.com/gatat123/YouTube-Bot-v7/internal/progress"
	"github.com/gatat123/YouTube-Bot-v7/internal/sources"
)

// Pipeline runs the full analysis: expansion, trend aggregation, two filter
// passes, platform enrichment, scoring, prediction and title generation.
// Per-keyword failures degrade to documented defaults; only validation
// errors and the run deadline abort a run.
type Pipeline struct {
	expander  sources.KeywordExpander
	trends    *TrendAggregator
	comp      *CompetitionAnalyzer
	landscape *LandscapeAnalyzer
	social    sources.SocialSource
	titles    sources.TitleGenerator
	scorer    *Scorer
	predictor *PredictionEngine
	funnel    *Funnel
	cfg       config.AnalysisConfig
	log       zerolog.Logger
}

// PipelineDeps bundles the collaborators. Landscape, Social and Titles may
// be nil; the matching report sections are then omitted.
type PipelineDeps struct {
	Expander    sources.KeywordExpander
	Trends      *TrendAggregator
	Competition *CompetitionAnalyzer
	Landscape   *LandscapeAnalyzer
	Social      sources.SocialSource
	Titles      sources.TitleGenerator
	Scorer      *Scorer
	Predictor   *PredictionEngine
}

// NewPipeline wires a pipeline with the given stage caps.
func NewPipeline(deps PipelineDeps, cfg config.AnalysisConfig) *Pipeline {
	return &Pipeline{
		expander:  deps.Expander,
		trends:    deps.Trends,
		comp:      deps.Competition,
		landscape: deps.Landscape,
		social:    deps.Social,
		titles:    deps.Titles,
		scorer:    deps.Scorer,
		predictor: deps.Predictor,
		funnel:    NewFunnel(),
		cfg:       cfg,
		log:       logging.Component("pipeline"),
	}
}

// Run executes the full analysis for a request. tracker may be nil.
func (p *Pipeline) Run(ctx context.Context, req models.AnalyzeRequest, tracker *progress.Tracker) (*models.AnalysisReport, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout(req.Depth))
	defer cancel()

	report := &models.AnalysisReport{
		ID:        uuid.NewString(),
		Topic:     req.Topic,
		Category:  req.Category,
		Depth:     req.Depth,
		CreatedAt: started,
	}
	degraded := map[string]bool{}

	// Phase 1: expansion.
	p.stage(tracker, "keyword_expansion")
	candidates := p.expand(ctx, req, degraded)
	report.Stats.ExpandedCount = len(candidates)
	if err := p.deadline(ctx); err != nil {
		return nil, err
	}

	// Phase 2: trend signals for every candidate.
	p.stage(tracker, "trends_analysis")
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	signals := p.trends.Collect(ctx, texts, req.Category, func(done, total int) {
		if tracker != nil && total > 0 {
			tracker.SetSub(float64(done)/float64(total), fmt.Sprintf("%d/%d 키워드", done, total))
		}
	})

	keywords := make([]models.ScoredKeyword, len(candidates))
	realData := 0
	for i, c := range candidates {
		sig := signals[i]
		keywords[i] = models.ScoredKeyword{
			Keyword:   c.Text,
			Origin:    c.Origin,
			Relevance: c.Relevance,
			Trend:     &sig,
		}
		if sig.IsRealData {
			realData++
		}
	}
	if len(keywords) > 0 {
		report.Stats.RealDataRatio = float64(realData) / float64(len(keywords))
		if realData == 0 {
			degraded["trends"] = true
		}
	}
	if err := p.deadline(ctx); err != nil {
		return nil, err
	}

	// Phase 3: first funnel pass on trend-weighted scores.
	p.stage(tracker, "filtering")
	keywords = p.funnel.BySignals(keywords, p.cfg.FirstFilterTarget)
	report.Stats.FirstPassCount = len(keywords)

	// Phase 4: platform enrichment for the head of the list.
	p.stage(tracker, "youtube_collection")
	p.enrich(ctx, keywords, tracker, degraded)
	if err := p.deadline(ctx); err != nil {
		return nil, err
	}

	// Phase 5: deep competitor landscapes for the strongest keywords.
	p.stage(tracker, "competitor_analysis")
	report.Landscapes = p.landscapes(ctx, keywords, tracker)
	if err := p.deadline(ctx); err != nil {
		return nil, err
	}

	// Phase 6: recompute opportunity with every signal attached, then
	// normalize across the batch and run the final funnel pass.
	for i := range keywords {
		p.scorer.Score(&keywords[i])
	}
	NormalizeBatch(keywords)
	keywords = p.funnel.BySignals(keywords, p.cfg.SecondFilterTarget)
	report.Stats.FinalCount = len(keywords)
	if err := p.deadline(ctx); err != nil {
		return nil, err
	}

	// Phase 7: predictions for the winners.
	p.stage(tracker, "report_generation")
	pctx := PredictionContext{
		TotalKeywords:    report.Stats.ExpandedCount,
		RegionalData:     req.Region != "",
		ConsistencyScore: report.Stats.RealDataRatio,
	}
	top := p.cfg.PredictionTop
	if top > len(keywords) {
		top = len(keywords)
	}
	report.Predictions = make([]models.Prediction, 0, top)
	for _, kw := range keywords[:top] {
		report.Predictions = append(report.Predictions, p.predictor.Predict(kw, req.Category, pctx))
	}

	// Phase 8: titles for the very best keywords.
	p.stage(tracker, "title_generation")
	report.Titles = p.generateTitles(ctx, keywords, req.Category, degraded)

	report.Keywords = keywords
	for name := range degraded {
		report.Stats.DegradedSources = append(report.Stats.DegradedSources, name)
	}
	report.Stats.Elapsed = time.Since(started)

	if tracker != nil {
		tracker.Complete()
	}
	p.log.Info().
		Str("topic", req.Topic).
		Int("expanded", report.Stats.ExpandedCount).
		Int("final", report.Stats.FinalCount).
		Dur("elapsed", report.Stats.Elapsed).
		Msg("analysis complete")
	return report, nil
}

// expand produces sanitized candidates. When expansion fails entirely the
// run degrades to the topic and user keywords.
func (p *Pipeline) expand(ctx context.Context, req models.AnalyzeRequest, degraded map[string]bool) []models.Candidate {
	var candidates []models.Candidate
	if p.expander != nil {
		var err error
		candidates, err = p.expander.Expand(ctx, req.Topic, req.Category, req.Keywords)
		if err != nil {
			p.log.Warn().Err(err).Msg("expansion failed, using seed keywords only")
			degraded["expansion"] = true
		}
	}
	if len(candidates) == 0 {
		texts := append([]string{req.Topic}, req.Keywords...)
		texts = p.funnel.Basic(texts, p.cfg.BasicFilterCap)
		texts = p.funnel.ByRelevance(texts, req.Topic, p.cfg.RelevanceKeep)
		for i, txt := range texts {
			rel := 1.0 - 0.1*float64(i)
			if rel < 0.5 {
				rel = 0.5
			}
			candidates = append(candidates, models.Candidate{Text: txt, Origin: models.OriginSeed, Relevance: rel, Rank: i + 1})
		}
	}

	// Sanitize candidate texts, then dedup keeping family priority order.
	cleaned := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		texts := p.funnel.Basic([]string{c.Text}, 1)
		if len(texts) == 0 {
			continue
		}
		c.Text = texts[0]
		cleaned = append(cleaned, c)
	}
	return DedupCandidates(cleaned, p.cfg.ExpansionTarget)
}

// enrich attaches competition and social signals to the top keywords.
// Workers write disjoint slots, so no lock is needed.
func (p *Pipeline) enrich(ctx context.Context, keywords []models.ScoredKeyword, tracker *progress.Tracker, degraded map[string]bool) {
	top := p.cfg.EnrichTop
	if top > len(keywords) {
		top = len(keywords)
	}
	if top == 0 {
		return
	}

	var wg sync.WaitGroup
	var unknowns sync.Map
	for i := 0; i < top; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snapshot := p.comp.Analyze(ctx, keywords[i].Keyword)
			keywords[i].Competition = &snapshot
			if snapshot.Tier == models.CompetitionUnknown {
				unknowns.Store("competition", true)
			}

			if p.social != nil {
				if sig, err := p.social.AnalyzeBuzz(ctx, keywords[i].Keyword); err == nil && sig != nil {
					keywords[i].Social = sig
				} else if err != nil && !errors.Is(err, context.Canceled) {
					unknowns.Store("social", true)
				}
			}
			if tracker != nil {
				tracker.SetSub(float64(i+1)/float64(top), keywords[i].Keyword)
			}
		}(i)
	}
	wg.Wait()

	unknowns.Range(func(k, _ any) bool {
		degraded[k.(string)] = true
		return true
	})
}

// landscapes profiles the channels behind the current top keywords. Failed
// lookups are skipped; the section may come back shorter than CompetitorTop.
func (p *Pipeline) landscapes(ctx context.Context, keywords []models.ScoredKeyword, tracker *progress.Tracker) []models.CompetitorLandscape {
	if p.landscape == nil {
		return nil
	}
	top := p.cfg.CompetitorTop
	if top > len(keywords) {
		top = len(keywords)
	}
	out := make([]models.CompetitorLandscape, 0, top)
	for i := 0; i < top; i++ {
		land, err := p.landscape.Analyze(ctx, keywords[i].Keyword, 10)
		if err != nil {
			p.log.Warn().Err(err).Str("keyword", keywords[i].Keyword).Msg("landscape analysis failed")
			continue
		}
		out = append(out, *land)
		if tracker != nil {
			tracker.SetSub(float64(i+1)/float64(top), keywords[i].Keyword)
		}
	}
	return out
}

func (p *Pipeline) generateTitles(ctx context.Context, keywords []models.ScoredKeyword, category string, degraded map[string]bool) []string {
	if p.titles == nil || len(keywords) == 0 {
		return nil
	}
	top := p.cfg.TitleTop
	if top > len(keywords) {
		top = len(keywords)
	}
	texts := make([]string, top)
	for i := 0; i < top; i++ {
		texts[i] = keywords[i].Keyword
	}
	titles, err := p.titles.GenerateTitles(ctx, texts, category)
	if err != nil {
		p.log.Warn().Err(err).Msg("title generation failed")
		degraded["titles"] = true
		return nil
	}
	return titles
}

// deadline translates a blown run deadline into the distinct timeout error.
// Partial results are discarded on purpose.
func (p *Pipeline) deadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.ErrPipelineTimeout
		}
		return err
	}
	return nil
}

func (p *Pipeline) stage(tracker *progress.Tracker, key string) {
	if tracker != nil {
		tracker.SetStage(key)
	}
}

// TrendingOpportunities quick-scores today's trending topics and returns
// the ones worth acting on.
func (p *Pipeline) TrendingOpportunities(ctx context.Context, source sources.TrendSource, geo string) ([]models.TrendingOpportunity, error) {
	topics, err := source.TrendingTopics(ctx, geo)
	if err != nil {
		return nil, err
	}
	if len(topics) > 10 {
		topics = topics[:10]
	}

	signals := p.trends.Collect(ctx, topics, "", nil)

	out := make([]models.TrendingOpportunity, 0, len(topics))
	for i, topic := range topics {
		sig := signals[i]
		kw := models.ScoredKeyword{Keyword: topic, Trend: &sig}
		p.scorer.Score(&kw)
		if kw.Opportunity <= 70 {
			continue
		}
		out = append(out, models.TrendingOpportunity{
			Topic:       topic,
			Opportunity: kw.Opportunity,
			Action:      recommendedAction(kw.Opportunity, sig.GrowthRate),
		})
	}
	return out, nil
}

func recommendedAction(opportunity, growthRate float64) string {
	switch {
	case opportunity > 80:
		return "🔥 즉시 콘텐츠 제작 추천! 블루오션 기회"
	case opportunity > 70 && growthRate > 30:
		return "📈 급성장 키워드! 빠른 대응 필요"
	case opportunity > 60:
		return "✅ 좋은 기회. 계획적 접근 추천"
	default:
		return "📊 지속 모니터링 필요"
	}
}
