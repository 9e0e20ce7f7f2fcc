package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

// GeminiClient implements KeywordExpander and TitleGenerator on top of the
// Gemini API. A nil inner client degrades every call to an empty result so
// the pipeline can run without a key.
type GeminiClient struct {
	client *genai.Client
	model  string
	log    zerolog.Logger

	// now is replaceable in tests; temporal prompts embed the current date.
	now func() time.Time
}

// NewGeminiClient builds the client. client may be nil.
func NewGeminiClient(client *genai.Client, model string) *GeminiClient {
	return &GeminiClient{
		client: client,
		model:  model,
		log:    logging.Component("gemini"),
		now:    time.Now,
	}
}

// expansionFamily describes one of the five prompt families. Scores decay
// with rank inside a family so earlier suggestions outrank later ones.
type expansionFamily struct {
	origin     models.Origin
	limit      int
	startScore float64
	prompt     func(g *GeminiClient, topic, category string, seed []string) string
}

func expansionFamilies() []expansionFamily {
	return []expansionFamily{
		{models.OriginCore, 40, 1.0, (*GeminiClient).corePrompt},
		{models.OriginIntent, 20, 0.9, (*GeminiClient).intentPrompt},
		{models.OriginAudience, 15, 0.85, (*GeminiClient).audiencePrompt},
		{models.OriginTemporal, 10, 0.8, (*GeminiClient).temporalPrompt},
		{models.OriginLongTail, 15, 0.75, (*GeminiClient).longTailPrompt},
	}
}

// Expand runs the five prompt families in parallel and merges their output.
// Families that fail are logged and skipped; the call only errors when every
// family failed.
func (g *GeminiClient) Expand(ctx context.Context, topic, category string, seed []string) ([]models.Candidate, error) {
	if g.client == nil {
		return nil, fmt.Errorf("%w: gemini client not configured", models.ErrSourceUnavailable)
	}

	families := expansionFamilies()
	results := make([][]models.Candidate, len(families))
	errs := make([]error, len(families))

	var wg sync.WaitGroup
	for i, fam := range families {
		wg.Add(1)
		go func(i int, fam expansionFamily) {
			defer wg.Done()
			keywords, err := g.generateKeywordList(ctx, fam.prompt(g, topic, category, seed))
			if err != nil {
				errs[i] = err
				return
			}
			if len(keywords) > fam.limit {
				keywords = keywords[:fam.limit]
			}
			out := make([]models.Candidate, 0, len(keywords))
			for rank, kw := range keywords {
				kw = strings.TrimSpace(kw)
				if kw == "" {
					continue
				}
				out = append(out, models.Candidate{
					Text:      kw,
					Origin:    fam.origin,
					Relevance: fam.startScore - float64(rank)*0.02,
					Rank:      rank + 1,
				})
			}
			results[i] = out
		}(i, fam)
	}
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			g.log.Warn().Err(err).Str("family", string(families[i].origin)).Msg("expansion family failed")
		}
	}
	if failed == len(families) {
		return nil, fmt.Errorf("%w: all expansion families failed", models.ErrSourceUnavailable)
	}

	merged := make([]models.Candidate, 0, 100)
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged, nil
}

// generateKeywordList asks the model for a JSON string array.
func (g *GeminiClient) generateKeywordList(ctx context.Context, prompt string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	content := genai.NewContentFromText(prompt, genai.RoleUser)
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: empty candidates", models.ErrMalformedResponse)
	}

	var keywords []string
	if err := json.Unmarshal([]byte(ExtractJSONArray(resp.Text())), &keywords); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}
	return keywords, nil
}

func (g *GeminiClient) corePrompt(topic, category string, seed []string) string {
	categoryContext := ""
	if category != "" {
		categoryContext = fmt.Sprintf("\n카테고리: %s", category)
	}
	userContext := ""
	if len(seed) > 0 {
		if len(seed) > 5 {
			seed = seed[:5]
		}
		userContext = fmt.Sprintf("\n사용자 제공 키워드: %s", strings.Join(seed, ", "))
	}
	return fmt.Sprintf(`YouTube 키워드 전문가로서 핵심 키워드를 확장해주세요.

주제: %s%s%s

다음 형식으로 40개의 핵심 키워드를 생성하세요:
1. 직접 동의어 및 유사어 (20개)
2. 축약어 및 별칭 (10개)
3. 영어/한국어 변형 (5개)
4. 관련 브랜드/제품명 (5개)
5. 구체적 하위 주제 (10개)

요구사항:
- 실제 YouTube에서 많이 검색되는 형태
- 자연스러운 검색어 형태
- 중복 없이 다양하게

JSON 배열로만 응답: ["키워드1", "키워드2", ...]`, topic, categoryContext, userContext)
}

func (g *GeminiClient) intentPrompt(topic, category string, _ []string) string {
	return fmt.Sprintf(`YouTube 검색 의도별 키워드를 생성하세요.

주제: %s
카테고리: %s

검색 의도별로 각 5개씩:
1. 정보성 (How to, 방법, 뜻, 이란)
2. 학습형 (강의, 강좌, 배우기, 기초)
3. 비교형 (vs, 비교, 차이, 장단점)
4. 문제해결형 (해결, 오류, 안될때, 고치는법)

실제 사용자들이 검색하는 자연스러운 형태로 작성하세요.

JSON 배열로만 응답: ["키워드1", "키워드2", ...]`, topic, orDefault(category))
}

func (g *GeminiClient) audiencePrompt(topic, category string, _ []string) string {
	return fmt.Sprintf(`타겟 시청자별 YouTube 키워드를 생성하세요.

주제: %s
카테고리: %s

타겟별로 각 5개씩:
1. 초보자용 (입문, 기초, 쉽게, 처음)
2. 중급자용 (심화, 꿀팁, 노하우)
3. 전문가용 (고급, 프로, 전문가)

각 수준에 맞는 자연스러운 검색어로 작성하세요.

JSON 배열로만 응답: ["키워드1", "키워드2", ...]`, topic, orDefault(category))
}

func (g *GeminiClient) temporalPrompt(topic, category string, _ []string) string {
	now := g.now()
	season := seasonOf(now.Month())
	return fmt.Sprintf(`시간/트렌드 관련 YouTube 키워드를 생성하세요.

주제: %s
카테고리: %s
현재: %d년 %d월 (%s)

다음 형식으로 10개 생성:
1. 연도별 (%d, %d, 최신)
2. 시즌별 (%s 관련)
3. 트렌드 (신규, 업데이트, 핫한)
4. 이벤트 (관련 이벤트/기념일)

시의성 있는 자연스러운 검색어로 작성하세요.

JSON 배열로만 응답: ["키워드1", "키워드2", ...]`,
		topic, orDefault(category), now.Year(), int(now.Month()), season, now.Year()-1, now.Year(), season)
}

func (g *GeminiClient) longTailPrompt(topic, category string, seed []string) string {
	base := "없음"
	if len(seed) > 0 {
		if len(seed) > 3 {
			seed = seed[:3]
		}
		base = strings.Join(seed, ", ")
	}
	return fmt.Sprintf(`롱테일 YouTube 검색 키워드를 생성하세요.

주제: %s
카테고리: %s
기본 키워드: %s

3-5단어로 구성된 자연스러운 롱테일 키워드 15개 생성:
- 구체적인 상황/문제 설명
- 자연스러운 한국어 구어체
- 실제 검색될 만한 형태

예시: "마인크래프트 초보자 집 짓기 쉽게"

JSON 배열로만 응답: ["키워드1", "키워드2", ...]`, topic, orDefault(category), base)
}

// titleSchema constrains the title response to the hook-pattern shape.
func titleSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"titles": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":     {Type: genai.TypeString},
						"hook_type": {Type: genai.TypeString},
					},
					Required: []string{"title"},
				},
			},
		},
		Required: []string{"titles"},
	}
}

// GenerateTitles asks for five hook-pattern titles for the top keywords.
func (g *GeminiClient) GenerateTitles(ctx context.Context, keywords []string, category string) ([]string, error) {
	if g.client == nil || len(keywords) == 0 {
		return nil, nil
	}
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(`YouTube 제목 최적화 전문가로서 작업해주세요.

주요 키워드: %s
카테고리: %s

다음 후킹 패턴을 활용하여 5개의 제목을 생성하세요:
1. 손해 회피: "모르면 손해" 심리
2. 호기심 자극: 궁금증 유발
3. 숫자 활용: 명확한 구조
4. Before/After: 변화 강조
5. 권위 도전: 상식 뒤집기

요구사항:
- 60자 이내
- 자연스러운 한국어
- 과도한 클릭베이트 지양
- 키워드 자연스럽게 포함`, strings.Join(keywords, ", "), orDefault(category))

	content := genai.NewContentFromText(prompt, genai.RoleUser)
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   titleSchema(),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, cfg)
	if err != nil {
		g.log.Warn().Err(err).Msg("title generation failed")
		return nil, nil
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}

	var result struct {
		Titles []struct {
			Title    string `json:"title"`
			HookType string `json:"hook_type"`
		} `json:"titles"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &result); err != nil {
		g.log.Warn().Err(err).Msg("title response unparseable")
		return nil, nil
	}

	titles := make([]string, 0, 5)
	for _, t := range result.Titles {
		if title := strings.TrimSpace(t.Title); title != "" {
			titles = append(titles, title)
		}
		if len(titles) == 5 {
			break
		}
	}
	return titles, nil
}

func orDefault(category string) string {
	if category == "" {
		return "일반"
	}
	return category
}

func seasonOf(m time.Month) string {
	switch {
	case m >= 3 && m <= 5:
		return "봄"
	case m >= 6 && m <= 8:
		return "여름"
	case m >= 9 && m <= 11:
		return "가을"
	default:
		return "겨울"
	}
}

// ExtractJSONArray trims markdown fences and leading prose from a model
// response, leaving the first JSON array.
func ExtractJSONArray(s string) string {
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+7:]
		if endIdx := strings.Index(s, "```"); endIdx != -1 {
			s = s[:endIdx]
		}
	} else if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
		if endIdx := strings.Index(s, "```"); endIdx != -1 {
			s = s[:endIdx]
		}
	}
	if idx := strings.Index(s, "["); idx != -1 {
		s = s[idx:]
	}
	return strings.TrimSpace(s)
}
