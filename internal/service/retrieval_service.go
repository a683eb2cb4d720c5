package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"ai-helpdesk/internal/knowledge"
	"ai-helpdesk/internal/models"
	"ai-helpdesk/pkg/config"

	"go.uber.org/zap"
)

// semanticMaxResults caps the index list the ranking prompt may return.
const semanticMaxResults = 3

// retrievalTier is one strategy in the fallback cascade. Tiers share no
// mutable state; a tier that errors or returns nothing simply cedes to
// the next one.
type retrievalTier interface {
	name() string
	attempt(ctx context.Context, query string) ([]models.RetrievalResult, error)
}

// RetrievalService returns the top-K most relevant chunks for a query,
// trying vector search, then LLM semantic ranking, then keyword search.
type RetrievalService struct {
	store  *knowledge.Store
	tiers  []retrievalTier
	logger *zap.Logger
}

// NewRetrievalService assembles the tier cascade. When an embedder is
// supplied, chunk embeddings are computed once here so the vector tier
// works off an immutable index; if that fails the tier is dropped and
// the remaining tiers still serve.
func NewRetrievalService(
	ctx context.Context,
	store *knowledge.Store,
	completer Completer,
	embedder Embedder,
	cfg *config.RetrievalConfig,
	logger *zap.Logger,
) *RetrievalService {
	s := &RetrievalService{store: store, logger: logger}

	if embedder != nil && store.Len() > 0 {
		tier, err := newVectorTier(ctx, store, embedder, cfg.TopK)
		if err != nil {
			logger.Warn("Failed to build vector index, vector tier disabled", zap.Error(err))
		} else {
			s.tiers = append(s.tiers, tier)
		}
	}

	s.tiers = append(s.tiers,
		&semanticTier{
			store:           store,
			completer:       completer,
			window:          cfg.SemanticWindow,
			summaryMaxChars: cfg.SummaryMaxChars,
		},
		&keywordTier{store: store, topK: cfg.TopK},
	)

	return s
}

// Retrieve runs the cascade: the first tier returning at least one
// result wins and later tiers are not attempted. Tier failures are
// logged and treated as empty results.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) []models.RetrievalResult {
	if s.store.Len() == 0 {
		return nil
	}

	for _, tier := range s.tiers {
		results, err := tier.attempt(ctx, query)
		if err != nil {
			s.logger.Warn("Retrieval tier failed, cascading",
				zap.String("tier", tier.name()),
				zap.Error(err),
			)
			continue
		}
		if len(results) > 0 {
			s.logger.Debug("Retrieval tier succeeded",
				zap.String("tier", tier.name()),
				zap.Int("results", len(results)),
			)
			return results
		}
	}
	return nil
}

// TierNames reports the active cascade order for the status endpoint.
func (s *RetrievalService) TierNames() []string {
	names := make([]string, 0, len(s.tiers))
	for _, t := range s.tiers {
		names = append(names, t.name())
	}
	return names
}

// --- vector tier ---

type vectorTier struct {
	store      *knowledge.Store
	embedder   Embedder
	embeddings [][]float32
	topK       int
}

func newVectorTier(ctx context.Context, store *knowledge.Store, embedder Embedder, topK int) (*vectorTier, error) {
	texts := make([]string, 0, store.Len())
	for _, c := range store.Chunks() {
		texts = append(texts, c.Content)
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed knowledge chunks: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedded %d chunks, expected %d", len(vectors), len(texts))
	}

	return &vectorTier{
		store:      store,
		embedder:   embedder,
		embeddings: vectors,
		topK:       topK,
	}, nil
}

func (t *vectorTier) name() string { return "vector" }

func (t *vectorTier) attempt(ctx context.Context, query string) ([]models.RetrievalResult, error) {
	queryVec, err := t.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, 0, len(t.embeddings))
	for i, vec := range t.embeddings {
		scores = append(scores, scored{idx: i, score: cosineSimilarity(queryVec, vec)})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := min(t.topK, len(scores))
	results := make([]models.RetrievalResult, 0, n)
	for _, sc := range scores[:n] {
		chunk, _ := t.store.Chunk(sc.idx)
		results = append(results, models.RetrievalResult{
			Content:        chunk.Content,
			Source:         chunk.Source,
			Section:        chunk.Section,
			RelevanceScore: models.Clamp01(sc.score),
		})
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// --- semantic ranking tier ---

type semanticTier struct {
	store           *knowledge.Store
	completer       Completer
	window          int
	summaryMaxChars int
}

func (t *semanticTier) name() string { return "semantic" }

func (t *semanticTier) attempt(ctx context.Context, query string) ([]models.RetrievalResult, error) {
	chunks := t.store.Chunks()

	var summaries strings.Builder
	for i, chunk := range chunks {
		if i >= t.window {
			break
		}
		summaries.WriteString(fmt.Sprintf("[%d] %s (%s): %s...\n",
			i, chunk.Section, chunk.Source, truncateRunes(chunk.Content, t.summaryMaxChars)))
	}

	prompt := fmt.Sprintf(`Given this user query: "%s"

Find the most relevant knowledge chunks from the following list. Return ONLY the numbers (e.g., "3, 7, 12") of the %d most relevant chunks, ranked by relevance. If none are relevant, return "none".

Knowledge chunks:
%s
Most relevant chunk numbers (top %d):`, query, semanticMaxResults, summaries.String(), semanticMaxResults)

	reply, err := t.completer.Complete(ctx, prompt, 50)
	if err != nil {
		return nil, err
	}

	indices := parseChunkIndices(reply, semanticMaxResults, len(chunks))

	// The ranking reply carries no numeric scores; assign decreasing
	// synthetic relevance so the ordering survives without ties.
	results := make([]models.RetrievalResult, 0, len(indices))
	for rank, idx := range indices {
		chunk, ok := t.store.Chunk(idx)
		if !ok {
			continue
		}
		results = append(results, models.RetrievalResult{
			Content:        chunk.Content,
			Source:         chunk.Source,
			Section:        chunk.Section,
			RelevanceScore: models.Clamp01(1.0 - 0.1*float64(rank)),
		})
	}
	return results, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// --- keyword tier ---

type keywordTier struct {
	store *knowledge.Store
	topK  int
}

func (t *keywordTier) name() string { return "keyword" }

// attempt scores each chunk by the number of query tokens present in
// its lowercased content. It only comes up empty when no chunk shares a
// token with the query (or the query itself is empty).
func (t *keywordTier) attempt(_ context.Context, query string) ([]models.RetrievalResult, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	type scored struct {
		idx   int
		score int
	}
	var matches []scored
	for i, chunk := range t.store.Chunks() {
		content := strings.ToLower(chunk.Content)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(content, tok) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{idx: i, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	n := min(t.topK, len(matches))
	results := make([]models.RetrievalResult, 0, n)
	for _, m := range matches[:n] {
		chunk, _ := t.store.Chunk(m.idx)
		results = append(results, models.RetrievalResult{
			Content:        chunk.Content,
			Source:         chunk.Source,
			Section:        chunk.Section,
			RelevanceScore: models.Clamp01(float64(m.score) / float64(len(tokens))),
		})
	}
	return results, nil
}
