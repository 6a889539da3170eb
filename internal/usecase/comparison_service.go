package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/pricescope/backend/internal/domain"
)

// multipleSpacesRegex collapses whitespace runs in cache key components.
var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	Weights                ScoreWeights
	MinConfidenceThreshold float64
	CacheTTL               time.Duration
	SourceStore            string
	EnableDebugLogging     bool
}

// ComparisonService orchestrates one full comparison run: derive a search
// term, fetch candidates from the target marketplace, filter by brand,
// score, select the best match under the confidence gate, and compute the
// price comparison.
type ComparisonService struct {
	searcher               domain.CandidateSearcher
	rates                  domain.ExchangeRateProvider
	cache                  domain.CacheRepository
	scorer                 *CompositeScorer
	minConfidenceThreshold float64
	cacheTTL               time.Duration
	sourceStore            string
	enableDebugLogging     bool
}

// NewComparisonService creates a comparison service with dependencies.
func NewComparisonService(
	searcher domain.CandidateSearcher,
	images domain.ImageSimilarityScorer,
	rates domain.ExchangeRateProvider,
	cache domain.CacheRepository,
	config ComparisonServiceConfig,
) *ComparisonService {
	threshold := config.MinConfidenceThreshold
	if threshold <= 0 {
		threshold = 0.70 // Default confidence gate
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	sourceStore := config.SourceStore
	if sourceStore == "" {
		sourceStore = "Amazon"
	}

	scorer := NewCompositeScorer(config.Weights, images)
	scorer.SetDebug(config.EnableDebugLogging)

	return &ComparisonService{
		searcher:               searcher,
		rates:                  rates,
		cache:                  cache,
		scorer:                 scorer,
		minConfidenceThreshold: threshold,
		cacheTTL:               cacheTTL,
		sourceStore:            sourceStore,
		enableDebugLogging:     config.EnableDebugLogging,
	}
}

// Compare finds the best matching listing on the target marketplace for a
// source product and computes the price comparison.
// Flow: check cache -> derive search term -> search -> filter -> score ->
// select -> compare -> cache -> return.
// No-match outcomes are normal results; only an unparsable source price or
// a collaborator failure is returned as an error.
func (s *ComparisonService) Compare(ctx context.Context, product *domain.SourceProduct) (*domain.ComparisonResult, error) {
	if product == nil || product.Name == "" {
		return nil, domain.ErrInvalidProduct
	}

	cacheKey := s.generateCacheKey(product)
	if cached := s.getFromCache(ctx, cacheKey); cached != nil {
		log.Printf("[COMPARE] Cache hit for product: %q", product.Name)
		return cached, nil
	}

	searchTerm := DeriveSearchTerm(product)
	log.Printf("[COMPARE] Generated search term: %q", searchTerm)

	candidates, err := s.searcher.SearchProducts(ctx, searchTerm)
	if err != nil {
		// A transport failure and an empty result set are treated
		// identically as "no candidates"; the distinction stays in the logs.
		log.Printf("[COMPARE] %s search failed for %q: %v", s.searcher.Marketplace(), searchTerm, err)
		candidates = nil
	}
	if len(candidates) == 0 {
		return domain.NoMatch(fmt.Sprintf("%s returned no results for the given product", s.searcher.Marketplace())), nil
	}
	log.Printf("[COMPARE] Found %d initial results from %s", len(candidates), s.searcher.Marketplace())

	filtered := FilterByBrand(candidates, product.Brand)
	if len(filtered) == 0 {
		log.Printf("[COMPARE] No candidates matched brand %q", product.Brand)
		return domain.NoMatch(fmt.Sprintf("no candidates on %s matched the brand", s.searcher.Marketplace())), nil
	}
	if product.Brand != "" {
		log.Printf("[COMPARE] Filtered to %d candidates based on brand %q", len(filtered), product.Brand)
	}

	maxVolume := MaxSaleVolume(filtered)
	scored := make([]domain.ScoredCandidate, 0, len(filtered))
	for _, candidate := range filtered {
		sc, err := s.scorer.Score(ctx, product, candidate, maxVolume)
		if err != nil {
			return nil, fmt.Errorf("scoring candidate %q: %w", candidate.Title, err)
		}
		scored = append(scored, sc)
	}

	best, reason := SelectBestMatch(scored, s.minConfidenceThreshold)
	if best == nil {
		log.Printf("[COMPARE] No match above threshold %.2f: %s", s.minConfidenceThreshold, reason)
		return domain.NoMatch(reason), nil
	}
	log.Printf("[COMPARE] Best match: %q with score %.2f", best.Candidate.Title, best.CompositeScore)

	sourcePrice, err := ParsePrice(product.Price)
	if err != nil {
		return nil, err
	}

	rate, err := s.rates.Rate(ctx)
	if err != nil {
		return nil, fmt.Errorf("exchange rate lookup: %w", err)
	}

	comparison := ComparePrices(sourcePrice, &best.Candidate, rate, s.sourceStore, s.searcher.Marketplace())

	score := best.CompositeScore
	result := &domain.ComparisonResult{
		MatchFound: true,
		SourceProduct: &domain.SourceSummary{
			Title: product.Name,
			Price: sourcePrice,
		},
		Match: &domain.CandidateSummary{
			Title:     best.Candidate.Title,
			DetailURL: best.Candidate.DetailURL,
			SalePrice: best.Candidate.SalePrice,
			ShopName:  best.Candidate.ShopName,
		},
		MatchScore:      &score,
		PriceComparison: &comparison,
	}

	// Only confident matches are cached; no-match outcomes may change as
	// marketplace inventory does.
	if err := s.setInCache(ctx, cacheKey, result); err != nil {
		log.Printf("[COMPARE] Failed to cache result for %q: %v", product.Name, err)
	}

	return result, nil
}

// generateCacheKey creates a normalized cache key from the source product.
// Format: "comparison:{normalized_name}:{normalized_brand}"
func (s *ComparisonService) generateCacheKey(product *domain.SourceProduct) string {
	return fmt.Sprintf("comparison:%s:%s",
		normalizeForCacheKey(product.Name),
		normalizeForCacheKey(product.Brand))
}

// normalizeForCacheKey lowercases, strips special characters, and collapses
// whitespace so equivalent products share a key.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(s), "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// getFromCache retrieves a comparison result from cache, tolerating the
// JSON round-trip the cache applies to stored values.
func (s *ComparisonService) getFromCache(ctx context.Context, key string) *domain.ComparisonResult {
	if s.cache == nil {
		return nil
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}

	if result, ok := value.(*domain.ComparisonResult); ok {
		return result
	}

	// Stored values come back as generic maps after JSON serialization
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	var result domain.ComparisonResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil
	}
	if !result.MatchFound {
		return nil
	}
	return &result
}

// setInCache stores a comparison result in cache.
func (s *ComparisonService) setInCache(ctx context.Context, key string, result *domain.ComparisonResult) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, key, result, s.cacheTTL)
}
