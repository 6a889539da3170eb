package domain

import (
	"context"
	"time"
)

// CandidateSearcher defines the two-method contract every marketplace
// backend implements. The core depends only on this interface, never on a
// concrete marketplace client. An empty slice with a nil error signals a
// legitimately empty result set.
type CandidateSearcher interface {
	SearchProducts(ctx context.Context, query string) ([]CandidateProduct, error)
	Marketplace() string
}

// ImageSimilarityScorer scores the visual similarity of two image
// references in [0, 1]. Implementations must return 0.0 with a nil error
// when either reference is empty or unreachable; a non-nil error means the
// scorer itself failed and the comparison cannot be trusted.
type ImageSimilarityScorer interface {
	Similarity(ctx context.Context, refA, refB string) (float64, error)
}

// ExchangeRateProvider returns the current conversion rate from the
// candidate marketplace's currency to the source marketplace's currency.
type ExchangeRateProvider interface {
	Rate(ctx context.Context) (float64, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
