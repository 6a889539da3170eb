package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/pricescope/backend/internal/domain"
)

// fakeSearcher returns canned candidates and counts invocations.
type fakeSearcher struct {
	candidates []domain.CandidateProduct
	err        error
	calls      int
	lastQuery  string
}

func (f *fakeSearcher) SearchProducts(ctx context.Context, query string) ([]domain.CandidateProduct, error) {
	f.calls++
	f.lastQuery = query
	return f.candidates, f.err
}

func (f *fakeSearcher) Marketplace() string { return "AliExpress" }

// fakeRates returns a fixed exchange rate.
type fakeRates struct {
	rate float64
	err  error
}

func (f *fakeRates) Rate(ctx context.Context) (float64, error) {
	return f.rate, f.err
}

// fakeCache stores values through a JSON round-trip, the same shape a real
// cache backend hands back.
type fakeCache struct {
	data map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]interface{})}
}

func (c *fakeCache) Get(ctx context.Context, key string) (interface{}, error) {
	value, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}
	c.data[key] = stored
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

func speakerProduct() *domain.SourceProduct {
	return &domain.SourceProduct{
		Name:     "Redragon GS560 Adjudicator RGB Desktop Gaming Speakers",
		Brand:    "Redragon",
		Price:    "150.00",
		ImageURL: "https://img.example/source.jpg",
		Specifications: []domain.Specification{
			{Name: "Model Number", Value: "GS560"},
		},
	}
}

func newTestService(searcher *fakeSearcher, images domain.ImageSimilarityScorer, cache domain.CacheRepository) *ComparisonService {
	return NewComparisonService(searcher, images, &fakeRates{rate: 3.67}, cache, ComparisonServiceConfig{
		Weights:                DefaultScoreWeights(),
		MinConfidenceThreshold: 0.70,
		SourceStore:            "Amazon",
	})
}

func TestCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for nil product", func(t *testing.T) {
		svc := newTestService(&fakeSearcher{}, &fakeImageScorer{}, nil)
		_, err := svc.Compare(ctx, nil)
		if !errors.Is(err, domain.ErrInvalidProduct) {
			t.Errorf("error = %v, want ErrInvalidProduct", err)
		}
	})

	t.Run("returns error for empty product name", func(t *testing.T) {
		svc := newTestService(&fakeSearcher{}, &fakeImageScorer{}, nil)
		_, err := svc.Compare(ctx, &domain.SourceProduct{Price: "10"})
		if !errors.Is(err, domain.ErrInvalidProduct) {
			t.Errorf("error = %v, want ErrInvalidProduct", err)
		}
	})

	t.Run("derives brand plus model number search term", func(t *testing.T) {
		searcher := &fakeSearcher{}
		svc := newTestService(searcher, &fakeImageScorer{}, nil)

		result, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if searcher.lastQuery != "Redragon GS560" {
			t.Errorf("search term = %q, want %q", searcher.lastQuery, "Redragon GS560")
		}
		if result.MatchFound {
			t.Error("MatchFound = true, want false for empty results")
		}
	})

	t.Run("empty retrieval yields no-match not error", func(t *testing.T) {
		svc := newTestService(&fakeSearcher{}, &fakeImageScorer{}, nil)

		result, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.MatchFound {
			t.Error("MatchFound = true, want false")
		}
		if result.Message == "" {
			t.Error("Message is empty, want an explanatory reason")
		}
	})

	t.Run("transport failure is treated as no candidates", func(t *testing.T) {
		searcher := &fakeSearcher{err: domain.ErrMarketplaceAPIFailure}
		svc := newTestService(searcher, &fakeImageScorer{}, nil)

		result, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.MatchFound {
			t.Error("MatchFound = true, want false")
		}
	})

	t.Run("brand filter eliminating all candidates short-circuits", func(t *testing.T) {
		searcher := &fakeSearcher{candidates: []domain.CandidateProduct{
			{Title: "Generic USB Speakers", SalePrice: 12.0},
		}}
		svc := newTestService(searcher, &fakeImageScorer{}, nil)

		result, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.MatchFound {
			t.Error("MatchFound = true, want false when no candidate matches brand")
		}
	})

	t.Run("sub-threshold best score yields no-match", func(t *testing.T) {
		searcher := &fakeSearcher{candidates: []domain.CandidateProduct{
			{Title: "Redragon Mouse Pad XL", SalePrice: 9.0, ImageURL: "https://img.example/pad.jpg"},
		}}
		svc := newTestService(searcher, &fakeImageScorer{score: 0.1}, nil)

		result, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.MatchFound {
			t.Error("MatchFound = true, want false below threshold")
		}
		if result.Message != reasonBelowThreshold {
			t.Errorf("Message = %q, want %q", result.Message, reasonBelowThreshold)
		}
	})

	t.Run("confident match produces full comparison", func(t *testing.T) {
		searcher := &fakeSearcher{candidates: []domain.CandidateProduct{
			{
				Title:      "Redragon GS560 Speakers",
				DetailURL:  "https://ae.example/item/1",
				ImageURL:   "https://img.example/candidate.jpg",
				SalePrice:  35.0,
				ShopName:   "Redragon Official Store",
				SaleVolume: 100,
			},
		}}
		svc := newTestService(searcher, &fakeImageScorer{score: 1.0}, nil)

		result, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.MatchFound {
			t.Fatalf("MatchFound = false, want true; message: %s", result.Message)
		}
		// Title Jaccard is 3/7 boosted by 1.20; image and popularity are 1.0
		wantScore := (3.0/7.0)*1.20*0.45 + 1.0*0.40 + 1.0*0.15
		if result.MatchScore == nil || math.Abs(*result.MatchScore-wantScore) > 1e-12 {
			t.Errorf("MatchScore = %v, want %v", result.MatchScore, wantScore)
		}
		if result.SourceProduct == nil || result.SourceProduct.Price != 150.0 {
			t.Errorf("SourceProduct = %v, want parsed price 150.0", result.SourceProduct)
		}
		if result.Match == nil || result.Match.Title != "Redragon GS560 Speakers" {
			t.Errorf("Match = %v, want the candidate summary", result.Match)
		}

		pc := result.PriceComparison
		if pc == nil {
			t.Fatal("PriceComparison is nil, want populated")
		}
		if pc.CandidatePriceConverted != 128.45 {
			t.Errorf("CandidatePriceConverted = %v, want 128.45", pc.CandidatePriceConverted)
		}
		// 150 - 128.45 > 0, so the candidate marketplace is cheaper
		if pc.CheaperStore != "AliExpress" {
			t.Errorf("CheaperStore = %q, want AliExpress", pc.CheaperStore)
		}
		if pc.Notes != AdvisoryNote {
			t.Errorf("Notes = %q, want the advisory note", pc.Notes)
		}
	})

	t.Run("unparsable source price fails the run", func(t *testing.T) {
		searcher := &fakeSearcher{candidates: []domain.CandidateProduct{
			{Title: "Redragon GS560 Speakers", SalePrice: 35.0, ImageURL: "x", SaleVolume: 1},
		}}
		svc := newTestService(searcher, &fakeImageScorer{score: 1.0}, nil)

		product := speakerProduct()
		product.Price = "see listing"
		_, err := svc.Compare(ctx, product)
		if !errors.Is(err, domain.ErrPriceParse) {
			t.Errorf("error = %v, want ErrPriceParse", err)
		}
	})

	t.Run("image scorer failure fails the run", func(t *testing.T) {
		searcher := &fakeSearcher{candidates: []domain.CandidateProduct{
			{Title: "Redragon GS560 Speakers", SalePrice: 35.0, ImageURL: "x"},
		}}
		svc := newTestService(searcher, &fakeImageScorer{err: errors.New("hash backend down")}, nil)

		_, err := svc.Compare(ctx, speakerProduct())
		if err == nil {
			t.Error("expected scoring failure to propagate")
		}
	})

	t.Run("identical inputs yield identical outcomes", func(t *testing.T) {
		searcher := &fakeSearcher{candidates: []domain.CandidateProduct{
			{Title: "Redragon GS560 Speakers", SalePrice: 35.0, ImageURL: "x", SaleVolume: 100},
			{Title: "Redragon GS560 Speakers V2", SalePrice: 40.0, ImageURL: "y", SaleVolume: 80},
		}}
		svc := newTestService(searcher, &fakeImageScorer{score: 1.0}, nil)

		first, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Errorf("results differ across identical runs:\n%+v\n%+v", first, second)
		}
	})

	t.Run("cached match skips the marketplace call", func(t *testing.T) {
		searcher := &fakeSearcher{candidates: []domain.CandidateProduct{
			{Title: "Redragon GS560 Speakers", SalePrice: 35.0, ImageURL: "x", SaleVolume: 100},
		}}
		svc := newTestService(searcher, &fakeImageScorer{score: 1.0}, newFakeCache())

		first, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !first.MatchFound {
			t.Fatalf("MatchFound = false, want true; message: %s", first.Message)
		}

		second, err := svc.Compare(ctx, speakerProduct())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if searcher.calls != 1 {
			t.Errorf("searcher calls = %d, want 1 (second run served from cache)", searcher.calls)
		}
		if !second.MatchFound {
			t.Error("cached result lost MatchFound")
		}
		if second.PriceComparison == nil || second.PriceComparison.CheaperStore != first.PriceComparison.CheaperStore {
			t.Error("cached result lost the price comparison")
		}
	})

	t.Run("no-match outcomes are not cached", func(t *testing.T) {
		searcher := &fakeSearcher{}
		svc := newTestService(searcher, &fakeImageScorer{}, newFakeCache())

		if _, err := svc.Compare(ctx, speakerProduct()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.Compare(ctx, speakerProduct()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if searcher.calls != 2 {
			t.Errorf("searcher calls = %d, want 2 (no-match never cached)", searcher.calls)
		}
	})
}

func TestCompareDefaults(t *testing.T) {
	t.Run("zero threshold falls back to 0.70", func(t *testing.T) {
		svc := NewComparisonService(&fakeSearcher{}, &fakeImageScorer{}, &fakeRates{rate: 1}, nil, ComparisonServiceConfig{})
		if svc.minConfidenceThreshold != 0.70 {
			t.Errorf("minConfidenceThreshold = %v, want 0.70", svc.minConfidenceThreshold)
		}
	})

	t.Run("empty source store falls back to Amazon", func(t *testing.T) {
		svc := NewComparisonService(&fakeSearcher{}, &fakeImageScorer{}, &fakeRates{rate: 1}, nil, ComparisonServiceConfig{})
		if svc.sourceStore != "Amazon" {
			t.Errorf("sourceStore = %q, want Amazon", svc.sourceStore)
		}
	})
}
