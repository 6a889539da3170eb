package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/pricescope/backend/internal/domain"
)

// Default scoring parameters. Title and image are the primary
// discriminators; popularity is a tie-breaker among similar candidates.
const (
	defaultWeightTitle      = 0.45
	defaultWeightImage      = 0.40
	defaultWeightPopularity = 0.15

	// modelNumberBoost multiplies the title score when the model number
	// appears verbatim in the candidate title
	modelNumberBoost = 1.20
)

// ScoreWeights holds the weights of the composite score's three signals.
// Passed in explicitly so tests can exercise alternate weight sets.
type ScoreWeights struct {
	Title      float64
	Image      float64
	Popularity float64
}

// DefaultScoreWeights returns the 0.45/0.40/0.15 production weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Title:      defaultWeightTitle,
		Image:      defaultWeightImage,
		Popularity: defaultWeightPopularity,
	}
}

// CompositeScorer combines title similarity, image similarity, and relative
// popularity into one confidence score per candidate.
type CompositeScorer struct {
	weights            ScoreWeights
	images             domain.ImageSimilarityScorer
	enableDebugLogging bool
}

// NewCompositeScorer creates a scorer with the given weights. Zero or
// negative weight sets fall back to the defaults.
func NewCompositeScorer(weights ScoreWeights, images domain.ImageSimilarityScorer) *CompositeScorer {
	if weights.Title <= 0 && weights.Image <= 0 && weights.Popularity <= 0 {
		weights = DefaultScoreWeights()
	}

	return &CompositeScorer{
		weights: weights,
		images:  images,
	}
}

// SetDebug toggles per-candidate score logging.
func (s *CompositeScorer) SetDebug(enabled bool) {
	s.enableDebugLogging = enabled
}

// Score computes component and composite scores for one candidate.
// maxSaleVolume is the maximum sale volume across the candidate's batch,
// precomputed once so popularity is relative to the current result set.
// Returns an error only if the image similarity scorer itself fails.
func (s *CompositeScorer) Score(
	ctx context.Context,
	source *domain.SourceProduct,
	candidate domain.CandidateProduct,
	maxSaleVolume int,
) (domain.ScoredCandidate, error) {
	titleScore := s.titleScore(source.Name, candidate.Title, source.Spec(modelNumberSpec))

	imageScore, err := s.images.Similarity(ctx, source.ImageURL, candidate.ImageURL)
	if err != nil {
		return domain.ScoredCandidate{}, err
	}

	popularityScore := 0.0
	if maxSaleVolume > 0 && candidate.SaleVolume > 0 {
		popularityScore = float64(candidate.SaleVolume) / float64(maxSaleVolume)
	}

	composite := titleScore*s.weights.Title + imageScore*s.weights.Image + popularityScore*s.weights.Popularity

	if s.enableDebugLogging {
		log.Printf("[SCORE] Candidate: %q | Title: %.2f, Image: %.2f, Popularity: %.2f | Composite: %.2f",
			candidate.Title, titleScore, imageScore, popularityScore, composite)
	}

	return domain.ScoredCandidate{
		Candidate:       candidate,
		TitleScore:      titleScore,
		ImageScore:      imageScore,
		PopularityScore: popularityScore,
		CompositeScore:  composite,
	}, nil
}

// titleScore is the Jaccard similarity of the two titles' token sets, with
// a confidence boost when the model number appears in the candidate title.
// Clamped to 1.0 so the boost can never push the score past full credit.
func (s *CompositeScorer) titleScore(sourceName, candidateTitle, modelNumber string) float64 {
	score := Jaccard(Tokenize(sourceName), Tokenize(candidateTitle))

	if modelNumber != "" && strings.Contains(strings.ToLower(candidateTitle), strings.ToLower(modelNumber)) {
		score *= modelNumberBoost
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// MaxSaleVolume returns the largest sale volume in the batch, or 0 for an
// empty batch.
func MaxSaleVolume(candidates []domain.CandidateProduct) int {
	max := 0
	for _, c := range candidates {
		if c.SaleVolume > max {
			max = c.SaleVolume
		}
	}
	return max
}
