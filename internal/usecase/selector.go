package usecase

import "github.com/pricescope/backend/internal/domain"

// No-match reasons surfaced to callers. Distinct strings so "nothing to
// score" and "nothing scored well enough" are observable separately.
const (
	reasonNoCandidates   = "no candidates to score"
	reasonBelowThreshold = "no confident match found for the given product"
)

// SelectBestMatch scans scored candidates and returns the one with the
// strictly greatest composite score, provided it meets the confidence
// threshold. On exact ties the first candidate in input order wins. Returns
// nil and a reason string when the list is empty or the best score falls
// below the threshold.
func SelectBestMatch(scored []domain.ScoredCandidate, threshold float64) (*domain.ScoredCandidate, string) {
	if len(scored) == 0 {
		return nil, reasonNoCandidates
	}

	best := 0
	for i := 1; i < len(scored); i++ {
		if scored[i].CompositeScore > scored[best].CompositeScore {
			best = i
		}
	}

	if scored[best].CompositeScore < threshold {
		return nil, reasonBelowThreshold
	}
	return &scored[best], ""
}
