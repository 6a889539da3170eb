package usecase

import (
	"strings"

	"github.com/pricescope/backend/internal/domain"
)

// FilterByBrand narrows candidates to those whose title contains the brand
// string case-insensitively. An empty brand passes every candidate through
// unchanged. Brand containment is a cheap pre-filter that rejects obviously
// unrelated listings before image comparison is attempted.
func FilterByBrand(candidates []domain.CandidateProduct, brand string) []domain.CandidateProduct {
	if brand == "" {
		return candidates
	}

	brandLower := strings.ToLower(brand)
	filtered := make([]domain.CandidateProduct, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Title), brandLower) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
