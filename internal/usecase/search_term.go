package usecase

import (
	"strings"

	"github.com/pricescope/backend/internal/domain"
)

// modelNumberSpec is the specification name holding the manufacturer model
// number, looked up case-insensitively.
const modelNumberSpec = "Model Number"

// fallbackKeywordLimit caps the title-derived fallback query. Marketplace
// search engines handle long queries poorly, so only the leading words are
// kept.
const fallbackKeywordLimit = 4

// DeriveSearchTerm builds the query sent to the target marketplace for a
// source product. Brand plus model number is a high-precision query when
// both are known; otherwise the leading words of the display name serve as
// a low-information fallback.
func DeriveSearchTerm(product *domain.SourceProduct) string {
	term := strings.TrimSpace(strings.TrimSpace(product.Brand) + " " + product.Spec(modelNumberSpec))
	if term != "" {
		return term
	}

	words := strings.Fields(product.Name)
	if len(words) > fallbackKeywordLimit {
		words = words[:fallbackKeywordLimit]
	}
	return strings.Join(words, " ")
}
