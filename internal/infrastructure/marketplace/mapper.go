package marketplace

import "github.com/pricescope/backend/internal/domain"

// sanitizeProducts normalizes provider payload quirks before candidates
// enter the matching pipeline: negative sale volumes and prices are clamped
// to zero, and listings without a title are dropped since they can never be
// scored against a product name.
func sanitizeProducts(products []domain.CandidateProduct) []domain.CandidateProduct {
	cleaned := make([]domain.CandidateProduct, 0, len(products))
	for _, p := range products {
		if p.Title == "" {
			continue
		}
		if p.SaleVolume < 0 {
			p.SaleVolume = 0
		}
		if p.SalePrice < 0 {
			p.SalePrice = 0
		}
		cleaned = append(cleaned, p)
	}
	return cleaned
}
