package domain

import "strings"

// Specification is a single name/value pair from a product's spec table.
// Names are not guaranteed unique; lookups take the first match.
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SourceProduct is the product being matched from, as extracted from the
// source marketplace listing. Price is the raw display string (e.g.
// "1,234.56 AED") and is only parsed when a comparison is computed.
type SourceProduct struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name" binding:"required"`
	Brand          string          `json:"brand,omitempty"`
	Price          string          `json:"price"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	Specifications []Specification `json:"specifications,omitempty"`
}

// Spec returns the value of the first specification whose name equals key
// case-insensitively, or "" when the spec is absent.
func (p *SourceProduct) Spec(key string) string {
	for _, s := range p.Specifications {
		if strings.EqualFold(s.Name, key) {
			return s.Value
		}
	}
	return ""
}

// CandidateProduct is a single listing fetched from the target marketplace.
// SalePrice is numeric and already in the marketplace's native currency.
// SaleVolume is a recent sale counter; unknown values default to 0.
type CandidateProduct struct {
	Title      string  `json:"productTitle"`
	DetailURL  string  `json:"productDetailUrl"`
	ImageURL   string  `json:"mainImageUrl"`
	SalePrice  float64 `json:"salePrice"`
	ShopName   string  `json:"shopName"`
	SaleVolume int     `json:"latestSaleVolume"`
}

// ScoredCandidate is a candidate plus its component and composite scores.
// Ephemeral: produced by the scorer, consumed by the selector.
type ScoredCandidate struct {
	Candidate       CandidateProduct
	TitleScore      float64
	ImageScore      float64
	PopularityScore float64
	CompositeScore  float64
}
