package domain

// SourceSummary is the slice of the source product included in a result.
type SourceSummary struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// CandidateSummary is the slice of the matched candidate included in a result.
type CandidateSummary struct {
	Title     string  `json:"productTitle"`
	DetailURL string  `json:"productDetailUrl"`
	SalePrice float64 `json:"salePriceUSD"`
	ShopName  string  `json:"shopName"`
}

// PriceComparison is the currency-normalized price breakdown for a match.
// PriceDifference is always the absolute difference; CheaperStore carries
// the verdict.
type PriceComparison struct {
	SourcePrice             float64 `json:"sourcePrice"`
	CandidatePriceConverted float64 `json:"candidatePriceConverted"`
	PriceDifference         float64 `json:"priceDifference"`
	CheaperStore            string  `json:"cheaperStore"`
	Notes                   string  `json:"notes"`
}

// ComparisonResult is the terminal outcome of one comparison run: either a
// no-match with a human-readable message, or a match with its confidence
// score and price comparison. Pointer fields are omitted from JSON when no
// match was found.
type ComparisonResult struct {
	MatchFound      bool              `json:"matchFound"`
	Message         string            `json:"message,omitempty"`
	SourceProduct   *SourceSummary    `json:"sourceProduct,omitempty"`
	Match           *CandidateSummary `json:"match,omitempty"`
	MatchScore      *float64          `json:"matchScore,omitempty"`
	PriceComparison *PriceComparison  `json:"priceComparison,omitempty"`
}

// NoMatch builds the no-match outcome with an explanatory reason.
func NoMatch(reason string) *ComparisonResult {
	return &ComparisonResult{MatchFound: false, Message: reason}
}
