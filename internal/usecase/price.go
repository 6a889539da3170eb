package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/pricescope/backend/internal/domain"
)

// AdvisoryNote is the constant disclosure attached to every comparison.
const AdvisoryNote = "Shipping costs not included. Verify final price on seller's page."

// priceSanitizeRegex strips everything but digits and the decimal point
// from a raw price string ("1,234.56 AED" -> "1234.56").
var priceSanitizeRegex = regexp.MustCompile(`[^0-9.]`)

// ParsePrice parses a raw, currency-decorated price string into a float.
// This is the one place the pipeline fails hard on malformed upstream data:
// a silently-defaulted zero price would corrupt the comparison outcome.
func ParsePrice(raw string) (float64, error) {
	stripped := priceSanitizeRegex.ReplaceAllString(raw, "")
	if stripped == "" {
		return 0, fmt.Errorf("%w: %q", domain.ErrPriceParse, raw)
	}

	price, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrPriceParse, raw)
	}
	return price, nil
}

// ComparePrices converts the candidate's native-currency price via the
// exchange rate and determines the cheaper store. A difference of exactly 0
// favors the target store; this is a documented tie-break convention, not a
// bug.
func ComparePrices(
	sourcePrice float64,
	candidate *domain.CandidateProduct,
	exchangeRate float64,
	sourceStore, targetStore string,
) domain.PriceComparison {
	converted := candidate.SalePrice * exchangeRate
	difference := sourcePrice - converted

	cheaperStore := targetStore
	if difference < 0 {
		cheaperStore = sourceStore
	}

	return domain.PriceComparison{
		SourcePrice:             sourcePrice,
		CandidatePriceConverted: converted,
		PriceDifference:         math.Abs(difference),
		CheaperStore:            cheaperStore,
		Notes:                   AdvisoryNote,
	}
}
