// Package exchange provides the conversion rate from the candidate
// marketplace's currency to the source marketplace's currency.
package exchange

import "context"

// defaultUSDToAED is the USD -> AED peg used when no rate is configured.
const defaultUSDToAED = 3.67

// StaticProvider returns a fixed, configured exchange rate. It implements
// domain.ExchangeRateProvider.
type StaticProvider struct {
	rate float64
}

// NewStaticProvider creates a provider with the given rate. A zero or
// negative rate falls back to the USD/AED peg.
func NewStaticProvider(rateValue float64) *StaticProvider {
	if rateValue <= 0 {
		rateValue = defaultUSDToAED
	}
	return &StaticProvider{rate: rateValue}
}

// Rate returns the configured conversion rate.
func (p *StaticProvider) Rate(ctx context.Context) (float64, error) {
	return p.rate, nil
}
