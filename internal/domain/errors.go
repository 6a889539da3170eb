package domain

import "errors"

var (
	// ErrInvalidProduct is returned when the source product is missing
	// required fields (an empty name cannot be matched)
	ErrInvalidProduct = errors.New("invalid source product")

	// ErrPriceParse is returned when the source product's raw price string
	// cannot be parsed to a number
	ErrPriceParse = errors.New("source price is not parsable")

	// ErrMarketplaceAPIFailure is returned when the marketplace search API
	// request fails
	ErrMarketplaceAPIFailure = errors.New("marketplace API request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
